package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/xhad/skim/internal/models"
)

const DefaultChunkSize = 3000

type ProcessorConfig struct {
	ChunkSize int
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}

	return Processor{
		config: config,
	}
}

// Split chunks text with the configured chunk size.
func (p *Processor) Split(text string) []models.Chunk {
	return Chunk(text, p.config.ChunkSize)
}

func (p *Processor) ChunkSize() int {
	return p.config.ChunkSize
}

// Chunk splits text into contiguous pieces of at most maxSize characters.
// Blank text yields no chunks. Splitting is positional and never cuts a
// UTF-8 sequence in half.
func Chunk(text string, maxSize int) []models.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxSize <= 0 {
		return []models.Chunk{{Index: 0, Text: text}}
	}

	chunks := make([]models.Chunk, 0, utf8.RuneCountInString(text)/maxSize+1)

	start, count := 0, 0
	for i := range text {
		if count == maxSize {
			chunks = append(chunks, models.Chunk{Index: len(chunks), Text: text[start:i]})
			start, count = i, 0
		}
		count++
	}
	chunks = append(chunks, models.Chunk{Index: len(chunks), Text: text[start:]})

	return chunks
}

// Join reassembles chunk texts in index order.
func Join(chunks []models.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
