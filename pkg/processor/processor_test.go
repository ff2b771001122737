package processor_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/skim/pkg/processor"
)

func TestChunk_BlankText(t *testing.T) {
	for _, text := range []string{"", " ", "\n\t  \n"} {
		assert.Empty(t, processor.Chunk(text, 10), "text %q", text)
	}
}

func TestChunk_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
		want    int
	}{
		{"shorter than max", "hello world", 100, 1},
		{"exact multiple", strings.Repeat("a", 30), 10, 3},
		{"remainder", strings.Repeat("ab", 11), 5, 5},
		{"size one", "abc", 1, 3},
		{"leading and trailing space", "  padded text  ", 4, 4},
		{"multibyte", "héllo wörld ✓ ünïcode", 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := processor.Chunk(tt.text, tt.maxSize)
			require.Len(t, chunks, tt.want)

			assert.Equal(t, tt.text, processor.Join(chunks))
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), tt.maxSize)
				assert.True(t, utf8.ValidString(c.Text))
				assert.NotEmpty(t, c.Text)
			}
		})
	}
}

func TestChunk_NineThousandCharacters(t *testing.T) {
	text := strings.Repeat("x", 9000)

	chunks := processor.Chunk(text, 3000)

	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Len(t, c.Text, 3000)
	}
}

func TestChunk_NonPositiveSize(t *testing.T) {
	chunks := processor.Chunk("some text", 0)
	require.Len(t, chunks, 1)
	assert.Equal(t, "some text", chunks[0].Text)
}

func TestProcessor_Split(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{ChunkSize: 4})
	chunks := p.Split("abcdefghij")

	require.Len(t, chunks, 3)
	assert.Equal(t, "abcd", chunks[0].Text)
	assert.Equal(t, "efgh", chunks[1].Text)
	assert.Equal(t, "ij", chunks[2].Text)

	def := processor.NewWithConfig(processor.ProcessorConfig{})
	assert.Equal(t, processor.DefaultChunkSize, def.ChunkSize())
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, processor.CountWords("   "))
	assert.Equal(t, 4, processor.CountWords(" one two\tthree\nfour "))
}
