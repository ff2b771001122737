package models

import "unicode/utf8"

const derivedTitleLength = 50

type Document struct {
	URL      string
	Title    string
	Content  string
	Metadata map[string]interface{}
}

// DisplayTitle returns the document title, deriving one from the content
// when the adapter did not provide it.
func (d Document) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if utf8.RuneCountInString(d.Content) <= derivedTitleLength {
		return d.Content + "..."
	}
	return string([]rune(d.Content)[:derivedTitleLength]) + "..."
}

// Chunk is a contiguous slice of a larger text. Concatenating the chunks of
// one text in Index order yields the original text.
type Chunk struct {
	Index int
	Text  string
}

type ChunkResult struct {
	Index   int
	Summary string
}
