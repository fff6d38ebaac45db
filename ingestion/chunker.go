package ingestion

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 150
)

// Piece is one chunk of a document's text with its byte offsets in the
// original.
type Piece struct {
	Text  string
	Start int
	End   int
}

// SplitText splits text into overlapping fixed-size chunks. Consecutive
// chunks share at least overlap bytes, the final chunk may be shorter than
// size, and a text shorter than size yields exactly one chunk. Empty or
// whitespace-only text yields no chunks. Window boundaries are backed up to
// rune starts so multi-byte characters are never split.
func SplitText(text string, size, overlap int) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}

	step := size - overlap

	var pieces []Piece
	for start := 0; start < len(text); {
		end := start + size
		if end >= len(text) {
			pieces = append(pieces, Piece{Text: text[start:], Start: start, End: len(text)})
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		pieces = append(pieces, Piece{Text: text[start:end], Start: start, End: end})

		next := start + step
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next == start {
			// Pathological overlap on multi-byte text; advance one rune.
			_, width := utf8.DecodeRuneInString(text[start:])
			next = start + width
		}
		start = next
	}

	return pieces
}
