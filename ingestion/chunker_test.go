package ingestion_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smtech/assistant/ingestion"
)

func TestSplitTextShortDocumentYieldsOneChunk(t *testing.T) {
	text := "A short company overview."
	pieces := ingestion.SplitText(text, 1000, 150)

	require.Len(t, pieces, 1)
	assert.Equal(t, text, pieces[0].Text)
	assert.Equal(t, 0, pieces[0].Start)
	assert.Equal(t, len(text), pieces[0].End)
}

func TestSplitTextEmptyInputYieldsNoChunks(t *testing.T) {
	assert.Nil(t, ingestion.SplitText("", 1000, 150))
	assert.Nil(t, ingestion.SplitText("   \n\t  ", 1000, 150))
}

func TestSplitTextRespectsSizeAndOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 50) // 500 bytes
	size, overlap := 100, 20

	pieces := ingestion.SplitText(text, size, overlap)
	require.Greater(t, len(pieces), 1)

	for i, piece := range pieces {
		assert.LessOrEqual(t, len(piece.Text), size, "chunk %d exceeds size", i)
		assert.Equal(t, text[piece.Start:piece.End], piece.Text)
	}

	for i := 0; i < len(pieces)-1; i++ {
		next := pieces[i+1]
		step := next.Start - pieces[i].Start
		assert.LessOrEqual(t, step, size-overlap, "chunk %d starts too far after chunk %d", i+1, i)
		assert.GreaterOrEqual(t, pieces[i].End-next.Start, overlap, "chunks %d and %d overlap less than %d", i, i+1, overlap)
	}
}

func TestSplitTextHeadsReconstructDocument(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	pieces := ingestion.SplitText(text, 120, 30)
	require.Greater(t, len(pieces), 1)

	var sb strings.Builder
	for i := 0; i < len(pieces)-1; i++ {
		head := pieces[i].Text[:pieces[i+1].Start-pieces[i].Start]
		sb.WriteString(head)
	}
	sb.WriteString(pieces[len(pieces)-1].Text)

	assert.Equal(t, text, sb.String())
}

func TestSplitTextDoesNotBreakRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 30)
	pieces := ingestion.SplitText(text, 50, 10)
	require.Greater(t, len(pieces), 1)

	for i, piece := range pieces {
		assert.True(t, strings.ToValidUTF8(piece.Text, "") == piece.Text, "chunk %d contains a split rune", i)
	}
}
