package ingestion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smtech/assistant/ingestion"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, ingestion.FormatPDF, ingestion.DetectFormat("docs/portfolio.PDF"))
	assert.Equal(t, ingestion.FormatText, ingestion.DetectFormat("notes.txt"))
	assert.Equal(t, ingestion.FormatUnknown, ingestion.DetectFormat("image.png"))
	assert.Equal(t, ingestion.FormatUnknown, ingestion.DetectFormat("README"))
}

func TestParseTextUsesFirstLineAsTitle(t *testing.T) {
	data := []byte("\n\nCompany Services\r\nWe build web and mobile applications.\n")

	doc, err := ingestion.Parse("services.txt", data)
	require.NoError(t, err)

	assert.Equal(t, "Company Services", doc.Title)
	assert.Contains(t, doc.Text, "We build web and mobile applications.")
	assert.NotContains(t, doc.Text, "\r")
}

func TestParseTextFallsBackToFilenameTitle(t *testing.T) {
	doc, err := ingestion.Parse("pricing.txt", []byte("   \n  \n"))
	require.NoError(t, err)
	assert.Equal(t, "pricing", doc.Title)
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	_, err := ingestion.Parse("logo.png", []byte{0x89, 0x50})
	assert.Error(t, err)
}
