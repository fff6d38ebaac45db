// Package ingestion handles document parsing, chunking, and vector index
// construction.
package ingestion

import (
	"path/filepath"
	"strings"
)

// DocumentFormat enumerates supported document payload formats.
type DocumentFormat string

const (
	// FormatUnknown represents an unsupported or undetected format.
	FormatUnknown DocumentFormat = ""
	// FormatPDF represents PDF documents.
	FormatPDF DocumentFormat = "pdf"
	// FormatText represents plain text documents.
	FormatText DocumentFormat = "text"
)

// DetectFormat infers a document format from the provided path's extension.
func DetectFormat(path string) DocumentFormat {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF
	case ".txt", ".text":
		return FormatText
	default:
		return FormatUnknown
	}
}
