package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ParsedDocument is the extracted text of one source file.
type ParsedDocument struct {
	Title string
	Text  string
}

// Parse extracts plain text from a document payload according to its
// detected format.
func Parse(path string, data []byte) (*ParsedDocument, error) {
	switch DetectFormat(path) {
	case FormatPDF:
		return parsePDF(path, data)
	case FormatText:
		return parseText(path, data)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", filepath.Ext(path))
	}
}

func parsePDF(path string, data []byte) (*ParsedDocument, error) {
	reader := bytes.NewReader(data)
	doc, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := doc.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, plain); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	content := normalizePlainText(buf.String())
	return &ParsedDocument{
		Title: documentTitle(content, path),
		Text:  content,
	}, nil
}

func parseText(path string, data []byte) (*ParsedDocument, error) {
	content := normalizePlainText(string(data))
	return &ParsedDocument{
		Title: documentTitle(content, path),
		Text:  content,
	}, nil
}

func documentTitle(content, path string) string {
	if title := firstNonEmptyLine(content); title != "" {
		return title
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func normalizePlainText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

func firstNonEmptyLine(content string) string {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
