package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentExtractor turns an uploaded PDF into plain text. Its output is
// treated as opaque input text downstream.
type DocumentExtractor interface {
	ExtractText(filePath string) (string, error)
}

type pdfExtractor struct{}

func NewPDFExtractor() DocumentExtractor {
	return &pdfExtractor{}
}

func (p *pdfExtractor) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", &ExtractionError{Source: filePath, Err: errors.New("file does not exist")}
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", &ExtractionError{Source: filePath, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer f.Close()

	return extractPages(r, filePath)
}

func extractPages(r *pdf.Reader, source string) (string, error) {
	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return "", &ExtractionError{Source: source, Err: errors.New("no text content found in PDF")}
	}

	return text, nil
}

// CleanText trims each line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
