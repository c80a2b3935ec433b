// Package extract pulls raw text out of uploaded résumé documents.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/spigell/recruiter/internal/apperr"
)

// File reads a PDF from disk and extracts its text.
func File(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.New(apperr.KindExtractionFailed, "extract", fmt.Sprintf("read %q", path), err)
	}
	return PDF(ctx, data)
}

// PDF extracts plain text page by page and concatenates it without any layout
// reconstruction. A document that yields no text is an extraction failure.
func PDF(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperr.New(apperr.KindExtractionFailed, "extract", "empty document", nil)
	}

	text, err := readPages(data)
	if err != nil {
		return "", apperr.New(apperr.KindExtractionFailed, "extract", "read pdf", err)
	}

	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.KindExtractionFailed, "extract", "document contains no text", nil)
	}

	return text, nil
}

func readPages(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := reader.NumPage()
	if pages == 0 {
		return "", errors.New("pdf has no pages")
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(content)
	}

	return b.String(), nil
}
