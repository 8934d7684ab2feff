// Package jobdesc loads job description text from local files so job-fit
// requests can reference a real posting.
package jobdesc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxChars = 20000

// ExtractText reads a job description from path. PDF files are converted to
// plain text; everything else is read as-is. Output is size-bounded so a
// pasted posting can never blow up a prompt.
func ExtractText(path string) (string, error) {
	var text string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = extractPDF(path)
	} else {
		text, err = extractPlain(path)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text found in %s", path)
	}
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}

func extractPlain(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, reader); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return sb.String(), nil
}
