// Package extract turns candidate files into plain text: direct reads for
// text files, dslipak/pdf for PDFs, and a tesseract subprocess for images.
// The pipeline never inspects why extraction produced nothing; an empty
// string simply means the file is skipped this run.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
)

// Extractor routes a file to the right text source by extension.
type Extractor struct {
	// OCREnabled gates the tesseract path; when false, image files yield
	// empty content instead of spawning a subprocess.
	OCREnabled bool
	// Lang is the tesseract language pack (default "spa").
	Lang string
}

// New returns an Extractor with the given OCR settings.
func New(ocrEnabled bool, lang string) *Extractor {
	if lang == "" {
		lang = "spa"
	}
	return &Extractor{OCREnabled: ocrEnabled, Lang: lang}
}

// imageExtensions lists the formats handed to tesseract (lowercase, with dot).
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".webp": true,
}

// Content extracts the text of the file at path. The returned string may be
// empty without error (image with OCR disabled, PDF with no text layer).
func (e *Extractor) Content(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".txt" || ext == ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ext == ".pdf":
		return pdfText(path)
	case imageExtensions[ext]:
		if !e.OCREnabled {
			return "", nil
		}
		return e.ocrText(ctx, path)
	default:
		return "", fmt.Errorf("no extractor for %s files", ext)
	}
}

// pdfText pulls the plain-text layer out of a PDF. Scanned PDFs without a
// text layer come back empty, which the caller treats as a skip.
func pdfText(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
