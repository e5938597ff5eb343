package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// errMissingHeader rejects uploads that are not PDFs at all, before the
// parser gets a chance to produce a less helpful message.
var errMissingHeader = errors.New("missing %PDF- header")

// extractPDF reads every page's plain text and joins the pages with newlines.
// Pages without text (scans, images) are skipped rather than treated as errors.
//
// We use the ledongthuc/pdf library, a pure Go reader. It needs random
// access to the document, so the upload is held in memory as a bytes.Reader.
func extractPDF(data []byte) (text string, err error) {
	// The pdf library panics on some malformed cross-reference tables.
	// Go Pattern: recover turns that panic into an ordinary error return.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &DecodeError{Format: FormatPDF, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	if !ValidatePDF(data) {
		return "", &DecodeError{Format: FormatPDF, Err: errMissingHeader}
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Format: FormatPDF, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}

	var pages []string
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &DecodeError{Format: FormatPDF, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

// ValidatePDF checks if the data looks like a PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
