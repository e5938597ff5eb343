// Package report renders analysis results into PDF reports and stores them
// on disk under a unique, never-reused filename.
//
// We use go-pdf/fpdf with the built-in Helvetica font. Core fonts only cover
// a Latin-1 style code page, so every string passes through textnorm first.
package report

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/textnorm"
)

// Layout constants. The layout is fixed; nothing here is configurable.
const (
	Title          = "AI-Generated Business Report"
	InputHeading   = "Input Provided:"
	SummaryHeading = "AI Summary and Proposal:"

	pageMargin = 15.0 // mm, bottom margin that triggers a page break
	lineHeight = 10.0
	sectionGap = 5.0
)

// documentDate is stamped into every report so identical inputs give
// byte-identical files.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Artifact describes a report written to the store.
type Artifact struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// NewToken returns a fresh random identifier for a report.
func NewToken() string {
	return uuid.NewString()
}

// Filename is the on-disk name of the report with the given identifier.
func Filename(id string) string {
	return "report_" + id + ".pdf"
}

// DownloadURL is the retrieval path served by GET /reports/:filename.
func DownloadURL(filename string) string {
	return "/reports/" + filename
}

// Renderer writes reports into a Store.
type Renderer struct {
	store *Store
}

// NewRenderer creates a renderer that writes into store.
func NewRenderer(store *Store) *Renderer {
	return &Renderer{store: store}
}

// Render builds the report for (originalInput, summary) and writes it as
// report_<id>.pdf. Rendering the same inputs twice produces the same bytes;
// writing to an identifier that already exists fails instead of overwriting.
func (r *Renderer) Render(originalInput, summary, id string) (*Artifact, error) {
	content, err := RenderPDF(originalInput, summary)
	if err != nil {
		return nil, err
	}

	filename := Filename(id)
	path, err := r.store.Create(filename, content)
	if err != nil {
		return nil, err
	}

	log.Printf("📄 Report written: %s (%d bytes)", filename, len(content))

	return &Artifact{
		ID:       id,
		Filename: filename,
		Path:     path,
		Size:     int64(len(content)),
	}, nil
}

// RenderPDF lays out the report and returns the PDF bytes.
//
// Layout:
//  1. Bold title
//  2. "Input Provided:" followed by the normalized input lines
//  3. "AI Summary and Proposal:" followed by the normalized summary lines
//
// Blank and whitespace-only lines are dropped; long lines wrap and the page
// breaks automatically at the bottom margin.
func RenderPDF(originalInput, summary string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(Title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, lineHeight, Title, "", 1, "", false, 0, "")
	pdf.Ln(sectionGap)

	writeSection(pdf, InputHeading, originalInput)
	pdf.Ln(sectionGap)
	writeSection(pdf, SummaryHeading, summary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSection draws a bold subheading and the body lines under it.
func writeSection(pdf *fpdf.Fpdf, heading, body string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight, heading, "", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range bodyLines(body) {
		pdf.MultiCell(0, lineHeight, line, "", "L", false)
	}
}

// bodyLines normalizes text and splits it into the lines that get drawn.
func bodyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(textnorm.Normalize(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
