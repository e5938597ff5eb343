// Package session coordinates a single analysis from raw input to a stored
// report, for both the one-shot upload endpoint and streaming sessions.
//
// Go Pattern: The orchestrator depends on small interfaces (Analyzer,
// Renderer, Listener) defined here, where they are used. Production code
// passes *analysis.Requester and *report.Renderer; tests pass fakes.
package session

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/extract"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/report"
)

// Analyzer delegates the analysis to the completion service.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*models.AnalysisResult, error)
}

// Renderer turns an analysis into a stored report.
type Renderer interface {
	Render(originalInput, summary, id string) (*report.Artifact, error)
}

// Listener is told about every report the orchestrator creates.
// Implementations must not block; slow work belongs in a goroutine.
type Listener interface {
	ReportCreated(ctx context.Context, artifact *report.Artifact, resp *models.AnalysisResponse)
}

// Orchestrator runs extraction, analysis and rendering in sequence.
// It holds no per-request state and is shared by all sessions.
type Orchestrator struct {
	analyzer  Analyzer
	renderer  Renderer
	listeners []Listener

	newID   func() string
	extract func(extract.Format, []byte) (string, error)
}

// New creates an orchestrator.
func New(analyzer Analyzer, renderer Renderer) *Orchestrator {
	return &Orchestrator{
		analyzer: analyzer,
		renderer: renderer,
		newID:    report.NewToken,
		extract:  extract.FromBytes,
	}
}

// AddListener registers l to be notified of new reports.
// Call it during startup, before the orchestrator serves requests.
func (o *Orchestrator) AddListener(l Listener) {
	o.listeners = append(o.listeners, l)
}

// Process analyzes text, renders the report under a fresh identifier and
// returns the summary with the report's download URL.
func (o *Orchestrator) Process(ctx context.Context, text string) (*models.AnalysisResponse, error) {
	req := models.AnalysisRequest{RawText: text}

	result, err := o.analyzer.Analyze(ctx, req.RawText)
	if err != nil {
		return nil, err
	}

	artifact, err := o.renderer.Render(result.OriginalInput, result.Summary, o.newID())
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	resp := &models.AnalysisResponse{
		Summary:     result.Summary,
		DownloadURL: report.DownloadURL(artifact.Filename),
	}

	for _, l := range o.listeners {
		l.ReportCreated(ctx, artifact, resp)
	}

	return resp, nil
}

// ProcessUpload validates the filename, reads and extracts the upload and
// then runs Process on the extracted text. An unsupported extension is
// rejected before the body is read.
func (o *Orchestrator) ProcessUpload(ctx context.Context, filename string, r io.Reader) (*models.AnalysisResponse, error) {
	format, err := extract.ParseFormat(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	text, err := o.extract(format, data)
	if err != nil {
		log.Printf("⚠️  Extraction failed for %s: %v", filename, err)
		return nil, err
	}

	log.Printf("📥 Extracted %d chars from %s (%s)", len(text), filename, format)
	return o.Process(ctx, text)
}
