package session

import (
	"errors"
	"net/http"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/analysis"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/extract"
	"github.com/Shimizu-Technology/problem-analyzer-api/internal/services/report"
)

// UnsupportedFormatDetail is the client-facing message for rejected uploads.
const UnsupportedFormatDetail = "Only .txt, .pdf, .docx files supported."

// Classify maps an error from Process, ProcessUpload or the report store to
// an HTTP status, a short error code and a client-facing detail message.
// The same mapping feeds streaming error events.
func Classify(err error) (status int, code, detail string) {
	var (
		decodeErr   *extract.DecodeError
		upstreamErr *analysis.UpstreamError
	)

	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format", UnsupportedFormatDetail
	case errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity, "decode_error", decodeErr.Error()
	case errors.Is(err, analysis.ErrNotConfigured):
		return http.StatusServiceUnavailable, "configuration_error", "Analysis is not configured. Set the OPENAI_API_KEY environment variable."
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, "upstream_error", "Analysis request failed: " + upstreamErr.Error()
	case errors.Is(err, report.ErrNotFound):
		return http.StatusNotFound, "not_found", "Report not found"
	default:
		return http.StatusInternalServerError, "internal_error", "Report generation failed"
	}
}
