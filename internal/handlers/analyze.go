// analyze.go handles the one-shot upload endpoint.
//
// POST /analyze-file — Upload a .txt, .pdf or .docx file and receive the
// analysis summary plus a download link for the rendered report.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/problem-analyzer-api/internal/models"
)

// maxUploadSize is the max upload size for analysis files (20MB).
const maxUploadSize = 20 << 20 // 20MB

// AnalyzeFile extracts text from an uploaded document, analyzes it and
// renders a report.
// POST /analyze-file
//
// Accepts multipart file upload with field name "file". Processing is
// synchronous; the response carries the summary and the report URL.
func (h *Handler) AnalyzeFile(c *gin.Context) {
	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:  "file_too_large",
				Detail: "Uploaded file exceeds the 20MB limit.",
				Code:   http.StatusRequestEntityTooLarge,
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "invalid_request",
			Detail: "No file provided. Upload a file with the field name 'file'. Max size: 20MB.",
			Code:   http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	resp, err := h.Orchestrator.ProcessUpload(c.Request.Context(), header.Filename, file)
	if err != nil {
		log.Printf("⚠️  Analysis of %s failed: %v", header.Filename, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
