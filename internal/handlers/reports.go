// reports.go serves rendered reports.
//
// GET /reports/:filename — Download a previously generated report
package handlers

import (
	"github.com/gin-gonic/gin"
)

// GetReport streams a stored report as a PDF attachment.
// GET /reports/:filename
//
// Only plain file names inside the report directory resolve; anything else,
// including path traversal attempts, is a 404.
func (h *Handler) GetReport(c *gin.Context) {
	filename := c.Param("filename")

	path, err := h.Store.Resolve(filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, filename)
}
