// docs.go serves the API reference.
//
// The OpenAPI document is hand-written YAML embedded in the binary; the
// browsable page is Swagger UI loaded from a CDN and pointed at that file.
package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	docsTitle    = "Problem Analyzer API"
	openAPIPath  = "/docs/openapi.yaml"
	swaggerUIDir = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Go Pattern: html/template escapes every interpolated value for its
// context (attribute, JS string, text), so the page is safe to build from
// constants without hand-quoting.
var swaggerPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} · Reference</title>
  <link rel="stylesheet" href="{{.AssetDir}}/swagger-ui.css">
  <style>body { margin: 0; } .swagger-ui .topbar { display: none; }</style>
</head>
<body>
  <div id="reference"></div>
  <script src="{{.AssetDir}}/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: '#reference',
      deepLinking: true,
      tryItOutEnabled: false,
    });
  </script>
</body>
</html>`))

// docsHTML is rendered once; the page never changes at runtime.
var docsHTML = renderDocsPage()

func renderDocsPage() []byte {
	var buf bytes.Buffer
	err := swaggerPage.Execute(&buf, struct {
		Title, AssetDir, SpecURL string
	}{docsTitle, swaggerUIDir, openAPIPath})
	if err != nil {
		panic("handlers: rendering docs page: " + err.Error())
	}
	return buf.Bytes()
}

// ServeOpenAPISpec returns the raw OpenAPI document.
// GET /docs/openapi.yaml
func (h *Handler) ServeOpenAPISpec(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/yaml", openAPISpec)
}

// ServeSwaggerUI returns the interactive reference page.
// GET /docs
func (h *Handler) ServeSwaggerUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", docsHTML)
}
