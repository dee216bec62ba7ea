// Package docs serves the OpenAPI description of the HTTP API.
package docs

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed api/openapi.yaml
var openAPIYAML []byte

type Handler struct {
	document map[string]interface{}
}

// NewHandler parses the embedded document once so both encodings are served from memory.
func NewHandler() (*Handler, error) {
	var document map[string]interface{}
	if err := yaml.Unmarshal(openAPIYAML, &document); err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	return &Handler{document: document}, nil
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	docs := router.Group("/docs")
	{
		docs.GET("/openapi.yaml", h.OpenAPIYAML)
		docs.GET("/openapi.json", h.OpenAPIJSON)
	}
}

func (h *Handler) OpenAPIYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/x-yaml", openAPIYAML)
}

func (h *Handler) OpenAPIJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.document)
}

// Paths lists the documented paths.
func (h *Handler) Paths() []string {
	paths, _ := h.document["paths"].(map[string]interface{})
	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	return out
}
