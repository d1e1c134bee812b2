package export

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/shared/server/respond"
)

// Handler exposes the export endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the export route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export/:id", h.export)
}

func (h *Handler) export(c *gin.Context) {
	c.Set("documentId", c.Param("id"))

	format := c.DefaultQuery("format", "md")
	result, err := h.Svc.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.MimeType, result.Data)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, documents.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document id", nil)
	case errors.Is(err, ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrPDFDependencyMissing), errors.Is(err, ErrDOCXDependencyMissing):
		respond.Error(c, http.StatusServiceUnavailable, "dependency_missing", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "export_failed", "failed to export document", nil)
	}
}
