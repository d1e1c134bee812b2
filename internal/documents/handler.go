package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group. The /docs
// paths are read-only aliases kept for older frontend builds.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.delete)
	rg.POST("/documents/:id/feedback", h.feedback)

	rg.GET("/docs", h.list)
	rg.GET("/docs/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.JSON(c, http.StatusOK, summaries)
}

func (h *Handler) get(c *gin.Context) {
	c.Set("documentId", c.Param("id"))

	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err, "failed to fetch document")
		return
	}
	respond.JSON(c, http.StatusOK, ToResponse(doc))
}

type updateRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Status        *string `json:"status"`
	FeedbackScore *int    `json:"feedback_score"`
}

func (h *Handler) update(c *gin.Context) {
	c.Set("documentId", c.Param("id"))

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.Update(c.Request.Context(), c.Param("id"), UpdateParams{
		Title:         req.Title,
		Content:       req.Content,
		Status:        req.Status,
		FeedbackScore: req.FeedbackScore,
	})
	if err != nil {
		h.renderError(c, err, "failed to update document")
		return
	}
	respond.JSON(c, http.StatusOK, ToResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	c.Set("documentId", c.Param("id"))

	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err, "failed to delete document")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"status": "success", "message": "Document deleted"})
}

type feedbackRequest struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
}

func (h *Handler) feedback(c *gin.Context) {
	c.Set("documentId", c.Param("id"))

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Score == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "score is required", nil)
		return
	}

	doc, err := h.Svc.Feedback(c.Request.Context(), c.Param("id"), req.Score)
	if err != nil {
		h.renderError(c, err, "failed to record feedback")
		return
	}
	respond.JSON(c, http.StatusOK, ToResponse(doc))
}

func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
