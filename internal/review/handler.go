package review

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/shared/server/respond"
)

// Handler exposes the review endpoints.
type Handler struct {
	Svc  *Service
	Docs *documents.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, docs *documents.Service) *Handler {
	return &Handler{Svc: svc, Docs: docs}
}

// RegisterRoutes attaches review routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/review", h.review)
	rg.POST("/review/:id", h.reviewByID)
}

type reviewRequest struct {
	DocumentID    string   `json:"document_id"`
	DocID         string   `json:"doc_id"`
	Content       string   `json:"content"`
	Feedback      []string `json:"feedback"`
	FeedbackScore int      `json:"feedback_score"`
}

// review improves submitted content, optionally loading it from a stored
// document. Response keys come in both snake_case and camelCase because
// older frontend builds read either.
func (h *Handler) review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	docID := req.DocumentID
	if docID == "" {
		docID = req.DocID
	}

	var doc documents.Document
	if docID != "" {
		c.Set("documentId", docID)
		loaded, err := h.Docs.Get(c.Request.Context(), docID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		doc = loaded
	}

	content := req.Content
	if content == "" {
		content = doc.Content
	}
	if content == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no content provided for review", nil)
		return
	}

	result, err := h.Svc.Review(c.Request.Context(), Input{
		Content:      content,
		DocType:      doc.DocType,
		StyleProfile: doc.StyleMetadata,
		Feedback:     req.Feedback,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "review_failed", err.Error(), nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"status":           "success",
		"doc_id":           docID,
		"document_id":      docID,
		"updated_content":  result.ImprovedContent,
		"improved_content": result.ImprovedContent,
		"improvedContent":  result.ImprovedContent,
		"changes_made":     result.ChangesMade,
		"changesMade":      result.ChangesMade,
		"diff_details":     result.Diff,
		"diffDetails":      result.Diff,
		"suggestions":      []string{},
	})
}

// reviewByID reviews a stored document and persists the improved content.
func (h *Handler) reviewByID(c *gin.Context) {
	docID := c.Param("id")
	c.Set("documentId", docID)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Docs.Get(c.Request.Context(), docID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	content := req.Content
	if content == "" {
		content = doc.Content
	}
	if content == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no content provided for review", nil)
		return
	}

	result, err := h.Svc.Review(c.Request.Context(), Input{
		Content:      content,
		DocType:      doc.DocType,
		StyleProfile: doc.StyleMetadata,
		Feedback:     req.Feedback,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "review_failed", err.Error(), nil)
		return
	}

	if _, err := h.Docs.Update(c.Request.Context(), docID, documents.UpdateParams{
		Content: &result.ImprovedContent,
	}); err != nil {
		h.renderError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"status":           "success",
		"document_id":      docID,
		"improved_content": result.ImprovedContent,
		"improvedContent":  result.ImprovedContent,
		"changes_made":     result.ChangesMade,
		"changesMade":      result.ChangesMade,
		"diff_details":     result.Diff,
		"diffDetails":      result.Diff,
		"suggestions":      []string{},
	})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, documents.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document id", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "review failed", nil)
	}
}
