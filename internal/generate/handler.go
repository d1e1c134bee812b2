package generate

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/shared/server/respond"
	"docgen-backend/internal/shared/telemetry"
)

const streamChunkSize = 512

// Handler exposes the generation endpoints.
type Handler struct {
	Workflow *Workflow
}

// NewHandler constructs a Handler.
func NewHandler(workflow *Workflow) *Handler {
	return &Handler{Workflow: workflow}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
	rg.POST("/generate/stream", h.generateStream)
}

type generateRequest struct {
	DocType       string `json:"doc_type" binding:"required"`
	Summary       string `json:"summary"`
	Requirements  string `json:"requirements"`
	Style         string `json:"style"`
	FeedbackScore int    `json:"feedback_score"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "doc_type is required", nil)
		return
	}

	outcome, err := h.Workflow.Run(c.Request.Context(), Request{
		DocType:       req.DocType,
		Summary:       req.Summary,
		Requirements:  req.Requirements,
		Style:         req.Style,
		FeedbackScore: req.FeedbackScore,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "generation_failed", err.Error(), nil)
		return
	}

	c.Set("workflowId", outcome.WorkflowID)
	c.Set("documentId", outcome.Document.ID)
	respond.JSON(c, http.StatusOK, documents.ToResponse(outcome.Document))
}

// generateStream runs the same workflow and streams the finished document as
// newline-delimited JSON events.
func (h *Handler) generateStream(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "doc_type is required", nil)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	outcome, err := h.Workflow.Run(c.Request.Context(), Request{
		DocType:       req.DocType,
		Summary:       req.Summary,
		Requirements:  req.Requirements,
		Style:         req.Style,
		FeedbackScore: req.FeedbackScore,
	})
	if err != nil {
		writeStreamEvent(c, gin.H{"type": "error", "message": err.Error()})
		return
	}

	c.Set("workflowId", outcome.WorkflowID)
	c.Set("documentId", outcome.Document.ID)

	var buf strings.Builder
	for _, line := range strings.SplitAfter(outcome.Document.Content, "\n") {
		buf.WriteString(line)
		if buf.Len() >= streamChunkSize {
			writeStreamEvent(c, gin.H{"type": "content", "content": buf.String()})
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		writeStreamEvent(c, gin.H{"type": "content", "content": buf.String()})
	}
	writeStreamEvent(c, gin.H{
		"type":        "complete",
		"id":          outcome.Document.ID,
		"document_id": outcome.Document.ID,
		"workflow_id": outcome.WorkflowID,
	})
}

func writeStreamEvent(c *gin.Context, event gin.H) {
	payload, err := json.Marshal(event)
	if err != nil {
		telemetry.Error("generate: stream encode failed", map[string]any{"error": err.Error()})
		return
	}
	if _, err := c.Writer.Write(append(payload, '\n')); err != nil {
		telemetry.Warn("generate: stream write failed", map[string]any{"error": err.Error()})
		return
	}
	c.Writer.Flush()
}
