package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/ingest"
	"docgen-backend/internal/shared/server/respond"
	"docgen-backend/internal/shared/storage/object"
	"docgen-backend/internal/shared/telemetry"
)

const uploadsNamespace = "uploads"

// Handler accepts document uploads and runs them through ingestion. The raw
// file is kept in object storage so the original bytes survive re-chunking.
type Handler struct {
	Ingest            *ingest.Service
	Store             object.ObjectStore
	MaxUploadBytes    int64
	AllowedExtensions []string
}

// NewHandler constructs a Handler.
func NewHandler(ingestSvc *ingest.Service, store object.ObjectStore, maxUploadBytes int64, allowedExtensions []string) *Handler {
	return &Handler{
		Ingest:            ingestSvc,
		Store:             store,
		MaxUploadBytes:    maxUploadBytes,
		AllowedExtensions: allowedExtensions,
	}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !h.extensionAllowed(ext) {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("file type %s not supported, allowed: %s", ext, strings.Join(h.AllowedExtensions, ", ")), nil)
		return
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("file size exceeds limit of %d bytes", h.MaxUploadBytes), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer file.Close()

	var reader io.Reader = file
	if h.MaxUploadBytes > 0 {
		reader = io.LimitReader(file, h.MaxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	if h.MaxUploadBytes > 0 && int64(len(data)) > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("file size exceeds limit of %d bytes", h.MaxUploadBytes), nil)
		return
	}

	if h.Store != nil {
		if _, _, _, err := h.Store.Save(c.Request.Context(), uploadsNamespace, fileHeader.Filename, bytes.NewReader(data)); err != nil {
			telemetry.Warn("uploads: raw file save failed", map[string]any{
				"filename": fileHeader.Filename,
				"error":    err.Error(),
			})
		}
	}

	doc, err := h.Ingest.Ingest(c.Request.Context(), ingest.Input{
		Filename:      fileHeader.Filename,
		Data:          data,
		Approved:      true,
		FeedbackScore: 3,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusOK, gin.H{
		"status":      "success",
		"document_id": doc.ID,
		"message":     "Document uploaded and processed successfully",
	})
}

func (h *Handler) extensionAllowed(ext string) bool {
	for _, allowed := range h.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedType), errors.Is(err, ingest.ErrEmptyDocument):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "ingestion_failed", "failed to process document", nil)
	}
}
