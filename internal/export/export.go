package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/shared/metrics"
)

var (
	// ErrUnsupportedFormat is returned for formats outside md, pdf, docx, latex.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrPDFDependencyMissing indicates headless Chrome is not installed.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	// ErrDOCXDependencyMissing indicates pandoc is not installed.
	ErrDOCXDependencyMissing = errors.New("export docx dependency missing")
)

// Result is a rendered export artifact.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// Service renders stored documents into downloadable formats.
type Service struct {
	Docs *documents.Service
}

// NewService constructs a Service.
func NewService(docs *documents.Service) *Service {
	return &Service{Docs: docs}
}

// Export renders the document in the requested format.
func (s *Service) Export(ctx context.Context, documentID, format string) (Result, error) {
	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		return Result{}, err
	}

	title := doc.Title
	if title == "" {
		title = "document"
	}

	var result Result
	switch strings.ToLower(format) {
	case "md":
		result = Result{
			Data:     []byte(doc.Content),
			Filename: SafeFilename(title, "md"),
			MimeType: "text/markdown",
		}
	case "latex":
		result = Result{
			Data:     []byte(markdownToLaTeX(doc.Content, title)),
			Filename: SafeFilename(title, "tex"),
			MimeType: "application/x-latex",
		}
	case "pdf":
		data, err := renderPDF(ctx, renderHTMLPage(title, doc.Content))
		if err != nil {
			return Result{}, err
		}
		result = Result{
			Data:     data,
			Filename: SafeFilename(title, "pdf"),
			MimeType: "application/pdf",
		}
	case "docx":
		data, err := renderDOCX(renderHTMLPage(title, doc.Content))
		if err != nil {
			return Result{}, err
		}
		result = Result{
			Data:     data,
			Filename: SafeFilename(title, "docx"),
			MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	metrics.ExportsServed.WithLabelValues(strings.ToLower(format)).Inc()
	return result, nil
}

// SafeFilename builds a filesystem-safe download name with the extension.
func SafeFilename(title, ext string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "document"
	}
	return name + "." + ext
}
