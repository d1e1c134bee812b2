package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/ingest"
	"docgen-backend/internal/llm"
	"docgen-backend/internal/retrieval"
	"docgen-backend/internal/review"
	"docgen-backend/internal/shared/metrics"
	"docgen-backend/internal/shared/telemetry"
	"docgen-backend/internal/style"
)

const (
	defaultMaxIterations    = 3
	defaultQualityThreshold = 0.7
	initialQualityScore     = 0.7
	minWordCount            = 500
	contextExampleLimit     = 3
	contextExampleChars     = 500
)

// Request holds the generation inputs.
type Request struct {
	DocType       string
	Summary       string
	Requirements  string
	Style         string
	FeedbackScore int
}

// Outcome is the result of a completed workflow run.
type Outcome struct {
	WorkflowID   string
	Document     documents.Document
	QualityScore float64
	Iterations   int
	Messages     []string
}

// Compliance is the result of the section and length check on a draft.
type Compliance struct {
	Compliant       bool
	MissingSections []string
	Issues          []string
}

// Workflow runs the multi-stage generation pipeline: style profile,
// context retrieval, draft, compliance check, review, finalize. Drafts are
// regenerated while quality stays below the threshold, up to MaxIterations.
type Workflow struct {
	LLM              llm.Client
	Style            *style.Builder
	Search           retrieval.Searcher
	Reviews          *review.Service
	Ingest           *ingest.Service
	MaxIterations    int
	QualityThreshold float64
	MinFeedbackScore int
}

// NewWorkflow constructs a Workflow with default iteration settings.
func NewWorkflow(client llm.Client, styles *style.Builder, search retrieval.Searcher, reviews *review.Service, ingestSvc *ingest.Service, minFeedbackScore int) *Workflow {
	return &Workflow{
		LLM:              client,
		Style:            styles,
		Search:           search,
		Reviews:          reviews,
		Ingest:           ingestSvc,
		MaxIterations:    defaultMaxIterations,
		QualityThreshold: defaultQualityThreshold,
		MinFeedbackScore: minFeedbackScore,
	}
}

// Run executes the workflow and persists the final document.
func (w *Workflow) Run(ctx context.Context, req Request) (Outcome, error) {
	metrics.GenerationStarted.Inc()
	started := time.Now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	}()

	outcome := Outcome{
		WorkflowID:   uuid.NewString(),
		QualityScore: initialQualityScore,
	}
	outcome.Messages = append(outcome.Messages, fmt.Sprintf("Workflow initialized for %s", req.DocType))

	telemetry.Info("generate: workflow started", map[string]any{
		"workflow_id": outcome.WorkflowID,
		"doc_type":    req.DocType,
	})

	profile, err := w.Style.Build(ctx, req.DocType, w.MinFeedbackScore)
	if err != nil {
		telemetry.Warn("generate: style profile failed, using default", map[string]any{
			"workflow_id": outcome.WorkflowID,
			"error":       err.Error(),
		})
		profile = style.DefaultProfile()
	}
	outcome.Messages = append(outcome.Messages, "Style profile built successfully")

	contextText, chunkCount := w.retrieveContext(ctx, req)
	outcome.Messages = append(outcome.Messages, fmt.Sprintf("Retrieved %d context chunks", chunkCount))

	var finalContent string
	for {
		outcome.Iterations++

		draft, err := w.LLM.Complete(ctx, llm.GenerationPrompt(llm.GenerationPromptInput{
			DocType:      req.DocType,
			Summary:      req.Summary,
			Requirements: req.Requirements,
			Style:        req.Style,
			StyleProfile: profile.Describe(),
			Context:      contextText,
		}))
		if err != nil {
			metrics.GenerationFailed.Inc()
			return Outcome{}, fmt.Errorf("generate draft: %w", err)
		}
		outcome.Messages = append(outcome.Messages, fmt.Sprintf("Document generated (iteration %d)", outcome.Iterations))

		compliance := CheckCompliance(req.DocType, draft)
		if compliance.Compliant {
			outcome.Messages = append(outcome.Messages, "Compliance check: Compliant")
		} else {
			outcome.Messages = append(outcome.Messages, "Compliance check: Issues found")
		}

		reviewed, err := w.Reviews.Review(ctx, review.Input{
			Content: draft,
			DocType: req.DocType,
		})
		if err != nil {
			metrics.GenerationFailed.Inc()
			return Outcome{}, fmt.Errorf("review draft: %w", err)
		}
		finalContent = reviewed.ImprovedContent
		outcome.QualityScore = min(1.0, outcome.QualityScore+float64(len(reviewed.ChangesMade))*0.05)
		outcome.Messages = append(outcome.Messages, fmt.Sprintf("Document reviewed with %d improvements", len(reviewed.ChangesMade)))

		if outcome.Iterations >= w.MaxIterations || outcome.QualityScore >= w.QualityThreshold {
			break
		}
	}

	score := req.FeedbackScore
	if score == 0 {
		score = int(outcome.QualityScore * 5)
	}

	doc, err := w.Ingest.Ingest(ctx, ingest.Input{
		Filename:      fmt.Sprintf("%s_%s.md", req.DocType, strings.ReplaceAll(uuid.NewString(), "-", "")),
		Title:         fmt.Sprintf("%s: %s", req.DocType, req.Summary),
		Content:       finalContent,
		DocType:       req.DocType,
		Status:        documents.StatusFinal,
		Approved:      true,
		FeedbackScore: score,
	})
	if err != nil {
		metrics.GenerationFailed.Inc()
		return Outcome{}, fmt.Errorf("finalize document: %w", err)
	}
	outcome.Document = doc
	outcome.Messages = append(outcome.Messages, fmt.Sprintf("Document finalized with %d words and stored with ID %s", len(strings.Fields(doc.Content)), doc.ID))

	metrics.GenerationCompleted.Inc()
	telemetry.Info("generate: workflow completed", map[string]any{
		"workflow_id":   outcome.WorkflowID,
		"document_id":   doc.ID,
		"iterations":    outcome.Iterations,
		"quality_score": outcome.QualityScore,
	})
	return outcome, nil
}

// retrieveContext searches the chunk index and formats the top examples for
// the generation prompt. Retrieval failures degrade to an empty context.
func (w *Workflow) retrieveContext(ctx context.Context, req Request) (string, int) {
	query := strings.TrimSpace(req.Summary + " " + req.Requirements)
	hits, err := w.Search.Search(ctx, retrieval.Query{
		Text:             query,
		DocType:          req.DocType,
		MinFeedbackScore: w.MinFeedbackScore,
		TopK:             5,
	})
	if err != nil {
		telemetry.Warn("generate: retrieval failed", map[string]any{"error": err.Error()})
		return "", 0
	}

	var b strings.Builder
	for i, hit := range hits {
		if i >= contextExampleLimit {
			break
		}
		text := hit.Content
		if len(text) > contextExampleChars {
			text = text[:contextExampleChars]
		}
		fmt.Fprintf(&b, "Example %d:\n%s\n\n", i+1, text)
	}
	return strings.TrimSpace(b.String()), len(hits)
}

var sectionRequirements = map[string][]string{
	"SRS":       {"Introduction", "Requirements", "Specifications"},
	"SOW":       {"Scope", "Deliverables", "Timeline"},
	"Proposal":  {"Overview", "Approach", "Budget"},
	"Technical": {"Architecture", "Implementation", "API"},
	"Business":  {"Executive Summary", "Market Analysis", "Financial"},
}

var defaultSections = []string{"Introduction", "Content", "Conclusion"}

// RequiredSections returns the sections a document type must contain.
func RequiredSections(docType string) []string {
	if sections, ok := sectionRequirements[docType]; ok {
		return sections
	}
	return defaultSections
}

// CheckCompliance verifies section presence and a minimum length.
func CheckCompliance(docType, content string) Compliance {
	compliance := Compliance{Compliant: true}
	lower := strings.ToLower(content)
	for _, section := range RequiredSections(docType) {
		if !strings.Contains(lower, strings.ToLower(section)) {
			compliance.MissingSections = append(compliance.MissingSections, section)
			compliance.Compliant = false
		}
	}
	if len(strings.Fields(content)) < minWordCount {
		compliance.Compliant = false
		compliance.Issues = append(compliance.Issues, "Document too short - likely incomplete or truncated")
	}
	return compliance
}
