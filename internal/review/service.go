package review

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"docgen-backend/internal/llm"
	"docgen-backend/internal/shared/metrics"
	"docgen-backend/internal/shared/util"
)

// DiffDetails describes the line-level changes a review produced.
type DiffDetails struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Summary []string `json:"summary"`
}

// Result is the outcome of a review pass.
type Result struct {
	ImprovedContent   string
	ChangesMade       []string
	Diff              DiffDetails
	OriginalWordCount int
	FinalWordCount    int
}

// Input describes a single review request.
type Input struct {
	Content      string
	DocType      string
	StyleProfile map[string]any
	Feedback     []string
}

// Service runs formatting and feedback review passes over document content.
type Service struct {
	LLM llm.Client
	Now func() time.Time
}

// NewService constructs a Service.
func NewService(client llm.Client) *Service {
	return &Service{LLM: client, Now: time.Now}
}

// Review improves the content with a formatting pass, an optional feedback
// pass, and deterministic post-processing. The returned diff covers the full
// distance from the submitted content to the final text.
func (s *Service) Review(ctx context.Context, in Input) (Result, error) {
	metrics.ReviewsStarted.Inc()
	started := s.Now()
	defer func() {
		metrics.ReviewDuration.Observe(time.Since(started).Seconds())
	}()

	original := util.NormalizeContent(in.Content)
	docType := in.DocType
	if docType == "" {
		docType = "SRS"
	}

	improved := original
	var changes []string

	styleText := styleProfileText(in.StyleProfile)
	out, err := s.LLM.Complete(ctx, llm.FormattingPrompt(docType, improved, styleText))
	if err != nil {
		metrics.ReviewsFailed.Inc()
		return Result{}, fmt.Errorf("formatting pass: %w", err)
	}
	improved = out
	changes = append(changes, "Applied formatting improvements")

	if len(in.Feedback) > 0 {
		out, err := s.LLM.Complete(ctx, llm.FeedbackPrompt(docType, improved, in.Feedback))
		if err != nil {
			metrics.ReviewsFailed.Inc()
			return Result{}, fmt.Errorf("feedback pass: %w", err)
		}
		improved = out
		changes = append(changes, fmt.Sprintf("Addressed %d feedback items", len(in.Feedback)))
	}

	final := postProcess(improved)
	return Result{
		ImprovedContent:   final,
		ChangesMade:       changes,
		Diff:              diffLines(original, final),
		OriginalWordCount: len(strings.Fields(original)),
		FinalWordCount:    len(strings.Fields(final)),
	}, nil
}

var sentenceSpacing = regexp.MustCompile(`([.!?])\s*([A-Z])`)

// postProcess enforces blank lines around headers, collapses runs of more
// than two blank lines, and fixes sentence spacing.
func postProcess(content string) string {
	lines := strings.Split(content, "\n")
	spaced := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			if len(spaced) > 0 && strings.TrimSpace(spaced[len(spaced)-1]) != "" {
				spaced = append(spaced, "")
			}
			spaced = append(spaced, line)
			if i < len(lines)-1 && strings.TrimSpace(lines[i+1]) != "" {
				spaced = append(spaced, "")
			}
			continue
		}
		spaced = append(spaced, line)
	}

	final := make([]string, 0, len(spaced))
	blanks := 0
	for _, line := range spaced {
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks <= 2 {
				final = append(final, line)
			}
			continue
		}
		blanks = 0
		final = append(final, line)
	}

	out := strings.Join(final, "\n")
	out = sentenceSpacing.ReplaceAllString(out, "$1 $2")
	return strings.TrimSpace(out)
}

// diffLines compares the two texts line by line.
func diffLines(original, improved string) DiffDetails {
	dmp := diffmatchpatch.New()
	if original != "" && !strings.HasSuffix(original, "\n") {
		original += "\n"
	}
	if improved != "" && !strings.HasSuffix(improved, "\n") {
		improved += "\n"
	}
	a, b, lineIndex := dmp.DiffLinesToChars(original, improved)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineIndex)

	details := DiffDetails{Added: []string{}, Removed: []string{}, Summary: []string{}}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			details.Added = append(details.Added, splitDiffLines(d.Text)...)
		case diffmatchpatch.DiffDelete:
			details.Removed = append(details.Removed, splitDiffLines(d.Text)...)
		}
	}

	switch {
	case len(details.Removed) > 0 && len(details.Added) > 0:
		details.Summary = append(details.Summary, "Content was revised with both removals and additions.")
	case len(details.Removed) > 0:
		details.Summary = append(details.Summary, "Content was streamlined with some text removed.")
	case len(details.Added) > 0:
		details.Summary = append(details.Summary, "Content was enhanced with additional information.")
	}
	return details
}

func splitDiffLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// styleProfileText condenses stored style metadata into a one-line prompt hint.
func styleProfileText(profile map[string]any) string {
	if len(profile) == 0 {
		return ""
	}
	var parts []string
	if tone := dominantKey(profile, "tone_analysis"); tone != "" {
		parts = append(parts, "Primary tone: "+tone)
	}
	if heading := dominantKey(profile, "heading_patterns"); heading != "" {
		parts = append(parts, "Heading style: "+heading)
	}
	if list := dominantKey(profile, "list_indicators"); list != "" {
		parts = append(parts, "List style: "+list)
	}
	return strings.Join(parts, "; ")
}

func dominantKey(profile map[string]any, section string) string {
	raw, ok := profile[section].(map[string]any)
	if !ok || len(raw) == 0 {
		return ""
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestVal := -1.0
	for _, k := range keys {
		if v := toFloat(raw[k]); v > bestVal {
			best, bestVal = k, v
		}
	}
	return best
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
