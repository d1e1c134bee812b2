package style

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"docgen-backend/internal/documents"
)

// Profile summarizes how approved documents of a type are written. It feeds
// the generation prompt so new drafts match the existing corpus.
type Profile struct {
	Tone          string             `json:"tone"`
	ToneAnalysis  map[string]float64 `json:"tone_analysis"`
	Terminology   map[string]float64 `json:"terminology"`
	Structure     string             `json:"structure"`
	HeadingStyle  string             `json:"heading_style"`
	ListStyle     string             `json:"list_style"`
	Formatting    string             `json:"formatting"`
	DocumentCount int                `json:"document_count"`
	IsDefault     bool               `json:"is_default"`
}

var (
	professionalKeywords = []string{
		"requirements", "specifications", "implementation", "deliverables",
		"stakeholders", "objectives", "methodology", "framework",
	}
	technicalKeywords = []string{
		"system", "architecture", "database", "api", "interface",
		"algorithm", "protocol", "configuration", "deployment",
	}
	formalKeywords = []string{
		"shall", "must", "should", "will", "hereby", "therefore",
		"furthermore", "consequently", "accordingly",
	}
	relevantTerms = []string{
		"requirements", "specifications", "implementation", "system",
		"architecture", "design", "development", "testing", "deployment",
		"database", "interface", "api", "security", "performance",
		"functionality", "feature", "module", "component", "service",
	}

	headingPattern = regexp.MustCompile(`(?m)^(#+)\s+(.+)$`)
	wordPattern    = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
)

const (
	topTerms = 15
	cacheTTL = 5 * time.Minute
)

// Builder derives style profiles from approved documents, weighted by
// feedback score. Results are cached briefly since generation workflows
// rebuild the profile on every run.
type Builder struct {
	Repo documents.Repo
	Now  func() time.Time

	mu    sync.Mutex
	cache map[string]cachedProfile
}

type cachedProfile struct {
	profile Profile
	at      time.Time
}

// NewBuilder constructs a Builder.
func NewBuilder(repo documents.Repo) *Builder {
	return &Builder{Repo: repo, Now: time.Now, cache: make(map[string]cachedProfile)}
}

// Build returns the style profile for a document type. With no approved
// documents available it falls back to the default professional profile.
func (b *Builder) Build(ctx context.Context, docType string, minFeedbackScore int) (Profile, error) {
	key := fmt.Sprintf("%s|%d", docType, minFeedbackScore)

	b.mu.Lock()
	if cached, ok := b.cache[key]; ok && b.Now().Sub(cached.at) < cacheTTL {
		b.mu.Unlock()
		return cached.profile, nil
	}
	b.mu.Unlock()

	docs, err := b.Repo.ListApproved(ctx, docType, minFeedbackScore)
	if err != nil {
		return Profile{}, err
	}

	profile := buildFromDocuments(docs)

	b.mu.Lock()
	b.cache[key] = cachedProfile{profile: profile, at: b.Now()}
	b.mu.Unlock()
	return profile, nil
}

// DefaultProfile is used when no approved documents exist yet.
func DefaultProfile() Profile {
	return Profile{
		Tone:         "professional",
		Structure:    "standard",
		HeadingStyle: "atx",
		ListStyle:    "bulleted",
		Formatting:   "markdown",
		IsDefault:    true,
	}
}

func buildFromDocuments(docs []documents.Document) Profile {
	if len(docs) == 0 {
		return DefaultProfile()
	}

	toneTotals := map[string]float64{}
	termTotals := map[string]float64{}
	headingTotals := map[string]float64{}
	totalWeight := 0.0

	for _, doc := range docs {
		weight := float64(documents.ClampScore(doc.FeedbackScore)) / 5.0
		totalWeight += weight

		for tone, score := range analyzeTone(doc.Content) {
			toneTotals[tone] += score * weight
		}
		for term, count := range extractTerminology(doc.Content) {
			termTotals[term] += float64(count) * weight
		}
		for level, count := range headingLevels(doc.Content) {
			headingTotals[level] += float64(count) * weight
		}
	}

	if totalWeight > 0 {
		for tone := range toneTotals {
			toneTotals[tone] /= totalWeight
		}
	}

	headingStyle := "atx"
	if dominant := dominantKey(headingTotals); dominant != "" && dominant != "level_1" {
		headingStyle = "setext"
	}

	return Profile{
		Tone:          dominantKeyOr(toneTotals, "professional"),
		ToneAnalysis:  toneTotals,
		Terminology:   topN(termTotals, topTerms),
		Structure:     "standard",
		HeadingStyle:  headingStyle,
		ListStyle:     "bulleted",
		Formatting:    "markdown",
		DocumentCount: len(docs),
	}
}

func analyzeTone(content string) map[string]float64 {
	neutral := map[string]float64{"professional": 0.5, "technical": 0.5, "formal": 0.5}
	totalWords := len(strings.Fields(content))
	if totalWords == 0 {
		return neutral
	}

	lower := strings.ToLower(content)
	score := func(keywords []string) float64 {
		count := 0
		for _, kw := range keywords {
			count += strings.Count(lower, kw)
		}
		s := float64(count) / float64(totalWords) * 1000
		if s > 1.0 {
			s = 1.0
		}
		return s
	}

	return map[string]float64{
		"professional": score(professionalKeywords),
		"technical":    score(technicalKeywords),
		"formal":       score(formalKeywords),
	}
}

func extractTerminology(content string) map[string]int {
	words := wordPattern.FindAllString(strings.ToLower(content), -1)
	counts := map[string]int{}
	for _, word := range words {
		counts[word]++
	}

	out := map[string]int{}
	for _, term := range relevantTerms {
		if n := counts[term]; n > 0 {
			out[term] = n
		}
	}
	return out
}

func headingLevels(content string) map[string]int {
	out := map[string]int{}
	for _, match := range headingPattern.FindAllStringSubmatch(content, -1) {
		out["level_"+strconv.Itoa(len(match[1]))]++
	}
	return out
}

func dominantKey(m map[string]float64) string {
	best := ""
	bestVal := 0.0
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] > bestVal {
			best = k
			bestVal = m[k]
		}
	}
	return best
}

func dominantKeyOr(m map[string]float64, fallback string) string {
	if k := dominantKey(m); k != "" {
		return k
	}
	return fallback
}

func topN(m map[string]float64, n int) map[string]float64 {
	type kv struct {
		k string
		v float64
	}
	pairs := make([]kv, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].v != pairs[j].v {
			return pairs[i].v > pairs[j].v
		}
		return pairs[i].k < pairs[j].k
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		out[p.k] = p.v
	}
	return out
}

// Describe renders a profile as prompt-ready text.
func (p Profile) Describe() string {
	var b strings.Builder
	b.WriteString("Writing Style: ")
	b.WriteString(p.Tone)
	b.WriteString("\nStructure: ")
	b.WriteString(p.Structure)
	b.WriteString("\nFormatting: ")
	b.WriteString(p.Formatting)
	if len(p.Terminology) > 0 {
		terms := make([]string, 0, len(p.Terminology))
		for term := range p.Terminology {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		b.WriteString("\nPreferred Terminology: ")
		b.WriteString(strings.Join(terms, ", "))
	}
	return b.String()
}
