package style

import (
	"context"
	"strings"
	"testing"
	"time"

	"docgen-backend/internal/documents"
)

func seedRepo(t *testing.T, docs ...documents.Document) *documents.MemoryRepo {
	t.Helper()
	repo := documents.NewMemoryRepo()
	for _, doc := range docs {
		if err := repo.Create(context.Background(), doc); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func approvedDoc(id, content string, score int) documents.Document {
	return documents.Document{
		ID:            id,
		DocType:       "SRS",
		Content:       content,
		Status:        documents.StatusFinal,
		Approved:      true,
		FeedbackScore: score,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestBuildFallsBackToDefaultProfile(t *testing.T) {
	builder := NewBuilder(seedRepo(t))

	profile, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !profile.IsDefault {
		t.Fatalf("expected default profile with empty corpus")
	}
	if profile.Tone != "professional" {
		t.Fatalf("expected professional default tone, got %q", profile.Tone)
	}
}

func TestBuildDetectsTechnicalTone(t *testing.T) {
	content := "# Architecture\n\nThe system architecture uses a database behind an api interface. " +
		"The deployment protocol and configuration follow the system architecture."
	builder := NewBuilder(seedRepo(t, approvedDoc("doc-1", content, 5)))

	profile, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if profile.IsDefault {
		t.Fatalf("expected computed profile")
	}
	if profile.Tone != "technical" {
		t.Fatalf("expected technical tone, got %q (analysis %v)", profile.Tone, profile.ToneAnalysis)
	}
	if profile.DocumentCount != 1 {
		t.Fatalf("expected document count 1, got %d", profile.DocumentCount)
	}
}

func TestBuildExtractsTerminology(t *testing.T) {
	content := "Requirements drive the design. The requirements cover security, performance, and testing. " +
		"# Requirements\n\nEach module lists its requirements."
	builder := NewBuilder(seedRepo(t, approvedDoc("doc-1", content, 4)))

	profile, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := profile.Terminology["requirements"]; !ok {
		t.Fatalf("expected requirements in terminology, got %v", profile.Terminology)
	}
}

func TestBuildSkipsLowScoredDocuments(t *testing.T) {
	repo := seedRepo(t,
		approvedDoc("good", "system architecture database api", 5),
		approvedDoc("bad", "marketing fluff", 2),
	)
	builder := NewBuilder(repo)

	profile, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if profile.DocumentCount != 1 {
		t.Fatalf("expected only high-scored document counted, got %d", profile.DocumentCount)
	}
}

func TestBuildCachesResults(t *testing.T) {
	repo := seedRepo(t, approvedDoc("doc-1", "system architecture database", 5))
	builder := NewBuilder(repo)

	first, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// New documents inside the TTL are not picked up.
	if err := repo.Create(context.Background(), approvedDoc("doc-2", "requirements specifications deliverables", 5)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if second.DocumentCount != first.DocumentCount {
		t.Fatalf("expected cached profile, got recomputed count %d", second.DocumentCount)
	}

	// Expire the cache and rebuild.
	builder.Now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	third, err := builder.Build(context.Background(), "SRS", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if third.DocumentCount != 2 {
		t.Fatalf("expected rebuilt profile to see both documents, got %d", third.DocumentCount)
	}
}

func TestDescribeIncludesTerminology(t *testing.T) {
	profile := Profile{
		Tone:        "technical",
		Structure:   "standard",
		Formatting:  "markdown",
		Terminology: map[string]float64{"api": 3, "database": 2},
	}
	out := profile.Describe()
	for _, want := range []string{"Writing Style: technical", "api", "database"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Describe missing %q:\n%s", want, out)
		}
	}
}
