package llm

import (
	"context"
	"regexp"
	"strings"
)

var (
	docTypePattern = regexp.MustCompile(`Document Type: (.*)`)
	summaryPattern = regexp.MustCompile(`Project Summary: (.*)`)
	reqLinePattern = regexp.MustCompile(`- (.*)`)
)

// MockClient is a deterministic offline client used when no provider key is
// configured. Generation prompts yield a skeleton document assembled from the
// prompt fields; editing prompts echo the submitted document back so the
// post-processing stages still run.
type MockClient struct{}

// Complete implements Client without any network calls.
func (MockClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", ErrEmptyPrompt
	}

	prompt := messages[len(messages)-1].Content
	if strings.Contains(prompt, "Project Summary:") {
		return mockDraft(prompt), nil
	}
	if idx := strings.Index(prompt, "\nDocument:\n"); idx >= 0 {
		return prompt[idx+len("\nDocument:\n"):], nil
	}
	return prompt, nil
}

func mockDraft(prompt string) string {
	docType := firstMatch(docTypePattern, prompt, "Document")
	summary := firstMatch(summaryPattern, prompt, "Project")

	requirements := "- Core functionality"
	if matches := reqLinePattern.FindAllStringSubmatch(prompt, -1); len(matches) > 0 {
		lines := make([]string, 0, len(matches))
		for _, m := range matches {
			lines = append(lines, "- "+strings.TrimSpace(m[1]))
		}
		requirements = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString("# " + docType + ": " + summary + "\n\n")
	b.WriteString("## Introduction\nThis outlines the " + strings.ToLower(docType) + " for " + strings.ToLower(summary) + ".\n\n")
	b.WriteString("## Requirements\n" + requirements + "\n\n")
	b.WriteString("## Conclusion\nComprehensive framework.")
	return b.String()
}

func firstMatch(re *regexp.Regexp, s, fallback string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

var _ Client = MockClient{}
