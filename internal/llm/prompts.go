package llm

import (
	"fmt"
	"strings"
)

// GenerationPromptInput carries everything the generation prompt needs.
type GenerationPromptInput struct {
	DocType      string
	Summary      string
	Requirements string
	Style        string
	StyleProfile string
	Context      string
}

// GenerationPrompt builds the draft-generation conversation.
func GenerationPrompt(in GenerationPromptInput) []Message {
	system := fmt.Sprintf(
		"You are an expert in creating %s documents. Generate a comprehensive document "+
			"following professional standards with proper sections, formatting, and technical accuracy. "+
			"Use markdown formatting with appropriate headers, lists, and code blocks where necessary.",
		in.DocType,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Document Type: %s\n", in.DocType)
	fmt.Fprintf(&b, "Project Summary: %s\n", orDefault(in.Summary, "Not provided"))
	fmt.Fprintf(&b, "Requirements: %s\n", orDefault(in.Requirements, "Not specified"))
	fmt.Fprintf(&b, "Writing Style: %s\n", orDefault(in.Style, "professional"))
	fmt.Fprintf(&b, "Style Profile:\n%s\n", orDefault(in.StyleProfile, "Writing Style: Professional\nStructure: Standard\nFormatting: Markdown"))
	fmt.Fprintf(&b, "Context Examples:\n%s\n", orDefault(in.Context, "No relevant examples found."))

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: b.String()},
	}
}

// FormattingPrompt asks for formatting-only improvements to existing content.
func FormattingPrompt(docType, content, styleProfile string) []Message {
	system := fmt.Sprintf(
		"You are a meticulous technical editor reviewing a %s document. Improve formatting, "+
			"heading structure, spacing, and markdown consistency without changing the meaning "+
			"of the text. Return only the improved markdown document.",
		docType,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Style Profile: %s\n", orDefault(styleProfile, "Professional technical writing style with clear structure"))
	b.WriteString("\nDocument:\n")
	b.WriteString(content)

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: b.String()},
	}
}

// FeedbackPrompt asks for targeted edits driven by reviewer feedback.
func FeedbackPrompt(docType, content string, feedback []string) []Message {
	system := fmt.Sprintf(
		"You are revising a %s document according to reviewer feedback. Apply each instruction "+
			"faithfully and return only the revised markdown document.",
		docType,
	)

	var b strings.Builder
	b.WriteString("Feedback:\n")
	for _, f := range feedback {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nDocument:\n")
	b.WriteString(content)

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: b.String()},
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
