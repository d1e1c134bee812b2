package revision

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	diffSectionOpen  = "<div class=\"diff-section\">"
	diffSectionClose = "</div>"
	removedOpen      = "<span class=\"diff-removed\">~~"
	removedClose     = "~~</span>"
	addedOpen        = "<span class=\"diff-added\">"
	addedClose       = "</span>"

	// fallbackChangeLog is used when the service reply carried nothing usable.
	fallbackChangeLog = "Review completed. No changes were reported."
)

// Merged is the result of applying a review response to existing content.
type Merged struct {
	Content   string
	ChangeLog string
}

// Reconcile merges a review response into the previous document content and
// builds the change-log text for the conversation panel. It is a pure
// transformation; the caller applies Content to its own state and records
// ChangeLog as a chat entry.
//
// Detailed replies produce a removed-content block at the top of the merged
// document followed by the improved content with added spans marked inline.
// Legacy replies replace the content verbatim. Empty replies leave the
// content untouched.
func Reconcile(previous string, resp Response) Merged {
	switch resp.Kind {
	case KindDetailed:
		return reconcileDetailed(previous, resp)
	case KindLegacy:
		return reconcileLegacy(previous, resp)
	default:
		return Merged{Content: previous, ChangeLog: emptyChangeLog(resp)}
	}
}

func reconcileDetailed(previous string, resp Response) Merged {
	log := detailedChangeLog(resp)

	if !resp.HasContent {
		return Merged{Content: previous, ChangeLog: log}
	}

	content := resp.ImprovedContent
	for _, added := range resp.Diff.Added {
		content = markFirstOccurrence(content, added)
	}

	if len(resp.Diff.Removed) > 0 {
		var b strings.Builder
		b.WriteString(diffSectionOpen)
		b.WriteString("\n\n**Removed Content**\n\n")
		for _, removed := range resp.Diff.Removed {
			b.WriteString(removedOpen)
			b.WriteString(removed)
			b.WriteString(removedClose)
			b.WriteString("\n\n")
		}
		b.WriteString(diffSectionClose)
		b.WriteString("\n\n")
		b.WriteString(content)
		content = b.String()
	}

	return Merged{Content: content, ChangeLog: log}
}

// markFirstOccurrence wraps the first verbatim occurrence of literal in an
// added span. A literal that does not appear, for example because the service
// paraphrased it, is left unmarked. That is accepted behavior, not an error.
func markFirstOccurrence(content, literal string) string {
	if strings.TrimSpace(literal) == "" {
		return content
	}
	re, err := regexp.Compile(regexp.QuoteMeta(literal))
	if err != nil {
		return content
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[0]] + addedOpen + content[loc[0]:loc[1]] + addedClose + content[loc[1]:]
}

func detailedChangeLog(resp Response) string {
	var b strings.Builder
	b.WriteString("**Changes Applied**\n\n```diff\n")
	for _, removed := range resp.Diff.Removed {
		b.WriteString("- ")
		b.WriteString(removed)
		b.WriteString("\n")
	}
	for _, added := range resp.Diff.Added {
		b.WriteString("+ ")
		b.WriteString(added)
		b.WriteString("\n")
	}
	b.WriteString("```")
	if len(resp.Diff.Summary) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(resp.Diff.Summary, "\n"))
	}
	return b.String()
}

func reconcileLegacy(previous string, resp Response) Merged {
	content := previous
	if resp.HasContent {
		content = resp.ImprovedContent
	}

	var b strings.Builder
	switch {
	case len(resp.ChangesMade) > 0:
		b.WriteString(fmt.Sprintf("Applied %d improvement(s)", len(resp.ChangesMade)))
	case resp.Message != "":
		b.WriteString(resp.Message)
	default:
		b.WriteString(fallbackChangeLog)
	}
	appendSuggestions(&b, resp.Suggestions)

	return Merged{Content: content, ChangeLog: b.String()}
}

func emptyChangeLog(resp Response) string {
	var b strings.Builder
	if resp.Message != "" {
		b.WriteString(resp.Message)
	} else {
		b.WriteString(fallbackChangeLog)
	}
	appendSuggestions(&b, resp.Suggestions)
	return b.String()
}

func appendSuggestions(b *strings.Builder, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	b.WriteString("\n\nSuggestions:")
	for _, s := range suggestions {
		b.WriteString("\n- ")
		b.WriteString(s)
	}
}
