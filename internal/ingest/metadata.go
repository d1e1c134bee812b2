package ingest

import (
	"regexp"
	"strings"
)

var (
	hashHeaderPattern      = regexp.MustCompile(`(?m)^#+\s`)
	numberedSectionPattern = regexp.MustCompile(`(?m)^\d+\.\s`)
	letteredSectionPattern = regexp.MustCompile(`(?m)^[a-zA-Z]\.\s`)
	bulletPointPattern     = regexp.MustCompile(`(?m)^[-*•]\s`)
	numberedListPattern    = regexp.MustCompile(`(?m)^\d+\)\s`)
	dashListPattern        = regexp.MustCompile(`(?m)^-\s`)
	boldTextPattern        = regexp.MustCompile(`\*\*.*?\*\*`)
	italicTextPattern      = regexp.MustCompile(`\*.*?\*`)
	codeBlockPattern       = regexp.MustCompile(`(?s)` + "```" + `.*?` + "```")
	inlineCodePattern      = regexp.MustCompile("`.*?`")
)

// StyleMetadata counts formatting patterns in a document so later generations
// can preserve the house style.
func StyleMetadata(content string) map[string]any {
	return map[string]any{
		"heading_patterns": map[string]any{
			"hash_headers":      len(hashHeaderPattern.FindAllString(content, -1)),
			"numbered_sections": len(numberedSectionPattern.FindAllString(content, -1)),
			"lettered_sections": len(letteredSectionPattern.FindAllString(content, -1)),
		},
		"list_indicators": map[string]any{
			"bullet_points":  len(bulletPointPattern.FindAllString(content, -1)),
			"numbered_lists": len(numberedListPattern.FindAllString(content, -1)),
			"dash_lists":     len(dashListPattern.FindAllString(content, -1)),
		},
		"formatting_patterns": map[string]any{
			"bold_text":    len(boldTextPattern.FindAllString(content, -1)),
			"italic_text":  len(italicTextPattern.FindAllString(content, -1)),
			"code_blocks":  len(codeBlockPattern.FindAllString(content, -1)),
			"inline_code":  len(inlineCodePattern.FindAllString(content, -1)),
		},
	}
}

type typePattern struct {
	docType          string
	filenamePatterns []string
	contentPatterns  []string
}

var typePatterns = []typePattern{
	{
		docType:          "SRS",
		filenamePatterns: []string{"srs", "requirements", "specification", "req"},
		contentPatterns:  []string{"software requirements", "functional requirements", "non-functional requirements"},
	},
	{
		docType:          "SOW",
		filenamePatterns: []string{"sow", "statement", "work", "scope"},
		contentPatterns:  []string{"statement of work", "deliverables", "timeline", "project scope"},
	},
	{
		docType:          "Proposal",
		filenamePatterns: []string{"proposal", "rfp", "bid", "quote"},
		contentPatterns:  []string{"proposal", "budget", "cost estimate"},
	},
	{
		docType:          "Technical",
		filenamePatterns: []string{"technical", "api", "documentation", "tech", "guide"},
		contentPatterns:  []string{"api documentation", "technical specification", "architecture"},
	},
	{
		docType:          "Business",
		filenamePatterns: []string{"business", "plan", "strategy", "market"},
		contentPatterns:  []string{"business plan", "market analysis", "financial projections"},
	},
}

// DetectDocType classifies a document by filename hints first, then content
// keyword hits, falling back to General.
func DetectDocType(content, filename string) string {
	contentLower := strings.ToLower(content)
	filenameLower := strings.ToLower(filename)

	for _, pattern := range typePatterns {
		for _, fp := range pattern.filenamePatterns {
			if strings.Contains(filenameLower, fp) {
				return pattern.docType
			}
		}
		score := 0
		for _, cp := range pattern.contentPatterns {
			score += strings.Count(contentLower, cp)
		}
		if score > 0 {
			return pattern.docType
		}
	}
	return "General"
}
