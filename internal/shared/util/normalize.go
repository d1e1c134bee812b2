package util

import "strings"

var contentReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	"■", "-", // black square
	"•", "*", // bullet
)

// NormalizeContent rewrites typographic dashes and bullets into their
// plain-markdown equivalents. The result is stable under repeated calls.
func NormalizeContent(s string) string {
	return contentReplacer.Replace(s)
}
