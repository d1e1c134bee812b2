package export

import (
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
)

var latexEscaper = strings.NewReplacer(
	"\\", `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// markdownToLaTeX converts markdown to a standalone LaTeX article without
// external tooling. Headings, code blocks, lists, tables, and inline bold or
// italic text are handled; anything else passes through escaped.
func markdownToLaTeX(markdown, title string) string {
	out := []string{
		`\documentclass{article}`,
		`\usepackage[utf8]{inputenc}`,
		`\usepackage{hyperref}`,
		`\usepackage{graphicx}`,
		`\usepackage{listings}`,
		`\usepackage{color}`,
		`\usepackage{enumitem}`,
		`\usepackage{booktabs}`,
		``,
		`\title{` + escapeLaTeX(title) + `}`,
		`\author{}`,
		`\date{\today}`,
		``,
		`\begin{document}`,
		``,
		`\maketitle`,
		``,
	}

	inCode := false
	inItemize := false
	inEnumerate := false
	inTable := false

	closeLists := func() {
		if inItemize {
			out = append(out, `\end{itemize}`)
			inItemize = false
		}
		if inEnumerate {
			out = append(out, `\end{enumerate}`)
			inEnumerate = false
		}
	}
	closeTable := func() {
		if inTable {
			out = append(out, `\bottomrule`, `\end{tabular}`, `\end{table}`)
			inTable = false
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "```") {
			closeLists()
			closeTable()
			if inCode {
				out = append(out, `\end{lstlisting}`)
			} else {
				out = append(out, `\begin{lstlisting}`)
			}
			inCode = !inCode
			continue
		}
		if inCode {
			out = append(out, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "### "):
			closeLists()
			closeTable()
			out = append(out, `\subsubsection{`+inlineLaTeX(line[4:])+`}`)
		case strings.HasPrefix(line, "## "):
			closeLists()
			closeTable()
			out = append(out, `\subsection{`+inlineLaTeX(line[3:])+`}`)
		case strings.HasPrefix(line, "# "):
			closeLists()
			closeTable()
			out = append(out, `\section{`+inlineLaTeX(line[2:])+`}`)
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			closeTable()
			if !inItemize {
				closeLists()
				out = append(out, `\begin{itemize}`)
				inItemize = true
			}
			out = append(out, `  \item `+inlineLaTeX(line[2:]))
		case numberedItem(line) != "":
			closeTable()
			if !inEnumerate {
				closeLists()
				out = append(out, `\begin{enumerate}`)
				inEnumerate = true
			}
			out = append(out, `  \item `+inlineLaTeX(numberedItem(line)))
		case strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|"):
			closeLists()
			cells := splitTableRow(trimmed)
			if !inTable {
				inTable = true
				out = append(out,
					`\begin{table}[h!]`,
					`\centering`,
					`\begin{tabular}{`+strings.Repeat("l", len(cells))+`}`,
					`\toprule`,
					joinTableCells(cells),
					`\midrule`,
				)
			} else if separatorRow(cells) {
				// alignment row, nothing to emit
			} else {
				out = append(out, joinTableCells(cells))
			}
		case trimmed == "":
			closeLists()
			closeTable()
			out = append(out, "")
		default:
			closeLists()
			closeTable()
			out = append(out, inlineLaTeX(line))
		}
	}

	closeLists()
	closeTable()
	if inCode {
		out = append(out, `\end{lstlisting}`)
	}
	out = append(out, ``, `\end{document}`)
	return strings.Join(out, "\n")
}

var numberedPattern = regexp.MustCompile(`^\d+[.)]\s+(.*)`)

func numberedItem(line string) string {
	if m := numberedPattern.FindStringSubmatch(line); len(m) > 1 {
		return m[1]
	}
	return ""
}

func splitTableRow(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

func separatorRow(cells []string) bool {
	for _, c := range cells {
		if !strings.HasPrefix(c, "-") && !strings.HasPrefix(c, ":") {
			return false
		}
	}
	return true
}

func joinTableCells(cells []string) string {
	escaped := make([]string, 0, len(cells))
	for _, c := range cells {
		escaped = append(escaped, inlineLaTeX(c))
	}
	return strings.Join(escaped, " & ") + ` \\`
}

func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// inlineLaTeX escapes a text line and converts bold and italic markers.
// Markers are protected with placeholders so escaping cannot touch them.
func inlineLaTeX(s string) string {
	const (
		boldOpen    = "\x00B{"
		italicOpen  = "\x00I{"
		markerClose = "\x00}"
	)
	s = boldPattern.ReplaceAllString(s, boldOpen+"$1"+markerClose)
	s = italicPattern.ReplaceAllString(s, italicOpen+"$1"+markerClose)
	s = escapeLaTeX(s)
	s = strings.ReplaceAll(s, boldOpen, `\textbf{`)
	s = strings.ReplaceAll(s, italicOpen, `\textit{`)
	s = strings.ReplaceAll(s, markerClose, `}`)
	return s
}
