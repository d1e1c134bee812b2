package ingest

import "strings"

// Chunker splits document text into overlapping retrieval chunks, preferring
// to break at paragraph, line, sentence, then word boundaries.
type Chunker struct {
	Size    int
	Overlap int
}

var separators = []string{"\n\n", "\n", ". ", " "}

// Split returns the chunked text. Chunks are trimmed and empty pieces are
// dropped.
func (c Chunker) Split(content string) []string {
	size := c.Size
	if size <= 0 {
		size = 1000
	}
	overlap := c.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= size {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < len(content) {
		end := start + size
		if end >= len(content) {
			end = len(content)
		} else {
			end = splitPoint(content, start, end)
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(content) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// splitPoint moves the cut left to the last separator inside the window so a
// chunk does not end mid-word. Without any separator the hard cut stands.
func splitPoint(content string, start, end int) int {
	window := content[start:end]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + idx + len(sep)
		}
	}
	return end
}
