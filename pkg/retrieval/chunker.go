package retrieval

import "strings"

const (
	// Sliding-window chunker defaults.
	DefaultChunkSize = 1000
	DefaultOverlap   = 120

	// Section chunker size band.
	minSectionChunk = 800
	maxSectionChunk = 1200
)

// SplitText cuts a document into fixed-size chunks with an overlap so context
// at chunk boundaries is preserved. Character-based; it never splits a rune.
func SplitText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// SplitSections chunks markdown-ish content on header boundaries, packing
// consecutive sections into chunks within the [minSectionChunk, maxSectionChunk]
// band. Sections too large for the band fall back to the sliding window, so
// headerless documents never index as one giant chunk.
func SplitSections(content string) []string {
	raw := strings.Split(content, "\n#")
	sections := make([]string, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if i > 0 {
			s = "#" + s
		}
		sections = append(sections, s)
	}

	var chunks []string
	var buffer string
	flush := func() {
		trimmed := strings.TrimSpace(buffer)
		buffer = ""
		if trimmed == "" {
			return
		}
		if len(trimmed) > maxSectionChunk {
			chunks = append(chunks, SplitText(trimmed, DefaultChunkSize, DefaultOverlap)...)
			return
		}
		chunks = append(chunks, trimmed)
	}

	for _, section := range sections {
		if len(buffer)+len(section) > maxSectionChunk {
			flush()
			buffer = section
			continue
		}
		if buffer != "" {
			buffer += "\n\n"
		}
		buffer += section
		if len(buffer) >= minSectionChunk {
			flush()
		}
	}
	flush()
	return chunks
}
