package index

import "strings"

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// ChunkText splits text into overlapping windows of roughly size runes,
// preferring to cut on a newline near the window end so chunks do not break
// mid-line. Whitespace-only input yields no chunks.
func ChunkText(text string, size, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); {
		end := i + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Cut on the last newline in the second half of the window.
			if nl := lastNewline(runes, i+size/2, end); nl > i {
				end = nl
			}
		}

		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}
		next := end - overlap
		if next <= i {
			next = i + 1
		}
		i = next
	}
	return chunks
}

func lastNewline(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
