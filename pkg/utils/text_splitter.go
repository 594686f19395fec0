package utils

import "strings"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// SplitText splits text into windows of at most chunkSize runes with the given overlap.
// Inside the trailing 30% of each window it prefers to cut after the last newline or
// sentence-ending ". ", otherwise it cuts at the hard boundary.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}
	if totalLen <= chunkSize {
		if s := strings.TrimSpace(text); s != "" {
			return []string{s}
		}
		return nil
	}

	var chunks []string
	start := 0
	for start < totalLen {
		end := start + chunkSize
		if end > totalLen {
			end = totalLen
		}

		if end < totalLen {
			end = logicalBreak(runes, start, end, chunkSize)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= totalLen {
			break
		}

		next := end - overlap
		// always move forward, even when the break landed inside the overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// logicalBreak returns the cut position for the window [start, end).
func logicalBreak(runes []rune, start, end, chunkSize int) int {
	threshold := start + int(float64(chunkSize)*0.7)

	// the break nearest the window end wins, newline or sentence stop alike
	for i := end - 1; i > threshold; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
		if runes[i] == '.' && i+1 < end && runes[i+1] == ' ' {
			return i + 1
		}
	}
	return end
}
