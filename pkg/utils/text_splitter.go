package utils

import "strings"

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with an 'overlap' window to preserve context at boundaries.
// Each chunk is whitespace-normalized (lines trimmed and joined with spaces);
// chunks that end up empty after normalization are dropped. Character-based,
// not tokenizer-aware.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		cleaned := normalizeChunk(string(runes[i:end]))
		if cleaned != "" {
			chunks = append(chunks, cleaned)
		}

		if end == totalLen {
			break
		}
	}

	return chunks
}

// normalizeChunk collapses a chunk's lines into a single space-joined string.
// PDF extraction leaves hard line breaks mid-sentence; embedding quality is
// better on flowing text.
func normalizeChunk(chunk string) string {
	lines := strings.Split(chunk, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
