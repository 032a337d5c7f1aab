package ingest

// SplitText cuts text into fixed windows of at most size characters where
// every window after the first repeats the previous window's last overlap
// characters. Sizes count runes, not bytes, so a window boundary never
// bisects a multi-byte character. The split is purely positional: the same
// input and parameters always yield the same sequence, which keeps the
// {hash}_{index} chunk ids stable across re-ingestion.
func SplitText(text string, size int, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
