package artifacts

// DefaultChunkSize is the largest piece of transcript sent in one summary call.
const DefaultChunkSize = 6000

// ChunkText splits text into contiguous pieces of at most maxChars characters.
// Joining the pieces gives back text unchanged.
func ChunkText(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = DefaultChunkSize
	}
	chunks := []string{}
	start, n := 0, 0
	for i := range text {
		if n == maxChars {
			chunks = append(chunks, text[start:i])
			start, n = i, 0
		}
		n++
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}
