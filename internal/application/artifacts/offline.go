package artifacts

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bryanwahyu/videoai/internal/domain/analysis"
)

const (
	maxSummarySentences = 10
	keyPointWords       = 20
	maxKeyPoints        = 10
)

// OfflineGenerator is deterministic and never calls a remote service.
type OfflineGenerator struct{}

func (OfflineGenerator) Summary(_ context.Context, text string) (string, error) {
	return ExtractiveSummary(text), nil
}

func (OfflineGenerator) KeyPoints(_ context.Context, text string) []string {
	words := strings.Fields(text)
	n := min(maxKeyPoints, len(words)/keyPointWords)
	points := make([]string, 0, n)
	for i := 0; i < n; i++ {
		window := words[i*keyPointWords : (i+1)*keyPointWords]
		points = append(points, fmt.Sprintf("Key point %d: %s", i+1, strings.Join(window, " ")))
	}
	return points
}

func (OfflineGenerator) MindMap(context.Context, string) analysis.MindMap {
	return append(analysis.MindMap(nil), analysis.OfflineMindMap...)
}

// StudyNotes falls back to the extractive summary.
func (OfflineGenerator) StudyNotes(_ context.Context, text string) string {
	return ExtractiveSummary(text)
}

// ExtractiveSummary keeps the first ten sentences of text.
func ExtractiveSummary(text string) string {
	sentences := splitSentences(text)
	if len(sentences) > maxSummarySentences {
		sentences = sentences[:maxSummarySentences]
	}
	return strings.Join(sentences, " ")
}

// splitSentences cuts text at whitespace runs that follow '.', '!' or '?'.
// The last piece is always returned, even when empty.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i
		for j < len(text) {
			r2, s2 := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r2) {
				break
			}
			j += s2
		}
		if j > i {
			out = append(out, text[start:i])
			start, i = j, j
		}
	}
	return append(out, text[start:])
}
