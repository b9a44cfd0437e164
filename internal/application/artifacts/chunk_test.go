package artifacts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"hello world",
		strings.Repeat("abcdefghij", 1300),
		strings.Repeat("héllo wörld ", 700),
		"日本語のテキストを分割する",
		"\xff\xfe broken utf8 \xc3",
	}
	sizes := []int{1, 2, 3, 7, 100, DefaultChunkSize}

	for _, text := range inputs {
		for _, size := range sizes {
			chunks := ChunkText(text, size)

			assert.Equal(t, text, strings.Join(chunks, ""))

			total := utf8.RuneCountInString(text)
			assert.Len(t, chunks, (total+size-1)/size)
			for i, c := range chunks {
				n := utf8.RuneCountInString(c)
				if i < len(chunks)-1 {
					assert.Equal(t, size, n)
				} else {
					assert.LessOrEqual(t, n, size)
					assert.Positive(t, n)
				}
			}
		}
	}
}

func TestChunkTextDefaultSize(t *testing.T) {
	text := strings.Repeat("x", 2*DefaultChunkSize+1)

	chunks := ChunkText(text, 0)

	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[2], 1)
}
