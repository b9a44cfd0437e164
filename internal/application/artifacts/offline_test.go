package artifacts

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/videoai/internal/domain/analysis"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i+1)
	}
	return strings.Join(w, " ")
}

func TestOfflineKeyPoints(t *testing.T) {
	ctx := context.Background()
	g := OfflineGenerator{}

	assert.Empty(t, g.KeyPoints(ctx, words(19)))
	assert.NotNil(t, g.KeyPoints(ctx, ""))

	points := g.KeyPoints(ctx, words(200))
	require.Len(t, points, 10)
	assert.Equal(t, "Key point 1: "+words(20), points[0])
	assert.True(t, strings.HasPrefix(points[9], "Key point 10: w181 "))
	assert.True(t, strings.HasSuffix(points[9], " w200"))

	assert.Len(t, g.KeyPoints(ctx, words(59)), 2)
	assert.Len(t, g.KeyPoints(ctx, words(500)), 10)
}

func TestExtractiveSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no punctuation", "just some words", "just some words"},
		{"collapses whitespace after stops", "One.  Two!\nThree?\tFour", "One. Two! Three? Four"},
		{"punctuation without space", "v1.2 is out. Yes", "v1.2 is out. Yes"},
		{"trailing space keeps empty tail", "Done. ", "Done. "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractiveSummary(tt.in))
		})
	}

	var b strings.Builder
	for i := 1; i <= 15; i++ {
		fmt.Fprintf(&b, "Sentence %d. ", i)
	}
	got := ExtractiveSummary(b.String())
	assert.True(t, strings.HasSuffix(got, "Sentence 10."))
	assert.NotContains(t, got, "Sentence 11")
}

func TestOfflineMindMapAndNotes(t *testing.T) {
	ctx := context.Background()
	g := OfflineGenerator{}
	text := "First idea. Second idea. Third idea."

	assert.JSONEq(t, `{"topic":"Video","children":[{"title":"Point A"},{"title":"Point B"}]}`, g.MindMap(ctx, text).String())

	summary, err := g.Summary(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, summary, g.StudyNotes(ctx, text))

	m := g.MindMap(ctx, text)
	m[0] = 'X'
	assert.Equal(t, byte('{'), analysis.OfflineMindMap[0])
}
