package artifacts

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/videoai/internal/domain/ai"
	"github.com/bryanwahyu/videoai/internal/domain/analysis"
)

// Generator turns transcript text into study artifacts.
// Only Summary reports failures; the other artifacts degrade to empty values.
type Generator interface {
	Summary(ctx context.Context, text string) (string, error)
	KeyPoints(ctx context.Context, text string) []string
	MindMap(ctx context.Context, text string) analysis.MindMap
	StudyNotes(ctx context.Context, text string) string
}

var (
	_ Generator = (*ModelGenerator)(nil)
	_ Generator = OfflineGenerator{}
)

// New returns the model-backed generator when model is set, the offline one otherwise.
func New(model ai.TextModel, chunkSize int, log zerolog.Logger) Generator {
	if model == nil {
		return OfflineGenerator{}
	}
	return &ModelGenerator{Model: model, ChunkSize: chunkSize, Log: log}
}
