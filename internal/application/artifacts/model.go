package artifacts

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/videoai/internal/domain/ai"
	"github.com/bryanwahyu/videoai/internal/domain/analysis"
	"github.com/bryanwahyu/videoai/internal/infra/ai/prompt"
)

var bulletPrefix = regexp.MustCompile(`^[-*\s]+`)

// ModelGenerator asks a text model for each artifact.
type ModelGenerator struct {
	Model     ai.TextModel
	ChunkSize int
	Log       zerolog.Logger
}

// Summary summarizes each chunk in order. A failed or empty chunk fails the whole summary.
func (g *ModelGenerator) Summary(ctx context.Context, text string) (string, error) {
	chunks := ChunkText(text, g.ChunkSize)
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		out, err := g.complete(ctx, ai.CompletionRequest{Prompt: prompt.Summary(chunk)})
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts[i] = out
	}
	return strings.Join(parts, "\n"), nil
}

func (g *ModelGenerator) KeyPoints(ctx context.Context, text string) []string {
	out, err := g.complete(ctx, ai.CompletionRequest{Prompt: prompt.KeyPoints(text)})
	if err != nil {
		g.Log.Warn().Err(err).Str("artifact", "key_points").Msg("artifact generation failed")
		return []string{}
	}
	return parseBullets(out)
}

func (g *ModelGenerator) MindMap(ctx context.Context, text string) analysis.MindMap {
	out, err := g.complete(ctx, ai.CompletionRequest{Prompt: prompt.MindMap(text), JSONObject: true})
	if err != nil {
		g.Log.Warn().Err(err).Str("artifact", "mind_map").Msg("artifact generation failed")
		return nil
	}
	m, err := analysis.ParseMindMap(stripFences(out))
	if err != nil {
		g.Log.Warn().Err(err).Str("artifact", "mind_map").Msg("using placeholder mind map")
		return append(analysis.MindMap(nil), analysis.PlaceholderMindMap...)
	}
	return m
}

func (g *ModelGenerator) StudyNotes(ctx context.Context, text string) string {
	out, err := g.complete(ctx, ai.CompletionRequest{Prompt: prompt.StudyNotes(text)})
	if err != nil {
		g.Log.Warn().Err(err).Str("artifact", "study_notes").Msg("artifact generation failed")
		return ""
	}
	return out
}

// complete treats a blank reply as a failure.
func (g *ModelGenerator) complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	out, err := g.Model.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", ai.ErrEmptyResponse
	}
	return out, nil
}

func parseBullets(out string) []string {
	items := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// stripFences removes a markdown code fence around model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
