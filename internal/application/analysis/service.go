package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/videoai/internal/application"
	"github.com/bryanwahyu/videoai/internal/application/artifacts"
	domain "github.com/bryanwahyu/videoai/internal/domain/analysis"
	"github.com/bryanwahyu/videoai/internal/domain/transcripts"
)

// TranscriptAcquirer resolves a video URL into transcript text.
type TranscriptAcquirer interface {
	Acquire(ctx context.Context, rawURL string) (transcripts.Result, error)
}

// Service implements use-cases untuk analisa video.
// Safe for concurrent use.
type Service struct {
	Repo        domain.Repository
	Transcripts TranscriptAcquirer
	Generator   artifacts.Generator
	Clock       application.Clock
	Log         zerolog.Logger
}

// Analyze acquires the transcript of url, derives the study artifacts and stores
// the result for ownerID. Nothing is stored when acquisition fails.
func (s *Service) Analyze(ctx context.Context, ownerID int64, url string) (*domain.Analysis, error) {
	tr, err := s.Transcripts.Acquire(ctx, url)
	if err != nil {
		return nil, err
	}

	arts := s.generate(ctx, tr.Text)
	a := &domain.Analysis{
		OwnerID:    ownerID,
		YouTubeURL: url,
		Title:      tr.Title,
		Transcript: tr.Text,
		Summary:    arts.Summary,
		KeyPoints:  arts.KeyPoints,
		MindMap:    arts.MindMap,
		StudyNotes: arts.StudyNotes,
		AudioURL:   tr.AudioURL,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, err
	}

	s.Log.Info().
		Int64("analysis_id", a.ID).
		Int64("user_id", ownerID).
		Int("transcript_chars", len(tr.Text)).
		Int("key_points", len(a.KeyPoints)).
		Msg("analysis stored")
	return a, nil
}

// generate runs the four generators concurrently; none of them can fail the record.
func (s *Service) generate(ctx context.Context, text string) domain.Artifacts {
	var (
		out domain.Artifacts
		g   errgroup.Group
	)
	g.Go(func() error {
		summary, err := s.Generator.Summary(ctx, text)
		if err != nil {
			s.Log.Warn().Err(err).Msg("summary generation failed, using extractive summary")
			summary = artifacts.ExtractiveSummary(text)
		}
		out.Summary = summary
		return nil
	})
	g.Go(func() error {
		out.KeyPoints = s.Generator.KeyPoints(ctx, text)
		return nil
	})
	g.Go(func() error {
		out.MindMap = s.Generator.MindMap(ctx, text)
		return nil
	})
	g.Go(func() error {
		out.StudyNotes = s.Generator.StudyNotes(ctx, text)
		return nil
	})
	_ = g.Wait()

	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	return out
}

// List returns the owner's analyses, newest first.
func (s *Service) List(ctx context.Context, ownerID int64) ([]*domain.Analysis, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Get returns domain.ErrNotFound when id is missing or owned by someone else.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, ownerID, id)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}
