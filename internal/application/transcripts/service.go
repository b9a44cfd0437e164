package transcripts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/videoai/internal/domain/ai"
	domain "github.com/bryanwahyu/videoai/internal/domain/transcripts"
)

const DefaultLanguage = "en"

// Service acquires transcripts: native captions first, then audio download plus
// speech-to-text when captions are disabled.
type Service struct {
	Captions domain.CaptionSource
	Audio    domain.AudioDownloader
	// Speech is nil when no provider credential is configured.
	Speech ai.SpeechToText
	// Archive is optional; when set, downloaded audio is uploaded before removal.
	Archive  domain.AudioArchive
	Language string
	TempDir  string
	// OnFallback, when set, is called each time captions are unavailable and audio is used.
	OnFallback func()
	Log        zerolog.Logger
}

// Acquire returns the title and transcript text for a YouTube URL.
func (s *Service) Acquire(ctx context.Context, rawURL string) (domain.Result, error) {
	videoID, ok := domain.ExtractVideoID(rawURL)
	if !ok {
		return domain.Result{}, domain.ErrInvalidURL
	}

	lang := s.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	segments, err := s.Captions.FetchCaptions(ctx, videoID, lang)
	switch {
	case err == nil:
		return domain.Result{Title: domain.TitleFor(videoID), Text: joinSegments(segments)}, nil
	case errors.Is(err, domain.ErrCaptionsDisabled):
		s.Log.Info().Str("video_id", videoID).Msg("captions disabled, falling back to speech-to-text")
		if s.OnFallback != nil {
			s.OnFallback()
		}
		return s.transcribeAudio(ctx, rawURL, videoID)
	default:
		return domain.Result{}, &domain.AcquisitionError{VideoID: videoID, Cause: err}
	}
}

func (s *Service) transcribeAudio(ctx context.Context, rawURL, videoID string) (domain.Result, error) {
	if s.Speech == nil {
		return domain.Result{}, domain.ErrTranscriptUnavailable
	}
	if s.Audio == nil {
		return domain.Result{}, &domain.AcquisitionError{VideoID: videoID, Cause: errors.New("no audio downloader configured")}
	}

	dir, err := os.MkdirTemp(s.TempDir, "audio-"+videoID+"-")
	if err != nil {
		return domain.Result{}, &domain.AcquisitionError{VideoID: videoID, Cause: fmt.Errorf("create temp dir: %w", err)}
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			s.Log.Warn().Err(err).Str("dir", dir).Msg("failed to remove temp audio")
		}
	}()

	path, err := s.Audio.Download(ctx, rawURL, dir)
	if err != nil {
		return domain.Result{}, &domain.AcquisitionError{VideoID: videoID, Cause: fmt.Errorf("download audio: %w", err)}
	}

	text, err := s.Speech.Transcribe(ctx, path)
	if err != nil {
		return domain.Result{}, &domain.AcquisitionError{VideoID: videoID, Cause: fmt.Errorf("transcribe audio: %w", err)}
	}

	res := domain.Result{Title: domain.TitleFor(videoID), Text: text}
	if s.Archive != nil {
		key := fmt.Sprintf("audio/%s/%s%s", videoID, uuid.NewString(), filepath.Ext(path))
		url, err := s.Archive.UploadAndCleanup(ctx, path, key)
		if err != nil {
			// arsip opsional, transkrip tetap dipakai
			s.Log.Warn().Err(err).Str("video_id", videoID).Msg("failed to archive audio")
		} else {
			res.AudioURL = url
		}
	}
	return res, nil
}

// joinSegments space-joins non-empty caption text in start-time order.
func joinSegments(segments []domain.Segment) string {
	ordered := make([]domain.Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	parts := make([]string, 0, len(ordered))
	for _, seg := range ordered {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
