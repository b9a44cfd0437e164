package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/bryanwahyu/videoai/internal/domain/transcripts"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	maxPageBytes   = 8 << 20
	maxTrackBytes  = 4 << 20
)

var (
	ErrTooManyRequests     = errors.New("youtube is rate limiting requests (captcha)")
	ErrVideoUnavailable    = errors.New("video unavailable")
	ErrNoTranscriptForLang = errors.New("no caption track for requested language")
)

// CaptionClient reads caption tracks from the public watch page.
type CaptionClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewCaptionClient(timeout time.Duration) *CaptionClient {
	return &CaptionClient{HTTP: &http.Client{Timeout: timeout}, BaseURL: defaultBaseURL}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type captionsJSON struct {
	Renderer *struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// FetchCaptions returns the caption segments of videoID in language.
func (c *CaptionClient) FetchCaptions(ctx context.Context, videoID, language string) ([]domain.Segment, error) {
	page, err := c.get(ctx, c.watchURL(videoID), maxPageBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return nil, err
	}
	track, ok := pickTrack(tracks, language)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscriptForLang, language)
	}

	body, err := c.get(ctx, c.resolve(track.BaseURL), maxTrackBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track: %w", err)
	}
	return ParseTimedText(body)
}

func (c *CaptionClient) watchURL(videoID string) string {
	return fmt.Sprintf("%s/watch?v=%s", c.base(), url.QueryEscape(videoID))
}

func (c *CaptionClient) base() string {
	if c.BaseURL == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

// resolve makes relative track URLs absolute against the base URL.
func (c *CaptionClient) resolve(raw string) string {
	if strings.HasPrefix(raw, "/") {
		return c.base() + raw
	}
	return raw
}

func (c *CaptionClient) get(ctx context.Context, u string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// parseCaptionTracks reads the "captions" object embedded in the watch page.
// A playable page without captions means captions are disabled.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	if err := checkPlayability(page); err != nil {
		return nil, err
	}

	idx := bytes.Index(page, []byte(`"captions":`))
	if idx < 0 {
		switch {
		case bytes.Contains(page, []byte(`class="g-recaptcha"`)):
			return nil, ErrTooManyRequests
		case !bytes.Contains(page, []byte(`"playabilityStatus":`)):
			return nil, ErrVideoUnavailable
		default:
			return nil, domain.ErrCaptionsDisabled
		}
	}

	raw, ok := extractObject(page[idx+len(`"captions":`):])
	if !ok {
		return nil, fmt.Errorf("malformed captions data")
	}
	var data captionsJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode captions data: %w", err)
	}
	if data.Renderer == nil || len(data.Renderer.CaptionTracks) == 0 {
		return nil, domain.ErrCaptionsDisabled
	}
	return data.Renderer.CaptionTracks, nil
}

type playability struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// checkPlayability rejects pages for private, removed or restricted videos
// (status ERROR, LOGIN_REQUIRED, UNPLAYABLE, ...). Those pages carry no captions
// either, but no audio can be fetched for them.
func checkPlayability(page []byte) error {
	const key = `"playabilityStatus":`
	idx := bytes.Index(page, []byte(key))
	if idx < 0 {
		return nil
	}
	raw, ok := extractObject(page[idx+len(key):])
	if !ok {
		return nil
	}
	var ps playability
	if err := json.Unmarshal(raw, &ps); err != nil || ps.Status == "" || ps.Status == "OK" {
		return nil
	}
	if ps.Reason == "" {
		return fmt.Errorf("%w: status %s", ErrVideoUnavailable, ps.Status)
	}
	return fmt.Errorf("%w: status %s: %s", ErrVideoUnavailable, ps.Status, ps.Reason)
}

// pickTrack prefers a manually created track over auto-generated (asr) captions.
func pickTrack(tracks []captionTrack, language string) (captionTrack, bool) {
	var generated *captionTrack
	for i := range tracks {
		t := tracks[i]
		if !strings.EqualFold(t.LanguageCode, language) {
			continue
		}
		if t.Kind != "asr" {
			return t, true
		}
		if generated == nil {
			generated = &tracks[i]
		}
	}
	if generated != nil {
		return *generated, true
	}
	return captionTrack{}, false
}

// extractObject returns the balanced JSON object at the start of b (after spaces).
func extractObject(b []byte) ([]byte, bool) {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	depth := 0
	inString, escaped := false, false
	for i, ch := range b {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1], true
			}
		}
	}
	return nil, false
}
