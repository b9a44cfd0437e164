package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalysis "github.com/bryanwahyu/videoai/internal/application/analysis"
	"github.com/bryanwahyu/videoai/internal/application/artifacts"
	"github.com/bryanwahyu/videoai/internal/application/auth"
	apptranscripts "github.com/bryanwahyu/videoai/internal/application/transcripts"
	"github.com/bryanwahyu/videoai/internal/domain/transcripts"
	"github.com/bryanwahyu/videoai/internal/infra/db/sqlite"
	"github.com/bryanwahyu/videoai/internal/middleware"
)

// captionsByID serves fixed captions; unknown ids have captions disabled.
type captionsByID map[string][]transcripts.Segment

func (c captionsByID) FetchCaptions(_ context.Context, videoID, _ string) ([]transcripts.Segment, error) {
	segs, ok := c[videoID]
	if !ok {
		return nil, transcripts.ErrCaptionsDisabled
	}
	return segs, nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	authSvc *auth.Service
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Connect(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	authSvc := &auth.Service{
		Users:    sqlite.NewUserRepository(db),
		Secret:   []byte("test-secret"),
		HashCost: bcrypt.MinCost,
	}
	analyses := &appanalysis.Service{
		Repo: sqlite.NewAnalysisRepository(db),
		Transcripts: &apptranscripts.Service{
			Captions: captionsByID{
				"abc123": {{Text: "Cells are the basic unit of life.", Start: 0}, {Text: "They divide.", Start: 2}},
			},
			Log: zerolog.Nop(),
		},
		Generator: artifacts.New(nil, 0, zerolog.Nop()),
		Log:       zerolog.Nop(),
	}
	if opts.Checks == nil {
		opts.Checks = map[string]middleware.HealthChecker{"database": &middleware.DatabaseHealthChecker{DB: db}}
	}
	opts.Log = zerolog.Nop()
	return &testServer{t: t, handler: NewRouter(analyses, authSvc, opts), authSvc: authSvc}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// signup registers an account and returns its access token.
func (s *testServer) signup(email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": email, "password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var tok auth.Token
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.Equal(s.t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Detail
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := s.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ada@example.com", created["email"])
	assert.NotZero(t, created["id"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", detail(t, rec))

	rec = s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", detail(t, rec))

	rec = s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", detail(t, rec))
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"name": "Ada", "email": "not-an-email", "password": "secret123"}},
		{"short password", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "abc"}},
		{"blank name", map[string]string{"name": "  ", "email": "ada@example.com", "password": "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, detail(t, rec))
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", detail(t, rec))
}

func TestAnalyzeListAndGet(t *testing.T) {
	s := newTestServer(t, Options{})
	token := s.signup("ada@example.com")

	rec := s.do(http.MethodPost, "/api/analyze", token, map[string]string{
		"youtube_url": "https://youtu.be/abc123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "YouTube Video abc123", got["title"])
	assert.Equal(t, "https://youtu.be/abc123", got["youtube_url"])
	assert.Equal(t, "Cells are the basic unit of life. They divide.", got["transcript"])
	assert.NotEmpty(t, got["summary"])
	assert.IsType(t, map[string]any{}, got["mind_map"])
	assert.NotContains(t, got, "owner_id")
	id := strconv.FormatFloat(got["id"].(float64), 'f', -1, 64)

	rec = s.do(http.MethodGet, "/api/videos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, got["id"], list[0]["id"])

	rec = s.do(http.MethodGet, "/api/videos/"+id, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// another account cannot see it
	other := s.signup("grace@example.com")
	rec = s.do(http.MethodGet, "/api/videos/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", detail(t, rec))

	rec = s.do(http.MethodGet, "/api/videos", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/videos/not-a-number", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeTranscriptErrors(t *testing.T) {
	s := newTestServer(t, Options{})
	token := s.signup("ada@example.com")

	tests := []struct {
		name   string
		url    string
		prefix string
	}{
		{"not youtube", "https://vimeo.com/12345", "Transcript error: invalid YouTube URL"},
		{"no scheme", "youtu.be/abc123", "Transcript error: invalid YouTube URL"},
		{"captions disabled without speech provider", "https://youtu.be/silent", "Transcript error: " + transcripts.ErrTranscriptUnavailable.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/analyze", token, map[string]string{"youtube_url": tt.url})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, detail(t, rec), tt.prefix)
		})
	}

	rec := s.do(http.MethodGet, "/api/videos", token, nil)
	assert.JSONEq(t, `[]`, rec.Body.String(), "failed analyses are not stored")
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := s.do(http.MethodGet, "/api/videos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/videos", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", detail(t, rec))

	expired, err := (&auth.Service{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Minute,
		Clock:    fixedClock(time.Now().Add(-time.Hour)),
	}).IssueToken(1)
	require.NoError(t, err)
	rec = s.do(http.MethodGet, "/api/videos", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", detail(t, rec))

	ghost, err := s.authSvc.IssueToken(999)
	require.NoError(t, err)
	rec = s.do(http.MethodGet, "/api/videos", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", detail(t, rec))
}

func TestAPIRateLimited(t *testing.T) {
	s := newTestServer(t, Options{RateLimiter: middleware.NewRateLimiter(1, 1)})
	token := s.signup("ada@example.com")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/videos", token, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodGet, "/api/videos", token, nil).Code)
}

func TestOperationalEndpoints(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>videoai</h1>"), 0o644))
	s := newTestServer(t, Options{StaticDir: dir})

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"checks":{"database":"ok"}`)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, "ok", s.do(http.MethodGet, "/live", "", nil).Body.String())
	assert.Contains(t, s.do(http.MethodGet, "/metrics", "", nil).Body.String(), "analyses_total")

	rec = s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "videoai")
}

func TestHealthReportsFailingCheck(t *testing.T) {
	s := newTestServer(t, Options{Checks: map[string]middleware.HealthChecker{
		"storage": middleware.CheckFunc(func(context.Context) error { return assert.AnError }),
	}})

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }
