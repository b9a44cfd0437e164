package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/videoai/internal/application/auth"
	domai "github.com/bryanwahyu/videoai/internal/domain/ai"
	"github.com/bryanwahyu/videoai/internal/domain/analysis"
	"github.com/bryanwahyu/videoai/internal/domain/transcripts"
	"github.com/bryanwahyu/videoai/internal/domain/users"
	"github.com/bryanwahyu/videoai/internal/middleware"
)

// AnalysisService is the analysis use-case surface used by the handlers.
type AnalysisService interface {
	Analyze(ctx context.Context, ownerID int64, url string) (*analysis.Analysis, error)
	List(ctx context.Context, ownerID int64) ([]*analysis.Analysis, error)
	Get(ctx context.Context, ownerID, id int64) (*analysis.Analysis, error)
}

// AuthService handles accounts and bearer tokens.
type AuthService interface {
	Signup(ctx context.Context, cmd auth.SignupCommand) (*users.User, error)
	Login(ctx context.Context, email, password string) (auth.Token, error)
	Authenticate(ctx context.Context, token string) (*users.User, error)
}

type Options struct {
	Log zerolog.Logger
	// StaticDir, when set, is served at / for the frontend.
	StaticDir string
	// RateLimiter guards /api; nil disables limiting.
	RateLimiter *middleware.RateLimiter
	Checks      map[string]middleware.HealthChecker
}

type Router struct {
	analyses AnalysisService
	auth     AuthService
}

func NewRouter(analyses AnalysisService, authSvc AuthService, opts Options) http.Handler {
	r := &Router{analyses: analyses, auth: authSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RequestLogger(opts.Log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(opts.Checks))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/auth", func(rt chi.Router) {
		rt.Post("/signup", r.wrap(r.handleSignup))
		rt.Post("/login", r.wrap(r.handleLogin))
	})

	mux.Route("/api", func(rt chi.Router) {
		rt.Use(middleware.BearerAuth(authSvc, auth.ErrInvalidToken, auth.ErrUserNotFound))
		if opts.RateLimiter != nil {
			rt.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
		}
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/videos", r.wrap(r.handleList))
		rt.Get("/videos/{id}", r.wrap(r.handleGet))
	})

	if opts.StaticDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return mux
}

// httpError carries a status and client-facing detail out of a handler.
type httpError struct {
	status int
	detail string
}

func (e *httpError) Error() string { return e.detail }

func badRequest(detail string) error {
	return &httpError{status: http.StatusBadRequest, detail: detail}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var he *httpError
		switch {
		case errors.As(err, &he):
			writeError(w, he.status, he.detail)
		case transcripts.IsAcquisitionFailure(err):
			writeError(w, http.StatusBadRequest, "Transcript error: "+err.Error())
		case errors.Is(err, analysis.ErrNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, auth.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, "Invalid token")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			zerolog.Ctx(req.Context()).Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

// POST /auth/signup
// Body: {"name": "...", "email": "...", "password": "..."}
func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	body.Name = middleware.SanitizeString(body.Name)
	if err := middleware.ValidateName(body.Name); err != nil {
		return badRequest(err.Error())
	}
	if err := middleware.ValidateEmail(body.Email); err != nil {
		return badRequest(err.Error())
	}
	if err := middleware.ValidatePassword(body.Password); err != nil {
		return badRequest(err.Error())
	}

	u, err := r.auth.Signup(req.Context(), auth.SignupCommand{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "email": u.Email})
}

// POST /auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	tok, err := r.auth.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, tok)
}

// POST /api/analyze
// Body: {"youtube_url": "<url>"}
// Fetches the transcript and derives summary, key points, mind map and notes.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	user, _ := middleware.UserFromContext(req.Context())
	var body struct {
		YouTubeURL string `json:"youtube_url"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	url := strings.TrimSpace(body.YouTubeURL)
	if err := middleware.ValidateURL(url); err != nil {
		return fmt.Errorf("%w: %v", transcripts.ErrInvalidURL, err)
	}

	done := middleware.TrackAnalysis()
	a, err := r.analyses.Analyze(req.Context(), user.ID, url)
	done(err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /api/videos
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	user, _ := middleware.UserFromContext(req.Context())
	list, err := r.analyses.List(req.Context(), user.ID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*analysis.Analysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/videos/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	user, _ := middleware.UserFromContext(req.Context())
	id, err := middleware.ParseID(chi.URLParam(req, "id"))
	if err != nil {
		// id yang bukan angka diperlakukan sama seperti tidak ada
		return analysis.ErrNotFound
	}
	a, err := r.analyses.Get(req.Context(), user.ID, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

func decodeJSON(req *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, req.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
