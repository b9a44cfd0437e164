package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/videoai/internal/application"
	appanalysis "github.com/bryanwahyu/videoai/internal/application/analysis"
	"github.com/bryanwahyu/videoai/internal/application/artifacts"
	"github.com/bryanwahyu/videoai/internal/application/auth"
	apptranscripts "github.com/bryanwahyu/videoai/internal/application/transcripts"
	"github.com/bryanwahyu/videoai/internal/config"
	"github.com/bryanwahyu/videoai/internal/domain/ai"
	"github.com/bryanwahyu/videoai/internal/domain/analysis"
	"github.com/bryanwahyu/videoai/internal/domain/transcripts"
	"github.com/bryanwahyu/videoai/internal/domain/users"
	aiopenai "github.com/bryanwahyu/videoai/internal/infra/ai/openai"
	"github.com/bryanwahyu/videoai/internal/infra/db/mysql"
	"github.com/bryanwahyu/videoai/internal/infra/db/postgres"
	"github.com/bryanwahyu/videoai/internal/infra/db/sqlite"
	"github.com/bryanwahyu/videoai/internal/infra/executor/ytdlp"
	"github.com/bryanwahyu/videoai/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/videoai/internal/infra/storage"
	"github.com/bryanwahyu/videoai/internal/infra/youtube"
	"github.com/bryanwahyu/videoai/internal/middleware"
)

func main() {
	// .env opsional
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Str("path", path).Msg("config load error")
	}
	log := newLogger(cfg)

	ctx := context.Background()

	db, analysesRepo, usersRepo, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database connect error")
	}
	defer db.Close()

	checks := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}

	// init minio (opsional, untuk arsip audio)
	var archive transcripts.AudioArchive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			log.With().Str("component", "storage").Logger(),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio init error")
		}
		archive = store
		checks["storage"] = store
	}

	// provider client hanya dibuat kalau ada API key; interface tetap nil kalau tidak
	var (
		textModel ai.TextModel
		speech    ai.SpeechToText
	)
	if cfg.OpenAI.APIKey != "" {
		client := aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.OpenAI.SpeechModel)
		textModel, speech = client, client
		log.Info().Str("model", client.Model).Msg("openai client configured")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set: using offline artifacts, speech-to-text disabled")
	}
	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("JWT_SECRET not set: using the default signing secret")
	}

	transcriptSvc := &apptranscripts.Service{
		Captions:   youtube.NewCaptionClient(cfg.Transcript.HTTPTimeout),
		Audio:      ytdlp.NewRunner(cfg.Transcript.YtDlpPath, log.With().Str("component", "yt-dlp").Logger()),
		Speech:     speech,
		Archive:    archive,
		Language:   cfg.Transcript.Language,
		TempDir:    cfg.Transcript.TempDir,
		OnFallback: middleware.IncrementFallbacks,
		Log:        log.With().Str("component", "transcripts").Logger(),
	}

	clock := application.SystemClock{}
	analysisSvc := &appanalysis.Service{
		Repo:        analysesRepo,
		Transcripts: transcriptSvc,
		Generator:   artifacts.New(textModel, cfg.Transcript.ChunkSize, log.With().Str("component", "artifacts").Logger()),
		Clock:       clock,
		Log:         log.With().Str("component", "analysis").Logger(),
	}
	authSvc := &auth.Service{
		Users:    usersRepo,
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
		Clock:    clock,
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.PerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}

	// init router
	handler := httpserver.NewRouter(analysisSvc, authSvc, httpserver.Options{
		Log:         log,
		StaticDir:   cfg.Server.StaticDir,
		RateLimiter: limiter,
		Checks:      checks,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	go func() {
		log.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Log.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// openDatabase connects to the configured driver and returns its repositories.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, analysis.Repository, users.Repository, error) {
	var (
		db      *sql.DB
		migrate func(context.Context, *sql.DB) error
		err     error
	)
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err = mysql.Connect(ctx, cfg.MySQLDSN())
		migrate = mysql.Migrate
	case config.DriverPostgres:
		db, err = postgres.Connect(ctx, cfg.PostgresDSN())
		migrate = postgres.Migrate
	default:
		db, err = sqlite.Connect(ctx, cfg.Database.Path)
		migrate = sqlite.Migrate
	}
	if err != nil {
		return nil, nil, nil, err
	}

	// sqlite file lokal selalu dimigrasi, driver lain hanya kalau autoMigrate
	if cfg.Database.AutoMigrate || cfg.Database.Driver == config.DriverSQLite {
		if err := migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
	}

	switch cfg.Database.Driver {
	case config.DriverMySQL:
		return db, mysql.NewAnalysisRepository(db), mysql.NewUserRepository(db), nil
	case config.DriverPostgres:
		return db, postgres.NewAnalysisRepository(db), postgres.NewUserRepository(db), nil
	default:
		return db, sqlite.NewAnalysisRepository(db), sqlite.NewUserRepository(db), nil
	}
}
