package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/analysis"
	"resume-screener/internal/extract"
	"resume-screener/internal/llm"
	"resume-screener/internal/llm/gemini"
	"resume-screener/internal/llm/openai"
	"resume-screener/internal/resumes"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/storage/object"
	localstore "resume-screener/internal/shared/storage/object/local"
	s3store "resume-screener/internal/shared/storage/object/s3"
	"resume-screener/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Archive       object.ObjectStore
	LLM           llm.Client
	Repo          resumes.Repo
	Analyzer      *analysis.Analyzer
	ResumeService *resumes.Service
	ResumeHandler *resumes.Handler
	Health        *health.Service
}

// Build prepares dependencies for cfg and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, driver, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Archive: archive,
		LLM:     llmClient,
		Repo:    buildRepo(sqlDB, driver),
		Health:  health.NewService(cfg.Version),
	}
	app.Analyzer = analysis.New(llmClient, analysis.Options{
		Credential: cfg.AnalysisAPIKey(),
		Timeout:    cfg.AnalysisTimeout,
	})
	app.ResumeService = &resumes.Service{
		Extractor: extract.New(),
		Analyzer:  app.Analyzer,
		Repo:      app.Repo,
		Archive:   archive,
	}
	app.ResumeHandler = resumes.NewHandler(app.ResumeService, cfg.MaxUploadBytes)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Health:        app.Health,
		ResumeHandler: app.ResumeHandler,
		RateLimiter:   middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"store_driver":  driver,
		"archive_store": cfg.ArchiveStore,
		"llm_provider":  cfg.LLMProvider,
		"llm_model":     cfg.LLMModel,
		"llm_enabled":   app.Analyzer.Enabled(),
	})
	return app, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// buildDB returns a nil handle and the memory driver when no database is configured.
// Dev-like environments fall back to memory when the database is unreachable.
func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, string, error) {
	var dsn string
	switch cfg.StoreDriver {
	case db.DriverPostgres:
		dsn = cfg.DatabaseURL
	case db.DriverSQLite:
		dsn = cfg.SQLitePath
	default:
		return nil, "memory", nil
	}

	sqlDB, err := db.Connect(ctx, cfg.StoreDriver, dsn, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB, cfg.StoreDriver)
		if err != nil {
			sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{
				"driver": cfg.StoreDriver,
				"error":  err,
			})
			return nil, "memory", nil
		}
		return nil, "", fmt.Errorf("init %s store: %w", cfg.StoreDriver, err)
	}
	return sqlDB, cfg.StoreDriver, nil
}

func buildRepo(sqlDB *sql.DB, driver string) resumes.Repo {
	switch {
	case sqlDB != nil && driver == db.DriverPostgres:
		return &resumes.PGRepo{DB: sqlDB}
	case sqlDB != nil && driver == db.DriverSQLite:
		return &resumes.SQLiteRepo{DB: sqlDB}
	default:
		return resumes.NewMemoryRepo()
	}
}

func buildArchive(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArchiveStore {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

// buildLLM returns nil without a usable credential; the analyzer then always falls back.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	key := cfg.AnalysisAPIKey()
	if !analysis.HasCredential(key) {
		telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": cfg.LLMProvider})
		return nil, nil
	}
	switch cfg.LLMProvider {
	case "gemini":
		return gemini.NewClient(ctx, key, cfg.LLMModel)
	default:
		return openai.NewClient(key, cfg.LLMModel)
	}
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB != nil {
		sqlDB.Close()
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
