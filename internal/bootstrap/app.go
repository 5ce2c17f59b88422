package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/analyses"
	"careerhub-backend/internal/applications"
	"careerhub-backend/internal/extract"
	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/matching"
	"careerhub-backend/internal/notifications"
	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/report"
	"careerhub-backend/internal/scoring"
	"careerhub-backend/internal/services/health"
	"careerhub-backend/internal/shared/config"
	"careerhub-backend/internal/shared/lock"
	"careerhub-backend/internal/shared/server"
	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/storage/db"
	"careerhub-backend/internal/shared/storage/object"
	localstore "careerhub-backend/internal/shared/storage/object/local"
	s3store "careerhub-backend/internal/shared/storage/object/s3"
	"careerhub-backend/internal/users"
)

// lockSlack keeps a distributed analysis lock alive past the scorer timeout.
const lockSlack = 30 * time.Second

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ProfilesRepo     profiles.Repo
	JobsRepo         jobs.Repo
	ApplicationsRepo applications.Repo
	UsersRepo        users.Repo
	Inbox            notifications.Store

	Scorer   scoring.Scorer
	Guard    lock.Guard
	Notifier *notifications.Fanout
	Matcher  matching.Matcher

	ProfilesService     *profiles.Service
	AnalysesService     *analyses.Service
	JobsService         *jobs.Service
	MatchingService     *matching.Service
	ApplicationsService *applications.Service
	UsersService        *users.Service

	closers []io.Closer
}

// Options tweaks Build for callers that do not serve HTTP.
type Options struct {
	// CLI uses the smaller connection pool and skips the router.
	CLI bool
}

// Build prepares shared dependencies and wires the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	return BuildWith(ctx, cfg, Options{})
}

// BuildWith is Build with explicit options.
func BuildWith(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	if err := buildCollaborators(ctx, app); err != nil {
		app.Close()
		return nil, err
	}
	buildServices(app)

	if !opts.CLI {
		app.Router = buildRouter(app)
	}
	return app, nil
}

// Wait blocks until background extraction and analysis work has finished.
func (a *App) Wait() {
	if a.ProfilesService != nil {
		a.ProfilesService.Wait()
	}
	if a.AnalysesService != nil {
		a.AnalysesService.Wait()
	}
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	defaults := db.DefaultServerOptions()
	if opts.CLI {
		defaults = db.DefaultCLIOptions()
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(defaults))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildCollaborators(ctx context.Context, app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.ProfilesRepo = &profiles.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.Inbox = &notifications.PGStore{DB: app.DB}
	} else {
		app.ProfilesRepo = profiles.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.Inbox = notifications.NewMemoryStore()
	}

	scorer, err := buildScorer(ctx, cfg)
	if err != nil {
		return err
	}
	app.Scorer = scorer
	if c, ok := scorer.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	guard, err := buildGuard(ctx, cfg)
	if err != nil {
		return err
	}
	app.Guard = guard
	if c, ok := guard.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	broker, err := buildBroker(ctx, cfg)
	if err != nil {
		return err
	}
	app.Notifier = &notifications.Fanout{Inbox: app.Inbox}
	if broker != nil {
		app.Notifier.Broker = broker
	}
	app.closers = append(app.closers, app.Notifier)

	if strings.TrimSpace(cfg.MatcherURL) != "" {
		app.Matcher = matching.NewHTTPMatcher(cfg.MatcherURL, cfg.MatcherTimeout)
	} else {
		app.Matcher = matching.TFIDFMatcher{}
	}
	return nil
}

func buildScorer(ctx context.Context, cfg config.Config) (scoring.Scorer, error) {
	switch cfg.ScorerType {
	case "none":
		return scoring.Placeholder{}, nil
	case "http":
		return scoring.NewHTTPScorer(cfg.ScorerURL, cfg.ScorerTimeout)
	case "gemini":
		return scoring.NewGeminiScorer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return scoring.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ScorerTimeout)
	default:
		return scoring.NewExecScorer(cfg.ScorerCommand, cfg.ScorerTimeout)
	}
}

func buildGuard(ctx context.Context, cfg config.Config) (lock.Guard, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return lock.NewMemory(), nil
	}
	return lock.NewRedis(ctx, cfg.RedisURL, cfg.ScorerTimeout+lockSlack)
}

// buildBroker returns nil for the memory notifier so Fanout only writes the inbox.
func buildBroker(ctx context.Context, cfg config.Config) (notifications.Publisher, error) {
	switch cfg.NotifierType {
	case "sqs":
		if strings.TrimSpace(cfg.NotifySQSQueueURL) == "" {
			return nil, fmt.Errorf("NOTIFIER=sqs requires NOTIFY_SQS_QUEUE_URL")
		}
		return notifications.NewSQSPublisher(ctx, cfg.NotifySQSQueueURL, cfg.AWSRegion)
	case "amqp":
		return notifications.NewAMQPPublisher(cfg.RabbitMQURL, cfg.NotifyQueue)
	default:
		return nil, nil
	}
}

func buildServices(app *App) {
	cfg := app.Config

	app.ProfilesService = &profiles.Service{
		Repo:          app.ProfilesRepo,
		Store:         app.Store,
		Extractor:     extract.NewPDFExtractor(app.Store),
		PublicBaseURL: cfg.PublicBaseURL,
		ExtractWait:   cfg.ExtractWait,
	}
	app.AnalysesService = &analyses.Service{
		Resumes:  app.ProfilesService,
		Scorer:   app.Scorer,
		Guard:    app.Guard,
		Notifier: app.Notifier,
		Timeout:  cfg.ScorerTimeout,
	}

	var remote jobs.Searcher
	if strings.TrimSpace(cfg.JobSearchURL) != "" {
		remote = jobs.NewRemoteSearch(cfg.JobSearchURL, cfg.JobSearchTimeout)
	}
	app.JobsService = &jobs.Service{Repo: app.JobsRepo, Remote: remote}
	app.MatchingService = &matching.Service{
		Jobs:    app.JobsService,
		Resumes: app.ProfilesService,
		Matcher: app.Matcher,
	}
	app.ApplicationsService = &applications.Service{
		Repo:     app.ApplicationsRepo,
		Jobs:     app.JobsService,
		Owners:   app.ProfilesService,
		Notifier: app.Notifier,
	}
	app.UsersService = &users.Service{
		Repo:       app.UsersRepo,
		Profiles:   app.ProfilesService,
		BcryptCost: cfg.BcryptCost,
	}
}

func buildRouter(app *App) *gin.Engine {
	inFlight := app.AnalysesService.InFlight

	profileHandler := profiles.NewHandler(app.ProfilesService)
	profileHandler.MaxUploadBytes = app.Config.MaxUploadBytes
	profileHandler.InFlight = inFlight

	userHandler := users.NewHandler(app.UsersService)
	userHandler.InFlight = inFlight

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}

	return server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		Health:              health.NewService(pinger),
		UserHandler:         userHandler,
		ProfileHandler:      profileHandler,
		AnalysisHandler:     analyses.NewHandler(app.AnalysesService),
		ReportHandler:       report.NewHandler(app.ProfilesService),
		JobHandler:          jobs.NewHandler(app.JobsService),
		MatchingHandler:     matching.NewHandler(app.MatchingService),
		ApplicationHandler:  applications.NewHandler(app.ApplicationsService),
		NotificationHandler: notifications.NewHandler(app.Inbox),
		RateLimiter:         middleware.NewRateLimiter(time.Now),
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
