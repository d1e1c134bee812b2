package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/export"
	"docgen-backend/internal/generate"
	"docgen-backend/internal/ingest"
	"docgen-backend/internal/llm"
	openai "docgen-backend/internal/llm/openai"
	"docgen-backend/internal/queue"
	"docgen-backend/internal/retrieval"
	"docgen-backend/internal/review"
	"docgen-backend/internal/server"
	"docgen-backend/internal/shared/config"
	"docgen-backend/internal/shared/storage/db"
	"docgen-backend/internal/shared/storage/object"
	localstore "docgen-backend/internal/shared/storage/object/local"
	s3store "docgen-backend/internal/shared/storage/object/s3"
	"docgen-backend/internal/style"
	"docgen-backend/internal/uploads"
)

// App holds the wired application dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Queue     queue.Client
	Retrieval retrieval.Store
	LLM       llm.Client

	DocumentsRepo documents.Repo
	ChunksRepo    documents.ChunksRepo

	DocumentsService *documents.Service
	IngestService    *ingest.Service
	StyleBuilder     *style.Builder
	ReviewService    *review.Service
	ExportService    *export.Service
	GenerateWorkflow *generate.Workflow

	DocumentsHandler *documents.Handler
	ReviewHandler    *review.Handler
	GenerateHandler  *generate.Handler
	ExportHandler    *export.Handler
	UploadsHandler   *uploads.Handler
}

// Build prepares all dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Queue:     queueClient,
		Retrieval: buildRetrieval(cfg),
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DB:               app.DB,
		Retrieval:        app.Retrieval,
		DocumentsHandler: app.DocumentsHandler,
		ReviewHandler:    app.ReviewHandler,
		GenerateHandler:  app.GenerateHandler,
		ExportHandler:    app.ExportHandler,
		UploadsHandler:   app.UploadsHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
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
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, "")
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.IndexQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.IndexQueueURL)
}

func buildRetrieval(cfg config.Config) retrieval.Store {
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		return retrieval.NewMeili(cfg.MeiliURL, cfg.MeiliAPIKey)
	}
	log.Printf("bootstrap: MEILI_URL empty; using in-memory retrieval")
	return retrieval.NewMemoryStore()
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "openai" && strings.TrimSpace(cfg.OpenAIKey) != "" {
		return openai.NewClient(cfg.OpenAIKey, cfg.LLMModel)
	}
	log.Printf("bootstrap: no LLM credentials; using mock client")
	return llm.MockClient{}, nil
}

func buildServices(app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.ChunksRepo = &documents.PGChunksRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.ChunksRepo = documents.NewMemoryChunksRepo()
	}

	client, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	app.LLM = client

	app.DocumentsService = documents.NewService(app.DocumentsRepo)
	app.IngestService = ingest.NewService(app.DocumentsRepo, app.ChunksRepo, app.Retrieval, cfg.ChunkSize, cfg.ChunkOverlap)
	if app.Queue != nil {
		app.IngestService.Scheduler = queue.NewScheduler(app.Queue)
	}

	app.StyleBuilder = style.NewBuilder(app.DocumentsRepo)
	app.ReviewService = review.NewService(app.LLM)
	app.ExportService = export.NewService(app.DocumentsService)
	app.GenerateWorkflow = generate.NewWorkflow(app.LLM, app.StyleBuilder, app.Retrieval, app.ReviewService, app.IngestService, cfg.MinFeedbackScore)
	if cfg.MaxIterations > 0 {
		app.GenerateWorkflow.MaxIterations = cfg.MaxIterations
	}
	if cfg.QualityThreshold > 0 {
		app.GenerateWorkflow.QualityThreshold = cfg.QualityThreshold
	}

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.ReviewHandler = review.NewHandler(app.ReviewService, app.DocumentsService)
	app.GenerateHandler = generate.NewHandler(app.GenerateWorkflow)
	app.ExportHandler = export.NewHandler(app.ExportService)
	app.UploadsHandler = uploads.NewHandler(app.IngestService, app.Store, cfg.MaxUploadBytes, cfg.AllowedExtensions)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

type configError string

func (e configError) Error() string { return string(e) }

const errDatabaseRequired = configError("DATABASE_URL is required")
