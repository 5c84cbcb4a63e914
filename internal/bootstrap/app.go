package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"homefax-backend/internal/ai"
	aiopenai "homefax-backend/internal/ai/openai"
	"homefax-backend/internal/documents"
	"homefax-backend/internal/events"
	"homefax-backend/internal/items"
	"homefax-backend/internal/maintenance"
	"homefax-backend/internal/properties"
	"homefax-backend/internal/queue"
	"homefax-backend/internal/shared/config"
	"homefax-backend/internal/shared/server"
	"homefax-backend/internal/shared/storage/blob"
	localstore "homefax-backend/internal/shared/storage/blob/local"
	s3store "homefax-backend/internal/shared/storage/blob/s3"
	"homefax-backend/internal/shared/storage/db"
	"homefax-backend/internal/spaces"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  blob.Store
	Queue  queue.Client

	PropertiesRepo  properties.Repo
	SpacesRepo      spaces.Repo
	ItemsRepo       items.Repo
	EventsRepo      events.Repo
	DocumentsRepo   documents.Repo
	MaintenanceRepo maintenance.Repo

	PropertiesService  *properties.Service
	SpacesService      *spaces.Service
	ItemsService       *items.Service
	EventsService      *events.Service
	DocumentsService   *documents.Service
	MaintenanceService *maintenance.Service

	PropertiesHandler  *properties.Handler
	SpacesHandler      *spaces.Handler
	ItemsHandler       *items.Handler
	EventsHandler      *events.Handler
	DocumentsHandler   *documents.Handler
	MaintenanceHandler *maintenance.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.BlobStoreType) == "" {
		cfg.BlobStoreType = "local"
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
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		PropertiesHandler:  app.PropertiesHandler,
		SpacesHandler:      app.SpacesHandler,
		ItemsHandler:       app.ItemsHandler,
		EventsHandler:      app.EventsHandler,
		DocumentsHandler:   app.DocumentsHandler,
		MaintenanceHandler: app.MaintenanceHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
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

func buildStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.PropertiesRepo = &properties.PGRepo{DB: app.DB}
		app.SpacesRepo = &spaces.PGRepo{DB: app.DB}
		app.ItemsRepo = &items.PGRepo{DB: app.DB}
		app.EventsRepo = &events.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.MaintenanceRepo = &maintenance.PGRepo{DB: app.DB}
	} else {
		app.PropertiesRepo = properties.NewMemoryRepo()
		app.SpacesRepo = spaces.NewMemoryRepo()
		app.ItemsRepo = items.NewMemoryRepo()
		app.EventsRepo = events.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.MaintenanceRepo = maintenance.NewMemoryRepo()
	}

	extractor := ai.Extractor(ai.PlaceholderClient{})
	resolver := ai.Resolver(ai.PlaceholderClient{})
	planner := ai.Planner(ai.PlaceholderClient{})
	if app.Config.AIProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		client, err := aiopenai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.VisionModel, app.Config.ResolveModel)
		if err != nil {
			return err
		}
		extractor = client
		resolver = client
		planner = client
	}

	app.PropertiesService = &properties.Service{Repo: app.PropertiesRepo}
	app.SpacesService = &spaces.Service{
		Repo:       app.SpacesRepo,
		Properties: app.PropertiesService,
	}
	app.ItemsService = &items.Service{
		Repo:       app.ItemsRepo,
		Properties: app.PropertiesService,
	}
	app.EventsService = &events.Service{
		Repo:  app.EventsRepo,
		Items: app.ItemsService,
	}
	app.DocumentsService = &documents.Service{
		Repo:           app.DocumentsRepo,
		Store:          app.Store,
		Queue:          app.Queue,
		Extractor:      extractor,
		Resolver:       resolver,
		Properties:     app.PropertiesService,
		Items:          app.ItemsService,
		ItemsRepo:      app.ItemsRepo,
		Events:         app.EventsService,
		SignedURLTTL:   time.Duration(app.Config.SignedURLTTLSecs) * time.Second,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}
	app.MaintenanceService = &maintenance.Service{
		Repo:       app.MaintenanceRepo,
		Properties: app.PropertiesService,
		Events:     app.EventsService,
		Documents:  app.DocumentsService,
		Planner:    planner,
	}

	app.PropertiesHandler = properties.NewHandler(app.PropertiesService)
	app.SpacesHandler = spaces.NewHandler(app.SpacesService)
	app.ItemsHandler = items.NewHandler(app.ItemsService)
	app.EventsHandler = events.NewHandler(app.EventsService)
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.MaintenanceHandler = maintenance.NewHandler(app.MaintenanceService)

	return nil
}
