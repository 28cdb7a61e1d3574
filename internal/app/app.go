// Package app wires the memory service: config, DB, the embedding
// gateway, the three bucket indexes, the reranker, the insertion writer,
// the router, both graphs, and the HTTP surface — grounded on the
// teacher's App{Log,DB,Router}-plus-New() bootstrap shape.
package app

import (
	"fmt"

	"gorm.io/gorm"

	httpserver "github.com/yungbote/neurobridge-backend/internal/http"
	httpH "github.com/yungbote/neurobridge-backend/internal/http/handlers"
	"github.com/yungbote/neurobridge-backend/internal/classifier"
	"github.com/yungbote/neurobridge-backend/internal/memory/bucketindex"
	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/memory/embedding"
	"github.com/yungbote/neurobridge-backend/internal/memory/insertion"
	"github.com/yungbote/neurobridge-backend/internal/memory/offline"
	"github.com/yungbote/neurobridge-backend/internal/memory/online"
	"github.com/yungbote/neurobridge-backend/internal/memory/rerank"
	"github.com/yungbote/neurobridge-backend/internal/memory/router"
	"github.com/yungbote/neurobridge-backend/internal/memory/store"
	"github.com/yungbote/neurobridge-backend/internal/planner"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/openai"
	"github.com/yungbote/neurobridge-backend/internal/preprocessor"
)

// App is the wired process.
type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Server *httpserver.Server
	Cfg    Config
}

// New wires every component described in SPEC_FULL.md §4.
func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("app: init logger: %w", err)
	}

	db, err := connectPostgres(cfg.DatabaseURL, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Sync()
		return nil, fmt.Errorf("app: automigrate: %w", err)
	}

	oaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("app: init openai client: %w", err)
	}
	embedGateway := embedding.New(oaiClient, cfg.EmbeddingDim)

	stmRepo := store.NewShortTermRepo(db)
	ltmRepo := store.NewLongTermRepo(db)
	hcmRepo := store.NewHealthcareRepo(db)

	stmIndex := bucketindex.New[domain.ShortTermMemory](domain.BucketShortTerm, []string{"content"}, stmRepo.ListByElderly, log)
	ltmIndex := bucketindex.New[domain.LongTermMemory](domain.BucketLongTerm, []string{"category", "key", "value"}, ltmRepo.ListByElderly, log)
	hcmIndex := bucketindex.New[domain.HealthcareRecord](domain.BucketHealthcare, []string{"record_type", "description"}, hcmRepo.ListByElderly, log)

	reranker := rerank.New(embedGateway, log)
	writer := insertion.New(stmRepo, embedGateway)

	qaClassifier := classifier.NewQAClassifier()
	topicClassifier := classifier.NewTopicClassifier()
	rtr := router.New(qaClassifier, topicClassifier)

	offlineBuckets := offline.Buckets{LongTerm: ltmIndex, Healthcare: hcmIndex, ShortTerm: stmIndex}
	offlineGraph := offline.New(embedGateway, offlineBuckets, reranker, writer, cfg.Search, cfg.Rerank, log)

	onlineBuckets := online.Buckets{LongTerm: ltmIndex, Healthcare: hcmIndex, ShortTerm: stmIndex}
	pl := planner.NewOpenAIPlanner(oaiClient)
	onlineGraph := online.New(embedGateway, pl, onlineBuckets, reranker, writer, cfg.Search, cfg.Rerank, log)

	pp := preprocessor.New()
	invokeHandler := httpH.NewInvokeHandler(pp, rtr, offlineGraph, onlineGraph)
	healthHandler := httpH.NewHealthHandler(db, true, true)

	srv := httpserver.NewServer(httpserver.RouterConfig{
		Log:           log,
		HealthHandler: healthHandler,
		InvokeHandler: invokeHandler,
	})

	return &App{Log: log, DB: db, Server: srv, Cfg: cfg}, nil
}

// Run starts the HTTP server, blocking until it exits.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app: not initialized")
	}
	return a.Server.Run(":" + a.Cfg.Port)
}

// Close releases process-wide resources.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
