package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"turbot/internal/ai"
	appsvc "turbot/internal/app"
	"turbot/internal/config"
	"turbot/internal/extract"
	"turbot/internal/index"
	"turbot/internal/model"
	mysqlClient "turbot/internal/platform/mysql"
	redisClient "turbot/internal/platform/redis"
	"turbot/internal/repository"
	"turbot/internal/session"
)

// App wires the service together. Unlike a fail-fast setup, missing backing
// services leave their field nil and the app starts anyway; every consumer
// degrades around the gap.
type App struct {
	Config   *config.Config
	MySQL    *gorm.DB      // nil when the database is unavailable
	Redis    *redis.Client // nil when redis is unavailable
	LLMReady bool

	Sessions *session.Manager
	Indexer  *index.Indexer
	Ingest   *appsvc.IngestService
	Answers  *appsvc.AnswerService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}

	mysqlDB, err := mysqlClient.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Printf("bootstrap: mysql unavailable, continuing without persistence: %v", err)
		mysqlDB = nil
	} else if err := mysqlDB.AutoMigrate(&model.TravelPackage{}, &model.IndexChunk{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("bootstrap: redis unavailable, continuing without transcript cache: %v", err)
		redisCli = nil
	}

	llmReady := cfg.LLM.APIKey != ""
	var client *ai.OpenAICompatibleClient
	if llmReady {
		client = ai.NewOpenAICompatibleClient()
	} else {
		log.Printf("bootstrap: no llm api key configured, answering in keyword fallback mode")
	}

	chatCfg := ai.ChatConfig{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
	embCfg := ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	}

	var packageRepo *repository.PackageRepository
	var chunkRepo *repository.IndexChunkRepository
	if mysqlDB != nil {
		packageRepo = repository.NewPackageRepository(mysqlDB)
		chunkRepo = repository.NewIndexChunkRepository(mysqlDB)
	}

	var embedder index.Embedder
	if client != nil {
		embedder = client
	}
	indexer := index.NewIndexer(chunkRepo, embedder, embCfg, cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)

	var cache *session.HistoryCache
	if redisCli != nil {
		cache = session.NewHistoryCache(redisCli, time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second)
	}
	sessions := session.NewManager(time.Duration(cfg.Pipeline.SessionIdleTTLMinutes)*time.Minute, cache)

	var completer appsvc.Completer
	var extractCompleter extract.Completer
	if client != nil {
		completer = client
		extractCompleter = client
	}
	extractor := extract.New(extractCompleter, chatCfg, cfg.Pipeline.ExtractPrefixChars)

	ingest := appsvc.NewIngestService(
		packageRepo,
		indexer,
		extractor,
		completer,
		chatCfg,
		cfg.Upload.Dir,
		cfg.Pipeline.MinKeywordHits,
	)
	answers := appsvc.NewAnswerService(completer, indexer, chatCfg, cfg.Pipeline.TopK)

	return &App{
		Config:    cfg,
		MySQL:     mysqlDB,
		Redis:     redisCli,
		LLMReady:  llmReady,
		Sessions:  sessions,
		Indexer:   indexer,
		Ingest:    ingest,
		Answers:   answers,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
