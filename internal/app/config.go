package app

import (
	"github.com/yungbote/neurobridge-backend/internal/memory/bucketindex"
	"github.com/yungbote/neurobridge-backend/internal/memory/rerank"
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
)

// Config is the process-wide, env-derived configuration.
type Config struct {
	Port         string
	LogMode      string
	DatabaseURL  string
	EmbeddingDim int
	SearchTopK   int
	Rerank       rerank.Params
	Search       bucketindex.Config
}

// LoadConfig reads the environment documented in SPEC_FULL.md §6.
func LoadConfig() Config {
	topK := envutil.Int("SEARCH_TOP_K", 10)
	search := bucketindex.DefaultConfig(topK)
	return Config{
		Port:         envutil.String("PORT", "8080"),
		LogMode:      envutil.String("LOG_MODE", "development"),
		DatabaseURL:  envutil.String("DATABASE_URL", ""),
		EmbeddingDim: envutil.Int("EMBEDDING_DIM", 1536),
		SearchTopK:   topK,
		Rerank:       rerank.DefaultParams(),
		Search:       search,
	}
}
