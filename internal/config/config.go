package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	LLM      LLMConfig      `toml:"llm"`
	MySQL    MySQLConfig    `toml:"mysql"`
	Redis    RedisConfig    `toml:"redis"`
	Upload   UploadConfig   `toml:"upload"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LLMConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	EmbeddingModel string  `toml:"embedding_model"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	HistoryTTLSeconds int    `toml:"history_ttl_seconds"`
}

type UploadConfig struct {
	Dir       string `toml:"dir"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// PipelineConfig consolidates the ingestion and answering constants into one
// tunable set.
type PipelineConfig struct {
	ChunkSize             int `toml:"chunk_size"`
	ChunkOverlap          int `toml:"chunk_overlap"`
	MinKeywordHits        int `toml:"min_keyword_hits"`
	TopK                  int `toml:"top_k"`
	ExtractPrefixChars    int `toml:"extract_prefix_chars"`
	HistoryMaxMessages    int `toml:"history_max_messages"`
	SessionIdleTTLMinutes int `toml:"session_idle_ttl_minutes"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "turbot",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8000,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			BaseURL:        "https://models.inference.ai.azure.com",
			APIKey:         "",
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-large",
			Temperature:    0.3,
			MaxTokens:      1500,
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "turbot",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:              "127.0.0.1:6379",
			Password:          "",
			DB:                0,
			HistoryTTLSeconds: 60,
		},
		Upload: UploadConfig{
			Dir:       "uploads",
			MaxSizeMB: 50,
		},
		Pipeline: PipelineConfig{
			ChunkSize:             1000,
			ChunkOverlap:          200,
			MinKeywordHits:        3,
			TopK:                  4,
			ExtractPrefixChars:    4000,
			HistoryMaxMessages:    6,
			SessionIdleTTLMinutes: 120,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.EmbeddingModel = getEnv("LLM_EMBEDDING_MODEL", cfg.LLM.EmbeddingModel)
	cfg.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.HistoryTTLSeconds = getEnvAsInt("REDIS_HISTORY_TTL_SECONDS", cfg.Redis.HistoryTTLSeconds)

	cfg.Upload.Dir = getEnv("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.MaxSizeMB = getEnvAsInt("UPLOAD_MAX_SIZE_MB", cfg.Upload.MaxSizeMB)

	cfg.Pipeline.ChunkSize = getEnvAsInt("PIPELINE_CHUNK_SIZE", cfg.Pipeline.ChunkSize)
	cfg.Pipeline.ChunkOverlap = getEnvAsInt("PIPELINE_CHUNK_OVERLAP", cfg.Pipeline.ChunkOverlap)
	cfg.Pipeline.MinKeywordHits = getEnvAsInt("PIPELINE_MIN_KEYWORD_HITS", cfg.Pipeline.MinKeywordHits)
	cfg.Pipeline.TopK = getEnvAsInt("PIPELINE_TOP_K", cfg.Pipeline.TopK)
	cfg.Pipeline.ExtractPrefixChars = getEnvAsInt("PIPELINE_EXTRACT_PREFIX_CHARS", cfg.Pipeline.ExtractPrefixChars)
	cfg.Pipeline.HistoryMaxMessages = getEnvAsInt("PIPELINE_HISTORY_MAX_MESSAGES", cfg.Pipeline.HistoryMaxMessages)
	cfg.Pipeline.SessionIdleTTLMinutes = getEnvAsInt("PIPELINE_SESSION_IDLE_TTL_MINUTES", cfg.Pipeline.SessionIdleTTLMinutes)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
