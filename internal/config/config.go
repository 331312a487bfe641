package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	UploadDir string `yaml:"upload_dir"`
	DataDir   string `yaml:"data_dir"`
}

type PipelineConfig struct {
	ChunkSize        int `yaml:"chunk_size"`
	ChunkOverlap     int `yaml:"chunk_overlap"`
	SummarySentences int `yaml:"summary_sentences"`
	DefaultTopK      int `yaml:"default_top_k"`
}

// EmbeddingConfig selects the chunk encoder. Provider "local" needs no
// external service; "ollama" and "openai" follow the usual base URL + model
// conventions.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

// GenerationConfig configures the optional external text-generation service.
// The answering pipeline is extractive-only unless endpoint, token and model
// are all present.
type GenerationConfig struct {
	Provider       string  `yaml:"provider"`
	Endpoint       string  `yaml:"endpoint"`
	Model          string  `yaml:"model"`
	Token          string  `yaml:"token"`
	MaxNewTokens   int     `yaml:"max_new_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TopK           int     `yaml:"top_k"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Timeout is the bound applied to every external generation call.
func (c *GenerationConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultGenTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

const (
	defaultAddr             = ":8000"
	defaultUploadDir        = "./uploads"
	defaultDataDir          = "./data"
	defaultChunkSize        = 600 // words
	defaultChunkOverlap     = 80  // words
	defaultSummarySentences = 8
	defaultTopK             = 5
	defaultMaxNewTokens     = 256
	defaultTemperature      = 0.2
	defaultGenTopK          = 50
	defaultGenTimeout       = 30 * time.Second
)

func LoadConfig(path string) (*Config, error) {
	// .env is optional, env vars win over the yaml file for secrets
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("HF_API_TOKEN"); v != "" {
		cfg.Generation.Token = v
	}
	if v := os.Getenv("HF_GEN_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Embedding.Key == "" {
		cfg.Embedding.Key = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      defaultAddr,
			UploadDir: defaultUploadDir,
			DataDir:   defaultDataDir,
		},
		Pipeline: PipelineConfig{
			ChunkSize:        defaultChunkSize,
			ChunkOverlap:     defaultChunkOverlap,
			SummarySentences: defaultSummarySentences,
			DefaultTopK:      defaultTopK,
		},
		Embedding: EmbeddingConfig{
			Provider: "local",
		},
		Generation: GenerationConfig{
			Provider:       "hf",
			Endpoint:       "https://api-inference.huggingface.co/models",
			MaxNewTokens:   defaultMaxNewTokens,
			Temperature:    defaultTemperature,
			TopK:           defaultGenTopK,
			TimeoutSeconds: int(defaultGenTimeout / time.Second),
		},
	}
}

func (c *Config) validate() error {
	if c.Pipeline.ChunkSize <= 0 {
		return fmt.Errorf("pipeline.chunk_size must be positive, got %d", c.Pipeline.ChunkSize)
	}
	if c.Pipeline.ChunkOverlap < 0 {
		return fmt.Errorf("pipeline.chunk_overlap must not be negative, got %d", c.Pipeline.ChunkOverlap)
	}
	if c.Pipeline.ChunkOverlap >= c.Pipeline.ChunkSize {
		return fmt.Errorf("pipeline.chunk_overlap (%d) must be smaller than pipeline.chunk_size (%d)",
			c.Pipeline.ChunkOverlap, c.Pipeline.ChunkSize)
	}
	if c.Pipeline.SummarySentences <= 0 {
		c.Pipeline.SummarySentences = defaultSummarySentences
	}
	if c.Pipeline.DefaultTopK <= 0 {
		c.Pipeline.DefaultTopK = defaultTopK
	}
	switch c.Embedding.Provider {
	case "local":
	case "ollama":
		if c.Embedding.BaseURL == "" || c.Embedding.Model == "" {
			return fmt.Errorf("embedding provider %q requires base_url and model", c.Embedding.Provider)
		}
	case "openai":
		if c.Embedding.Key == "" || c.Embedding.Model == "" {
			return fmt.Errorf("embedding provider %q requires key and model", c.Embedding.Provider)
		}
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Embedding.Provider)
	}
	switch c.Generation.Provider {
	case "hf", "openai":
	default:
		return fmt.Errorf("unknown generation provider: %q", c.Generation.Provider)
	}
	return nil
}
