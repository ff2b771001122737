package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Reduce   ReduceConfig   `yaml:"reduce"`
	Acquire  AcquireConfig  `yaml:"acquire"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

type LLMConfig struct {
	Provider       string  `yaml:"provider" env:"SKIM_LLM_PROVIDER"`
	BaseURL        string  `yaml:"base_url" env:"OLLAMA_BASE_URL"`
	Model          string  `yaml:"model" env:"SKIM_LLM_MODEL"`
	EmbeddingModel string  `yaml:"embedding_model"`
	OpenAIKey      string  `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	AnthropicKey   string  `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
}

// ReduceConfig tunes the chunk/reduce/join pipeline.
type ReduceConfig struct {
	ChunkSize  int           `yaml:"chunk_size"`
	MaxWorkers int           `yaml:"max_workers" env:"SKIM_REDUCE_WORKERS"`
	MaxLength  int           `yaml:"max_length"`
	MinLength  int           `yaml:"min_length"`
	Timeout    time.Duration `yaml:"timeout"`
}

type AcquireConfig struct {
	// Timeout bounds each source. Zero means one minute, negative means no
	// deadline.
	Timeout time.Duration `yaml:"timeout"`
}

type ScraperConfig struct {
	RateLimit   float64       `yaml:"rate_limit"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	MaxArticles int           `yaml:"max_articles"`
	MediumURL   string        `yaml:"medium_url"`
	DevtoURL    string        `yaml:"devto_url"`
	WixURL      string        `yaml:"wix_url"`
}

type DatabaseConfig struct {
	URL         string `yaml:"url" env:"DATABASE_URL"`
	TableName   string `yaml:"table_name"`
	VectorDim   int    `yaml:"vector_dim"`
	SearchLimit int    `yaml:"search_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"SKIM_LOG_LEVEL"`
	Format string `yaml:"format" env:"SKIM_LOG_FORMAT"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"skim.yaml",
			"skim.yml",
			filepath.Join(os.Getenv("HOME"), ".config/skim/config.yaml"),
			"/etc/skim/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read %s", path)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}

	if err := mergeWithEnv(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	if err := mergeWithEnv(config); err != nil {
		return nil, err
	}
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "ollama"
	}
	if config.LLM.Model == "" {
		switch config.LLM.Provider {
		case "openai":
			config.LLM.Model = "gpt-4o-mini"
		case "anthropic":
			config.LLM.Model = "claude-haiku-4-5-20251001"
		default:
			config.LLM.Model = "mistral"
		}
	}
	if config.LLM.EmbeddingModel == "" {
		config.LLM.EmbeddingModel = "nomic-embed-text:latest"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 512
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.2
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Reduce.ChunkSize == 0 {
		config.Reduce.ChunkSize = 3000
	}
	if config.Reduce.MaxWorkers == 0 {
		config.Reduce.MaxWorkers = 6
	}
	if config.Reduce.MaxLength == 0 {
		config.Reduce.MaxLength = 100
	}
	if config.Reduce.MinLength == 0 {
		config.Reduce.MinLength = 30
	}
	if config.Reduce.Timeout == 0 {
		config.Reduce.Timeout = 2 * time.Minute
	}

	if config.Acquire.Timeout == 0 {
		config.Acquire.Timeout = time.Minute
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 30 * time.Second
	}
	if config.Scraper.MaxArticles == 0 {
		config.Scraper.MaxArticles = 6
	}
	if config.Scraper.MediumURL == "" {
		config.Scraper.MediumURL = "https://medium.com"
	}
	if config.Scraper.DevtoURL == "" {
		config.Scraper.DevtoURL = "https://dev.to"
	}
	if config.Scraper.WixURL == "" {
		config.Scraper.WixURL = "https://www.wix.com"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "site_summaries"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}
	if config.Database.SearchLimit == 0 {
		config.Database.SearchLimit = 5
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
}

func mergeWithEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return eris.Wrap(err, "config: parse environment")
	}
	return nil
}
