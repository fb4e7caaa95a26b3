package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"telephony-insights-go/internal/masking"
)

const DefaultSeed int64 = 42

type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	// Salt is the PII masking salt. Keep it out of the YAML file; set
	// SALT_PII in the environment or .env instead.
	Salt string `yaml:"-"`

	Generate struct {
		DataDir        string `yaml:"data_dir"`
		Seed           int64  `yaml:"seed"`
		NumCalls       int    `yaml:"num_calls"`
		NumTranscripts int    `yaml:"num_transcripts"`
		Workers        int    `yaml:"workers"`
		XLSX           bool   `yaml:"xlsx"`
	} `yaml:"generate"`

	Inference struct {
		BaseURL        string        `yaml:"base_url"`
		Token          string        `yaml:"-"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxElapsed     time.Duration `yaml:"max_elapsed"`
		TopicModel     string        `yaml:"topic_model"`
		SentimentModel string        `yaml:"sentiment_model"`
		SummaryModel   string        `yaml:"summary_model"`
	} `yaml:"inference"`

	Summarizer struct {
		Backend     string `yaml:"backend"` // "huggingface" or "openai"
		OpenAIKey   string `yaml:"-"`
		OpenAIURL   string `yaml:"openai_base_url"`
		OpenAIModel string `yaml:"openai_model"`
	} `yaml:"summarizer"`

	Annotation struct {
		Workers     int           `yaml:"workers"`
		CallTimeout time.Duration `yaml:"call_timeout"`
		CacheSize   int           `yaml:"cache_size"`
	} `yaml:"annotation"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

// Load reads .env (if present), then the optional YAML file, then lets
// environment variables override. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	// Seed is preset so an explicit 0 from YAML or SEED survives.
	cfg := &Config{}
	cfg.Generate.Seed = DefaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str(&c.Environment, "ENVIRONMENT")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.Salt, "SALT_PII")
	str(&c.Generate.DataDir, "DATA_DIR")
	str(&c.Inference.BaseURL, "HF_API_URL")
	str(&c.Inference.Token, "HF_API_TOKEN")
	str(&c.Inference.TopicModel, "TOPIC_MODEL")
	str(&c.Inference.SentimentModel, "SENTIMENT_MODEL")
	str(&c.Inference.SummaryModel, "SUMMARY_MODEL")
	str(&c.Summarizer.Backend, "SUMMARIZER_BACKEND")
	str(&c.Summarizer.OpenAIKey, "OPENAI_API_KEY")
	str(&c.Summarizer.OpenAIURL, "OPENAI_BASE_URL")
	str(&c.Summarizer.OpenAIModel, "OPENAI_MODEL")
	str(&c.Server.Port, "PORT")
	str(&c.Database.Path, "DB_PATH")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Generate.NumCalls, "NUM_CALLS"},
		{&c.Generate.NumTranscripts, "NUM_TRANSCRIPTS"},
		{&c.Generate.Workers, "GENERATE_WORKERS"},
		{&c.Annotation.Workers, "ANNOTATE_WORKERS"},
		{&c.Annotation.CacheSize, "ANNOTATE_CACHE_SIZE"},
	}
	for _, iv := range ints {
		if v, ok := os.LookupEnv(iv.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", iv.key, err)
			}
			*iv.dst = n
		}
	}
	if v, ok := os.LookupEnv("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SEED: %w", err)
		}
		c.Generate.Seed = n
	}
	if v, ok := os.LookupEnv("ANNOTATE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANNOTATE_TIMEOUT: %w", err)
		}
		c.Annotation.CallTimeout = d
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Environment == "" {
		c.Environment = "local"
	}
	if c.Salt == "" {
		c.Salt = masking.PlaceholderSalt
	}
	if c.Generate.DataDir == "" {
		c.Generate.DataDir = "data/raw"
	}
	if c.Generate.NumCalls == 0 {
		c.Generate.NumCalls = 200
	}
	if c.Generate.NumTranscripts == 0 {
		c.Generate.NumTranscripts = 18
	}
	if c.Generate.Workers == 0 {
		c.Generate.Workers = 1
	}
	if c.Inference.Timeout == 0 {
		c.Inference.Timeout = 30 * time.Second
	}
	if c.Inference.MaxElapsed == 0 {
		c.Inference.MaxElapsed = 60 * time.Second
	}
	if c.Inference.TopicModel == "" {
		c.Inference.TopicModel = "MoritzLaurer/DeBERTa-v3-base-mnli-fever-anli"
	}
	if c.Inference.SentimentModel == "" {
		c.Inference.SentimentModel = "nlptown/bert-base-multilingual-uncased-sentiment"
	}
	if c.Inference.SummaryModel == "" {
		c.Inference.SummaryModel = "facebook/bart-large-cnn"
	}
	if c.Summarizer.Backend == "" {
		c.Summarizer.Backend = "huggingface"
	}
	if c.Annotation.Workers == 0 {
		c.Annotation.Workers = 4
	}
	if c.Annotation.CallTimeout == 0 {
		c.Annotation.CallTimeout = 90 * time.Second
	}
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join("data", "annotations.db")
	}
}

// IsTest reports whether placeholder secrets are acceptable.
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// CheckSalt returns masking.ErrPlaceholderSalt when a placeholder salt is
// in use outside a test environment. Callers log it; it is not fatal.
func (c *Config) CheckSalt() error {
	if c.IsTest() {
		return nil
	}
	return masking.CheckSalt(c.Salt)
}

// Paths of the generated artifacts.
func (c *Config) RecordsCSVPath() string {
	return filepath.Join(c.Generate.DataDir, "cdr_synthetic.csv")
}

func (c *Config) RecordsXLSXPath() string {
	return filepath.Join(c.Generate.DataDir, "cdr_synthetic.xlsx")
}

func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.Generate.DataDir, "transcripts")
}
