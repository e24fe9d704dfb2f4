package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Agent     AgentConfig     `yaml:"agent"`
	Vector    VectorConfig    `yaml:"vector"`
	LLM       LLMConfig       `yaml:"llm"`
	EmbedLLM  LLMConfig       `yaml:"embed_llm"`
}

type DatabaseConfig struct {
	// DSN must point to a read-only user; the guard layer assumes the
	// connection cannot escalate past what the textual check permits.
	DSN                     string `yaml:"dsn"`
	Password                string `yaml:"password"`
	Debug                   bool   `yaml:"debug"`
	StatementTimeoutSeconds int    `yaml:"statement_timeout_seconds"`
}

type RetrievalConfig struct {
	// KSearch is the per-provider fan-out size (top K from each search).
	KSearch int `yaml:"k_search"`
	// RRFK is the reciprocal rank fusion constant.
	RRFK int `yaml:"rrf_k"`
	// TokenBudget caps the estimated token cost of the assembled schema context.
	TokenBudget int `yaml:"token_budget"`
}

type AgentConfig struct {
	// MaxRetries bounds self-correction; total attempts = MaxRetries + 1.
	MaxRetries int `yaml:"max_retries"`
}

type VectorConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

const (
	defaultKSearch          = 10
	defaultRRFK             = 60
	defaultTokenBudget      = 500
	defaultMaxRetries       = 1
	defaultStatementTimeout = 5
	defaultVectorPath       = "./schemadb"
	defaultCollection       = "schema_chunks"
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields. The result is read-only after startup.
func (c *Config) ApplyDefaults() {
	if c.Retrieval.KSearch <= 0 {
		c.Retrieval.KSearch = defaultKSearch
	}
	if c.Retrieval.RRFK <= 0 {
		c.Retrieval.RRFK = defaultRRFK
	}
	if c.Retrieval.TokenBudget <= 0 {
		c.Retrieval.TokenBudget = defaultTokenBudget
	}
	if c.Agent.MaxRetries <= 0 {
		c.Agent.MaxRetries = defaultMaxRetries
	}
	if c.Database.StatementTimeoutSeconds <= 0 {
		c.Database.StatementTimeoutSeconds = defaultStatementTimeout
	}
	if c.Vector.Path == "" {
		c.Vector.Path = defaultVectorPath
	}
	if c.Vector.Collection == "" {
		c.Vector.Collection = defaultCollection
	}
}
