// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Verifier VerifierConfig `yaml:"verifier" mapstructure:"verifier"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SearchConfig holds Google Custom Search credentials and pacing.
type SearchConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	EngineID string `yaml:"engine_id" mapstructure:"engine_id"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	// MaxResults is the per-query item cap sent to the API.
	MaxResults int `yaml:"max_results" mapstructure:"max_results"`
	// PriorityDelayMs spaces colleague/school queries.
	PriorityDelayMs int `yaml:"priority_delay_ms" mapstructure:"priority_delay_ms"`
	// StandardDelayMs spaces broad/executive queries.
	StandardDelayMs int `yaml:"standard_delay_ms" mapstructure:"standard_delay_ms"`
	// RateLimitBackoffMs is the extra pause after a 429.
	RateLimitBackoffMs int `yaml:"rate_limit_backoff_ms" mapstructure:"rate_limit_backoff_ms"`
}

// LLMConfig selects and configures the classification model provider.
type LLMConfig struct {
	// Provider is "openai", "anthropic", or "none" (deterministic fallback only).
	Provider string `yaml:"provider" mapstructure:"provider"`
	Key      string `yaml:"key" mapstructure:"key"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// VerifierConfig holds email verification API settings.
type VerifierConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Retries int    `yaml:"retries" mapstructure:"retries"`
}

// CacheConfig configures the local search-result cache.
type CacheConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// PipelineConfig configures discovery behavior.
type PipelineConfig struct {
	// MaxQueries caps the search plan fan-out.
	MaxQueries int `yaml:"max_queries" mapstructure:"max_queries"`
	// MaxContacts caps how many enriched contacts a run returns.
	MaxContacts int `yaml:"max_contacts" mapstructure:"max_contacts"`
	// EmailContacts caps how many top contacts get email enrichment.
	EmailContacts int `yaml:"email_contacts" mapstructure:"email_contacts"`
}

// ServerConfig configures the discovery API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONNECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("search.base_url", "https://www.googleapis.com")
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.priority_delay_ms", 2000)
	v.SetDefault("search.standard_delay_ms", 1500)
	v.SetDefault("search.rate_limit_backoff_ms", 10000)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("verifier.base_url", "https://rapid-email-verifier.fly.dev/api")
	v.SetDefault("verifier.retries", 3)
	v.SetDefault("cache.path", "connect-cache.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("pipeline.max_queries", 24)
	v.SetDefault("pipeline.max_contacts", 15)
	v.SetDefault("pipeline.email_contacts", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration can support the given mode
// ("discover", "serve", or "verify"). It collects every problem rather
// than stopping at the first.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "discover", "serve":
		if c.Search.Key == "" {
			problems = append(problems, "search.key is required")
		}
		if c.Search.EngineID == "" {
			problems = append(problems, "search.engine_id is required")
		}
		switch c.LLM.Provider {
		case "none":
		case "openai", "anthropic":
			if c.LLM.Key == "" {
				problems = append(problems, "llm.key is required for provider "+c.LLM.Provider)
			}
		default:
			problems = append(problems, "llm.provider must be openai, anthropic, or none")
		}
		if mode == "serve" && c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "verify":
		if c.Verifier.BaseURL == "" {
			problems = append(problems, "verifier.base_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Pipeline.MaxQueries < 1 || c.Pipeline.MaxQueries > 100 {
		problems = append(problems, "pipeline.max_queries must be between 1 and 100")
	}
	if c.Pipeline.EmailContacts < 0 {
		problems = append(problems, "pipeline.email_contacts must be >= 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
