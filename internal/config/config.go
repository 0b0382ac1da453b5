// Package config loads settings from defaults, an optional YAML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"urbanplanner/internal/llm"
	llmclient "urbanplanner/internal/llm/client"
)

// EnvPrefix prefixes every generic environment override, e.g. URBANPLANNER_LLM_PROVIDER.
const EnvPrefix = "URBANPLANNER"

type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// LLMConfig selects the provider and its retry/sampling policy.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Region      string        `mapstructure:"region"`
	Profile     string        `mapstructure:"profile"`
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	UseBedrock  bool          `mapstructure:"use_bedrock"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
	RPS         float64       `mapstructure:"rps"`
	Burst       int           `mapstructure:"burst"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	TopP        float64       `mapstructure:"top_p"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AnalysisConfig tunes heuristic scoring. ScoreCap <= 0 leaves scores unbounded.
type AnalysisConfig struct {
	ScoreCap int `mapstructure:"score_cap"`
}

func setDefaults(v *viper.Viper) {
	s := llmclient.DefaultSampling()
	v.SetDefault("llm.provider", llmclient.ProviderBedrock)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.region", "us-east-1")
	v.SetDefault("llm.profile", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.use_bedrock", false)
	v.SetDefault("llm.timeout", 90*time.Second)
	v.SetDefault("llm.max_attempts", llm.DefaultMaxAttempts)
	v.SetDefault("llm.max_backoff", 20*time.Second)
	v.SetDefault("llm.rps", 0.0)
	v.SetDefault("llm.burst", 1)
	v.SetDefault("llm.max_tokens", s.MaxTokens)
	v.SetDefault("llm.temperature", s.Temperature)
	v.SetDefault("llm.top_p", s.TopP)

	v.SetDefault("server.port", ":8081")
	v.SetDefault("server.request_timeout", 2*time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("analysis.score_cap", 0)
}

// Well-known variables read without the prefix.
var envAliases = map[string][]string{
	"llm.region":  {"AWS_REGION", "AWS_DEFAULT_REGION"},
	"llm.profile": {"AWS_PROFILE"},
	"llm.model":   {"LLAMA_MODEL_ID"},
	"server.port": {"PORT"},
}

// Load reads configuration. path may be empty, in which case only
// ./urbanplanner.yaml is tried and its absence is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("urbanplanner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		args := append([]string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Server.Port = normalizePort(cfg.Server.Port)
	cfg.LLM.APIKey = firstNonEmpty(cfg.LLM.APIKey, providerKeyEnv(v, cfg.LLM.Provider))
	return cfg, cfg.Validate()
}

// providerKeyEnv picks the API key variable matching the provider.
func providerKeyEnv(v *viper.Viper, provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case llmclient.ProviderAnthropic:
		_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
		return v.GetString("anthropic_api_key")
	case llmclient.ProviderGemini:
		_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
		return v.GetString("gemini_api_key")
	}
	return ""
}

// Validate rejects settings that would make every request fail.
func (c *Config) Validate() error {
	known := false
	p := strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	for _, name := range llmclient.Providers() {
		if p == name {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("llm.provider %q is not one of %s", c.LLM.Provider, strings.Join(llmclient.Providers(), ", "))
	}
	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be at least 1, got %d", c.LLM.MaxAttempts)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	return nil
}

// ModelConfig converts the llm section into the model client's configuration.
func (c *Config) ModelConfig() llm.Config {
	return llm.Config{
		Provider: llmclient.ProviderConfig{
			Provider:   c.LLM.Provider,
			Model:      c.LLM.Model,
			Region:     c.LLM.Region,
			Profile:    c.LLM.Profile,
			Endpoint:   c.LLM.Endpoint,
			APIKey:     c.LLM.APIKey,
			UseBedrock: c.LLM.UseBedrock,
			Timeout:    c.LLM.Timeout,
		},
		Sampling: llmclient.Sampling{
			MaxTokens:   c.LLM.MaxTokens,
			Temperature: c.LLM.Temperature,
			TopP:        c.LLM.TopP,
		},
		MaxAttempts: c.LLM.MaxAttempts,
		MaxBackoff:  c.LLM.MaxBackoff,
		RPS:         c.LLM.RPS,
		Burst:       c.LLM.Burst,
	}
}

func normalizePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
