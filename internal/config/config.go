package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort           = 8080
	defaultEnv            = "development"
	defaultMaxInputChars  = 4000
	defaultRetrievalTopK  = 4
	defaultToneProfile    = "direct"
	defaultKnowledgePath  = "knowledge.json"
	defaultRepairAttempts = 2
	defaultRateLimitRPS   = 10
	defaultRateLimitBurst = 20
)

// AppConfig holds runtime configuration loaded from YAML with environment
// variable overrides. Every field has a working default; a missing config
// file is not an error.
type AppConfig struct {
	Port              int      `yaml:"port"`
	Env               string   `yaml:"env"` // "development" | "production"
	AllowedOrigins    []string `yaml:"allowed_origins"`
	MaxInputChars     int      `yaml:"max_input_chars"`
	RetrievalTopK     int      `yaml:"retrieval_top_k"` // 0 disables retrieval
	ToneProfile       string   `yaml:"tone_profile"`    // "direct" | "cautious"
	KnowledgePath     string   `yaml:"knowledge_path"`
	MaxRepairAttempts int      `yaml:"max_repair_attempts"`
	RateLimitRPS      float64  `yaml:"rate_limit_rps"`
	RateLimitBurst    int      `yaml:"rate_limit_burst"`
	AI                AIConfig `yaml:"ai"`
}

// AIConfig configures the generation providers and which one the insight
// pipeline uses.
type AIConfig struct {
	Providers    []AIProvider       `yaml:"providers"`
	InsightModel *AIModelAssignment `yaml:"insight_model"`
}

type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

type rawAppConfig struct {
	Port               int          `yaml:"port"`
	Env                string       `yaml:"env"`
	NodeEnv            string       `yaml:"node_env"`
	AllowedOrigins     []string     `yaml:"allowed_origins"`
	CORSAllowedOrigins []string     `yaml:"cors_allowed_origins"`
	MaxInputChars      int          `yaml:"max_input_chars"`
	MaxInputLength     int          `yaml:"max_input_length"`
	RetrievalTopK      *int         `yaml:"retrieval_top_k"`
	TopK               *int         `yaml:"top_k"`
	ToneProfile        string       `yaml:"tone_profile"`
	Tone               string       `yaml:"tone"`
	KnowledgePath      string       `yaml:"knowledge_path"`
	KnowledgeFile      string       `yaml:"knowledge_file"`
	MaxRepairAttempts  *int         `yaml:"max_repair_attempts"`
	RateLimitRPS       float64      `yaml:"rate_limit_rps"`
	RateLimitBurst     int          `yaml:"rate_limit_burst"`
	AI                 rawAIConfig  `yaml:"ai"`
	Providers          []AIProvider `yaml:"providers"` // legacy top-level form
}

type rawAIConfig struct {
	Providers    []AIProvider       `yaml:"providers"`
	InsightModel *AIModelAssignment `yaml:"insight_model"`
	Model        string             `yaml:"model"` // shorthand for insight_model.model
}

// Load reads the YAML config at path (if present), applies environment
// overrides and returns a fully-defaulted AppConfig.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		raw := rawAppConfig{}
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		applyRawAppConfig(&cfg, raw)
	case os.IsNotExist(err):
		// Defaults plus env overrides are a complete configuration.
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.MaxInputChars < 1 {
		return nil, fmt.Errorf("invalid max_input_chars %d, expected >= 1", cfg.MaxInputChars)
	}
	if cfg.RetrievalTopK < 0 {
		return nil, fmt.Errorf("invalid retrieval_top_k %d, expected >= 0", cfg.RetrievalTopK)
	}
	if cfg.MaxRepairAttempts < 0 {
		return nil, fmt.Errorf("invalid max_repair_attempts %d, expected >= 0", cfg.MaxRepairAttempts)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:              defaultPort,
		Env:               defaultEnv,
		MaxInputChars:     defaultMaxInputChars,
		RetrievalTopK:     defaultRetrievalTopK,
		ToneProfile:       defaultToneProfile,
		KnowledgePath:     defaultKnowledgePath,
		MaxRepairAttempts: defaultRepairAttempts,
		RateLimitRPS:      defaultRateLimitRPS,
		RateLimitBurst:    defaultRateLimitBurst,
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	if raw.MaxInputChars != 0 {
		cfg.MaxInputChars = raw.MaxInputChars
	} else if raw.MaxInputLength != 0 {
		cfg.MaxInputChars = raw.MaxInputLength
	}
	if raw.RetrievalTopK != nil {
		cfg.RetrievalTopK = *raw.RetrievalTopK
	} else if raw.TopK != nil {
		cfg.RetrievalTopK = *raw.TopK
	}
	if v := strings.TrimSpace(raw.ToneProfile); v != "" {
		cfg.ToneProfile = v
	} else if v := strings.TrimSpace(raw.Tone); v != "" {
		cfg.ToneProfile = v
	}
	if v := strings.TrimSpace(raw.KnowledgePath); v != "" {
		cfg.KnowledgePath = v
	} else if v := strings.TrimSpace(raw.KnowledgeFile); v != "" {
		cfg.KnowledgePath = v
	}
	if raw.MaxRepairAttempts != nil {
		cfg.MaxRepairAttempts = *raw.MaxRepairAttempts
	}
	if raw.RateLimitRPS > 0 {
		cfg.RateLimitRPS = raw.RateLimitRPS
	}
	if raw.RateLimitBurst > 0 {
		cfg.RateLimitBurst = raw.RateLimitBurst
	}

	if raw.AI.Providers != nil {
		cfg.AI.Providers = raw.AI.Providers
	} else if raw.Providers != nil {
		cfg.AI.Providers = raw.Providers
	}
	if raw.AI.InsightModel != nil {
		cfg.AI.InsightModel = raw.AI.InsightModel
	} else if v := strings.TrimSpace(raw.AI.Model); v != "" {
		cfg.AI.InsightModel = &AIModelAssignment{Model: v}
	}

	cfg.ToneProfile = normalizeToneProfile(cfg.ToneProfile)
	cfg.Env = normalizeEnv(cfg.Env)
}

// applyEnvOverrides lets operators tune the service without a config file.
// API keys from the conventional provider env vars create an implicit
// provider when none is configured.
func applyEnvOverrides(cfg *AppConfig) {
	if v, ok := envInt("MODASSIST_PORT"); ok {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("MODASSIST_ENV")); v != "" {
		cfg.Env = normalizeEnv(v)
	}
	if v, ok := envInt("MODASSIST_MAX_INPUT_CHARS"); ok {
		cfg.MaxInputChars = v
	}
	if v, ok := envInt("MODASSIST_RETRIEVAL_TOP_K"); ok {
		cfg.RetrievalTopK = v
	}
	if v := strings.TrimSpace(os.Getenv("MODASSIST_TONE_PROFILE")); v != "" {
		cfg.ToneProfile = normalizeToneProfile(v)
	}
	if v := strings.TrimSpace(os.Getenv("MODASSIST_KNOWLEDGE_PATH")); v != "" {
		cfg.KnowledgePath = v
	}
	if v := strings.TrimSpace(os.Getenv("MODASSIST_MODEL")); v != "" {
		if cfg.AI.InsightModel == nil {
			cfg.AI.InsightModel = &AIModelAssignment{}
		}
		cfg.AI.InsightModel.Model = v
	}

	if len(cfg.AI.Providers) == 0 {
		if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
			cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
				ID:      "anthropic-env",
				Name:    "Anthropic (env)",
				Type:    "anthropic",
				APIKey:  key,
				Enabled: true,
			})
		}
		if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
			cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
				ID:      "openai-env",
				Name:    "OpenAI (env)",
				Type:    "openai",
				APIKey:  key,
				Enabled: true,
			})
		}
	}
}

func envInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func normalizeToneProfile(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cautious":
		return "cautious"
	default:
		return defaultToneProfile
	}
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// RetrievalEnabled reports whether snippet retrieval should run at all.
func (c *AppConfig) RetrievalEnabled() bool {
	return c.RetrievalTopK > 0
}
