package config

import "time"

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level service configuration, corresponding to
// supporter-engagement.yml.
type Config struct {
	Host              string       `yaml:"host" koanf:"host"`
	Port              int          `yaml:"port" koanf:"port"`
	DatabasePath      string       `yaml:"database_path" koanf:"database_path"`
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	SessionTTLMinutes int          `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	CORSOrigins       []string     `yaml:"cors_origins" koanf:"cors_origins"`
	ImpactTiers       []ImpactTier `yaml:"impact_tiers" koanf:"impact_tiers"`
}

// ImpactTier converts a cumulative donation total into a tangible
// outcome, e.g. £25 funds half an hour of research.
type ImpactTier struct {
	Threshold   float64 `yaml:"threshold" koanf:"threshold"`
	PerPound    float64 `yaml:"per_pound" koanf:"per_pound"`
	Description string  `yaml:"description" koanf:"description"`
	Icon        string  `yaml:"icon" koanf:"icon"`
}

// SessionTTL returns the session idle timeout as a duration.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
