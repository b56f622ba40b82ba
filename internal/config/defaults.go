package config

// defaultModels maps each provider to its default model.
var defaultModels = map[ProviderType]string{
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderOpenAI:    "gpt-4o",
	ProviderOllama:    "llama3",
}

// DefaultImpactTiers translate donation totals into tangible outcomes.
// Each tier applies when the cumulative total reaches its threshold;
// quantity is total multiplied by the per-pound rate, rounded down.
var DefaultImpactTiers = []ImpactTier{
	{Threshold: 25, PerPound: 0.5, Description: "hours of groundbreaking research", Icon: "🔬"},
	{Threshold: 50, PerPound: 0.2, Description: "cancer information booklets", Icon: "📚"},
	{Threshold: 100, PerPound: 0.1, Description: "days of vital equipment use", Icon: "🏥"},
	{Threshold: 250, PerPound: 0.05, Description: "patient support sessions", Icon: "🤝"},
	{Threshold: 500, PerPound: 0.01, Description: "clinical trials supported", Icon: "💊"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:              "0.0.0.0",
		Port:              8080,
		DatabasePath:      "data/supporter-engagement.db",
		Provider:          ProviderAnthropic,
		Model:             defaultModels[ProviderAnthropic],
		RequestsPerMinute: 60,
		SessionTTLMinutes: 30,
		CORSOrigins:       []string{"*"},
		ImpactTiers:       DefaultImpactTiers,
	}
}

// DefaultModel returns the default model for the given provider,
// falling back to the Anthropic default for unknown providers.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderAnthropic]
}
