package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr               string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat          string        `mapstructure:"log_format" yaml:"log_format"`
	MaxMessageBytes    int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	CORSOrigins        []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	Relay              RelayConfig   `mapstructure:"relay" yaml:"relay"`
}

// RelayConfig configures the chat-completion providers used by the AI relay.
// Review and suggestions go to BaseURL; the simulated match reply goes to
// ReplyBaseURL, which may be a different provider with its own key.
type RelayConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// API keys are never read from or written to the config file;
	// Load fills them from SWIPECHAT_RELAY_API_KEY and SWIPECHAT_RELAY_REPLY_API_KEY.
	APIKey           string        `mapstructure:"-" yaml:"-"`
	ReviewModel      string        `mapstructure:"review_model" yaml:"review_model"`
	MaxTokens        int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature      float32       `mapstructure:"temperature" yaml:"temperature"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	StructuredOutput bool          `mapstructure:"structured_output" yaml:"structured_output"`

	ReplyBaseURL string `mapstructure:"reply_base_url" yaml:"reply_base_url"`
	ReplyAPIKey  string `mapstructure:"-" yaml:"-"`
	ReplyModel   string `mapstructure:"reply_model" yaml:"reply_model"`
	// Referer and Title are OpenRouter attribution headers sent with replies.
	Referer string `mapstructure:"referer" yaml:"referer,omitempty"`
	Title   string `mapstructure:"title" yaml:"title,omitempty"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":3000",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		MaxMessageBytes:    64 << 10,
		RateLimitPerMinute: 120,
		CORSOrigins:        []string{"*"},
		Relay: RelayConfig{
			BaseURL:          "https://api.together.xyz/v1",
			ReviewModel:      "mistralai/Mistral-7B-Instruct-v0.1",
			MaxTokens:        100,
			Temperature:      0.8,
			Timeout:          30 * time.Second,
			StructuredOutput: true,
			ReplyBaseURL:     "https://openrouter.ai/api/v1",
			ReplyModel:       "meta-llama/llama-3-8b-instruct",
			Referer:          "http://localhost:3000",
			Title:            "swipechat",
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Relay.APIKey != "" {
		c.Relay.APIKey = other.Relay.APIKey
	}
	if other.Relay.ReplyAPIKey != "" {
		c.Relay.ReplyAPIKey = other.Relay.ReplyAPIKey
	}
}
