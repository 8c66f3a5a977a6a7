package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "SWIPECHAT"
	envRelayAPIKey       = "SWIPECHAT_RELAY_API_KEY"
	envRelayReplyAPIKey  = "SWIPECHAT_RELAY_REPLY_API_KEY"
	envConfigDefaultPath = "SWIPECHAT_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
	dotEnvName           = ".env"
)

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars (including .env) < caller overrides.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()

	loadDotEnv(logger)

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil && logger != nil {
				logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
			} else if logger != nil {
				logger.Info().Str("path", configPath).Msg("created default config")
			}
			// try reading again in case it was just written
			if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
				logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
			}
		} else {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Relay.APIKey = os.Getenv(envRelayAPIKey)
	cfg.Relay.ReplyAPIKey = os.Getenv(envRelayReplyAPIKey)

	return cfg, configPath, nil
}

// setDefaults registers every key so AutomaticEnv can resolve nested values.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("read_header_timeout", cfg.ReadHeaderTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("max_message_bytes", cfg.MaxMessageBytes)
	v.SetDefault("rate_limit_per_minute", cfg.RateLimitPerMinute)
	v.SetDefault("cors_origins", cfg.CORSOrigins)

	v.SetDefault("relay.base_url", cfg.Relay.BaseURL)
	v.SetDefault("relay.review_model", cfg.Relay.ReviewModel)
	v.SetDefault("relay.reply_base_url", cfg.Relay.ReplyBaseURL)
	v.SetDefault("relay.reply_model", cfg.Relay.ReplyModel)
	v.SetDefault("relay.max_tokens", cfg.Relay.MaxTokens)
	v.SetDefault("relay.temperature", cfg.Relay.Temperature)
	v.SetDefault("relay.timeout", cfg.Relay.Timeout)
	v.SetDefault("relay.structured_output", cfg.Relay.StructuredOutput)
	v.SetDefault("relay.referer", cfg.Relay.Referer)
	v.SetDefault("relay.title", cfg.Relay.Title)
}

// loadDotEnv exports variables from ./.env without overriding the real environment.
func loadDotEnv(logger *zerolog.Logger) {
	err := godotenv.Load(dotEnvName)
	if err == nil {
		if logger != nil {
			logger.Debug().Str("path", dotEnvName).Msg("loaded env file")
		}
		return
	}
	if !errors.Is(err, os.ErrNotExist) && logger != nil {
		logger.Warn().Err(err).Str("path", dotEnvName).Msg("failed to load env file")
	}
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
