package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. ODATA_SERVER_PORT.
const EnvPrefix = "ODATA"

var defaults = map[string]any{
	"server.port":                  8080,
	"server.log_level":             "info",
	"server.app_name":              "odata-api",
	"database.max_page_size":       1000,
	"database.auto_migrate":        true,
	"idm.timeout":                  "10s",
	"auth.mode":                    AuthModeIDM,
	"auth.token_query_key":         "token",
	"auth.token_lifetime":          "60m",
	"http.correlation_header":      "X-FL-Hop-CorrelationId",
	"http.response_time_header":    "X-Response-Time",
	"http.response_time_precision": 3,
}

// Keys without defaults still need binding so AutomaticEnv values reach Unmarshal.
var envOnlyKeys = []string{
	"database.url",
	"idm.gateway_url",
	"idm.client_whitelist",
	"auth.jwt_secret",
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags plus the rules that span sections.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(authModeValidation, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// authModeValidation requires the settings the chosen token decoder needs.
func authModeValidation(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.Auth.Mode {
	case AuthModeIDM:
		if cfg.IDM.GatewayURL == "" {
			sl.ReportError(cfg.IDM.GatewayURL, "IDM.GatewayURL", "GatewayURL", "required_for_idm_mode", "")
		}
	case AuthModeJWT:
		if cfg.Auth.JWTSecret == "" {
			sl.ReportError(cfg.Auth.JWTSecret, "Auth.JWTSecret", "JWTSecret", "required_for_jwt_mode", "")
		}
	}
}
