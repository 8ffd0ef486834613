package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	IDM      IDMConfig      `mapstructure:"idm" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	HTTP     HTTPConfig     `mapstructure:"http" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error fatal"`
	AppName  string `mapstructure:"app_name" validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// MaxPageSize caps how many rows a collection request can return,
	// whatever $top or $maxpagesize ask for.
	MaxPageSize int  `mapstructure:"max_page_size" validate:"required,gt=0"`
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// IDMConfig points at the identity service that validates access tokens.
type IDMConfig struct {
	GatewayURL string        `mapstructure:"gateway_url" validate:"omitempty,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"required,gt=0"`
	// ClientWhitelist lists the client_id values allowed to call the API.
	ClientWhitelist []string `mapstructure:"client_whitelist" validate:"required,min=1,dive,required"`
}

// Token decoding modes.
const (
	AuthModeIDM = "idm"
	AuthModeJWT = "jwt"
)

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=idm jwt"`
	// JWTSecret signs service tokens when Mode is "jwt".
	JWTSecret     string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenQueryKey string `mapstructure:"token_query_key" validate:"required"`
	// TokenLifetime is the validity of service tokens issued in "jwt" mode.
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"required,gt=0"`
}

// HTTPConfig names the headers the middleware chain reads and writes.
type HTTPConfig struct {
	CorrelationHeader     string `mapstructure:"correlation_header" validate:"required"`
	ResponseTimeHeader    string `mapstructure:"response_time_header" validate:"required"`
	ResponseTimePrecision int    `mapstructure:"response_time_precision" validate:"min=0,max=9"`
}
