package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Email    EmailConfig    `mapstructure:"email"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// FrontendURL is used to build deep links embedded in emails.
	FrontendURL string `mapstructure:"frontend_url" validate:"omitempty,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes controls access token expiry.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// RefreshTokenLifetimeMinutes controls refresh token expiry.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// EmailConfig contains outbound email (SMTP) settings.
//
// An empty Host or User means email is not configured; the dispatcher then
// reports sends as skipped rather than failing, mirroring the behavior the
// rest of the system expects from the email channel (best effort, never
// blocking the in-app notification write).
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// FromName is the display name used in the From header.
	FromName string `mapstructure:"from_name"`
}

// Configured reports whether SMTP credentials are present.
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.User != ""
}

// ReminderConfig controls the deadline notification engine.
type ReminderConfig struct {
	// Interval is the period between scheduled scan cycles.
	Interval time.Duration `mapstructure:"interval" validate:"required"`
	// CycleTimeout is the soft deadline for a single cycle.
	CycleTimeout time.Duration `mapstructure:"cycle_timeout" validate:"required"`
}
