// Package config loads and validates the application configuration from
// environment variables and an optional config file.
//
// Environment variables use the TASKHUB_ prefix with underscores separating
// nested keys (e.g. TASKHUB_SERVER_PORT, TASKHUB_DATABASE_URL). Values from
// the environment take precedence over values from the config file.
package config
