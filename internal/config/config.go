// Package config loads and validates the server configuration from a
// YAML file, a .env file, and environment variables.
package config

// ConfigError reports a problem loading or parsing configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
