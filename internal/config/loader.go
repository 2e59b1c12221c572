package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable
// values. Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so secrets can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Gateway.AuthToken = expandEnvVars(cfg.Gateway.AuthToken)
	cfg.OpenAI.APIKey = expandEnvVars(cfg.OpenAI.APIKey)
	cfg.Sheets.CredentialsJSON = expandEnvVars(cfg.Sheets.CredentialsJSON)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. A missing file produces defaults only. A .env file in
// the working directory is folded into the environment first, so the
// same deployment env vars work with or without a config file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8787
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = "loopback"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = 0.3
	}
	if cfg.Session.IdleMinutes == 0 {
		cfg.Session.IdleMinutes = 30
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "sqlite"
	}
	if cfg.Session.MaxStored == 0 {
		cfg.Session.MaxStored = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
}

// applyEnvOverrides reads SALESCOACH_* variables plus the collaborator
// env names the deployment already uses (OPENAI_API_KEY, AGBOT_MODEL,
// the spreadsheet IDs, the service account JSON).
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SALESCOACH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("SALESCOACH_BIND"); v != "" {
		cfg.Gateway.Bind = v
	}
	if v := os.Getenv("SALESCOACH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("AGBOT_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("DAILY_LOG_SPREADSHEET_ID"); v != "" && cfg.Sheets.DailyLogSpreadsheetID == "" {
		cfg.Sheets.DailyLogSpreadsheetID = v
	}
	if v := os.Getenv("SESSION_LOG_SPREADSHEET_ID"); v != "" && cfg.Sheets.SessionLogSpreadsheetID == "" {
		cfg.Sheets.SessionLogSpreadsheetID = v
	}
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); v != "" && cfg.Sheets.CredentialsJSON == "" && cfg.Sheets.CredentialsFile == "" {
		// The variable may carry the JSON itself or a path to it.
		if strings.HasPrefix(strings.TrimSpace(v), "{") {
			cfg.Sheets.CredentialsJSON = v
		} else {
			cfg.Sheets.CredentialsFile = v
		}
	}
}
