package config

// Config is the root configuration for the coaching server.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway,omitempty"`
	OpenAI  OpenAIConfig  `yaml:"openai,omitempty"`
	Sheets  SheetsConfig  `yaml:"sheets,omitempty"`
	Session SessionConfig `yaml:"session,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// GatewayConfig controls the HTTP/WebSocket server.
type GatewayConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AuthToken      string   `yaml:"authToken,omitempty"` // optional bearer token; supports ${ENV}
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// OpenAIConfig configures the LLM collaborator.
type OpenAIConfig struct {
	APIKey      string  `yaml:"apiKey,omitempty"` // supports ${ENV}
	Model       string  `yaml:"model,omitempty"`
	BaseURL     string  `yaml:"baseUrl,omitempty"`
	MaxTokens   int     `yaml:"maxTokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// SheetsConfig configures the Google Sheets audit collaborator. Leaving
// the spreadsheet IDs empty disables the corresponding log; the chat
// pipeline runs fine without either.
type SheetsConfig struct {
	CredentialsFile         string `yaml:"credentialsFile,omitempty"`
	CredentialsJSON         string `yaml:"credentialsJson,omitempty"` // supports ${ENV}
	DailyLogSpreadsheetID   string `yaml:"dailyLogSpreadsheetId,omitempty"`
	SessionLogSpreadsheetID string `yaml:"sessionLogSpreadsheetId,omitempty"`
}

// SessionConfig defines session behavior.
type SessionConfig struct {
	IdleMinutes int    `yaml:"idleMinutes,omitempty"` // negotiation-state TTL
	Store       string `yaml:"store,omitempty"`       // "sqlite" | "memory"
	MaxStored   int    `yaml:"maxStored,omitempty"`   // stored history window, in messages
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" … "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
