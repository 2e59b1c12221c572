// Package llm defines the LLM client interface used by the coach and an
// OpenAI chat-completions implementation of it.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleFunction  = "function"
)

// Message is a single entry in a completion request. Name is set only
// for function-result messages; FunctionCall only when echoing an
// assistant message that requested a function.
type Message struct {
	Role         string        `json:"role"`
	Content      string        `json:"content"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// FunctionCall is the model's request to invoke a named function.
// Arguments is a raw JSON object string and is not guaranteed to parse.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FunctionDef describes a callable function offered to the model.
type FunctionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []Message     `json:"messages"`
	Functions   []FunctionDef `json:"functions,omitempty"`
	MaxTokens   int           `json:"maxTokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// CompletionResponse is the result of a completion. Exactly one of
// Content or FunctionCall is meaningful: a model that requests a
// function may leave the content empty.
type CompletionResponse struct {
	Content      string        `json:"content"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
	Model        string        `json:"model,omitempty"`
	Usage        Usage         `json:"usage"`
	Duration     time.Duration `json:"duration,omitempty"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// Client is the interface the coach depends on.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// ProviderError is returned when an LLM provider fails.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // HTTP status code when available
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
