package provider

import (
	"context"
	"time"
)

// Document is an inline document attached to a generation request.
type Document struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Request is a generation request sent to an AI provider. Document is
// optional; when present the provider runs a multimodal call.
type Request struct {
	Prompt      string    `json:"prompt"`
	Document    *Document `json:"document,omitempty"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response is a generation response from an AI provider.
type Response struct {
	Content string `json:"content"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Provider is the AI provider interface.
type Provider interface {
	// Generate produces an AI response.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel returns the default model name in use.
	GetModel() string

	// GetTimeout returns the request timeout.
	GetTimeout() time.Duration

	// Close releases provider connections.
	Close() error
}
