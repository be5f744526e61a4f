package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cocktail-catalog/internal/core/ai/provider"
	"cocktail-catalog/internal/infrastructure/config"
	"cocktail-catalog/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent API. It implements
// provider.Provider; every request asks for a JSON response body.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient creates a Gemini client.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate produces an AI response. A missing API key is a configuration
// failure reported before any network call.
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if c.config.Gemini.APIKey == "" {
		return nil, common.ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = c.config.Gemini.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.Gemini.MaxTokens
	}

	// build the parts list: optional inline document first, then the prompt
	parts := make([]map[string]interface{}, 0, 2)
	if req.Document != nil {
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]string{
				"mime_type": req.Document.MIMEType,
				"data":      base64.StdEncoding.EncodeToString(req.Document.Data),
			},
		})
	}
	parts = append(parts, map[string]interface{}{"text": req.Prompt})

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      c.config.Gemini.Temperature,
			"maxOutputTokens":  maxTokens,
		},
	}

	common.LogInfo("sending request to Gemini",
		zap.String("model", model),
		zap.Bool("has_document", req.Document != nil),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.Gemini.APIKey).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", model))
	common.LogAICall(req.Prompt, time.Since(start), err, "")

	if err != nil {
		return nil, fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("Gemini returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", model),
		)
		return nil, fmt.Errorf("Gemini API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// parse the response
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}

	content := result.Candidates[0].Content.Parts[0].Text
	if content == "" {
		// an empty body is a hard failure, never "no enrichment needed"
		return nil, fmt.Errorf("empty content in Gemini response")
	}

	out := &provider.Response{Content: content}
	out.Usage.PromptTokens = result.UsageMetadata.PromptTokenCount
	out.Usage.CompletionTokens = result.UsageMetadata.CandidatesTokenCount
	out.Usage.TotalTokens = result.UsageMetadata.TotalTokenCount
	return out, nil
}

// GetModel returns the default model name in use.
func (c *Client) GetModel() string {
	return c.config.Gemini.Model
}

// GetTimeout returns the request timeout.
func (c *Client) GetTimeout() time.Duration {
	return c.config.Gemini.Timeout
}

// Close releases provider connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
