package service

import (
	"context"
	"strings"

	"cocktail-catalog/internal/core/ai/cache"
	"cocktail-catalog/internal/core/ai/gemini"
	"cocktail-catalog/internal/core/ai/provider"
	"cocktail-catalog/internal/infrastructure/config"
)

// Service is the unified AI front. Text calls are cached by normalized
// prompt; document calls are cached by prompt plus document hash.
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.Manager
}

// NewService creates the AI service.
func NewService(cfg *config.Config, cacheManager *cache.Manager) (*Service, error) {
	return &Service{
		config:       cfg,
		provider:     gemini.NewClient(cfg),
		cacheManager: cacheManager,
	}, nil
}

// normalizePrompt collapses whitespace so equivalent prompts share one
// cache key.
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")
}

// GenerateText runs a text-only generation request.
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	prompt = normalizePrompt(prompt)

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, prompt, ""); err == nil && val != "" {
			return val, nil
		}
	}

	resp, err := s.provider.Generate(ctx, &provider.Request{Prompt: prompt})
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, prompt, "", resp.Content)
	}

	return resp.Content, nil
}

// ExtractDocument runs a multimodal request against the extraction model,
// attaching the document inline.
func (s *Service) ExtractDocument(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	prompt = normalizePrompt(prompt)
	docKey := string(data)

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, prompt, docKey); err == nil && val != "" {
			return val, nil
		}
	}

	resp, err := s.provider.Generate(ctx, &provider.Request{
		Prompt: prompt,
		Model:  s.config.Gemini.ExtractionModel,
		Document: &provider.Document{
			MIMEType: mimeType,
			Data:     data,
		},
	})
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, prompt, docKey, resp.Content)
	}

	return resp.Content, nil
}

// Close releases the underlying provider.
func (s *Service) Close() error {
	return s.provider.Close()
}
