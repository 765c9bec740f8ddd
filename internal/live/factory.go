package live

import (
	"context"
	"fmt"

	"github.com/Morwran/yagpt"
	"golang.org/x/oauth2/google"

	"session-ready/internal/config"
	"session-ready/internal/history"
	"session-ready/internal/llm"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NewFromConfig builds the client for the configured provider. Only gemini
// speaks; the others are text-only bridges over a chat-completion model.
func NewFromConfig(cfg *config.Config) (Client, error) {
	if cfg.LiveProvider == config.ProviderGemini {
		if cfg.GeminiAPIKey == "" && cfg.GeminiUseADC {
			ts, err := google.DefaultTokenSource(context.Background(), cloudPlatformScope)
			if err != nil {
				return nil, fmt.Errorf("find default credentials: %w", err)
			}
			return NewGeminiWithTokenSource(cfg.GeminiEndpoint, ts), nil
		}
		return NewGemini(cfg.GeminiEndpoint, cfg.GeminiAPIKey), nil
	}
	textClient, err := llm.NewFactory(cfg).CreateClient(cfg.LiveProvider)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.LiveProvider, err)
	}
	return NewTextBridge(textClient, history.NewManager(cfg.HistoryLimit)), nil
}

// ModelFor returns the model name the configured provider answers with.
func ModelFor(cfg *config.Config) string {
	switch cfg.LiveProvider {
	case config.ProviderGemini:
		return cfg.GeminiModel
	case config.ProviderYandex:
		return yagpt.YaModelLite
	default:
		return cfg.OpenAIModel
	}
}
