package llm

import (
	"testing"

	"session-ready/internal/config"
)

func TestFactoryCreatesOpenAI(t *testing.T) {
	f := NewFactory(&config.Config{OpenAIAPIKey: "k", OpenAIModel: "gpt-4o-mini", OpenRouterTitle: "session-ready"})
	c, err := f.CreateClient("OpenAI")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok {
		t.Fatalf("want *OpenAIClient, got %T", c)
	}
	if oc.model != "gpt-4o-mini" {
		t.Fatalf("model not propagated: %q", oc.model)
	}
}

func TestFactoryRejectsRealtimeProvider(t *testing.T) {
	f := NewFactory(&config.Config{})
	if _, err := f.CreateClient(config.ProviderGemini); err == nil {
		t.Fatalf("gemini has no text client")
	}
}
