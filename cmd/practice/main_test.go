package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"session-ready/internal/config"
	"session-ready/internal/live"
	"session-ready/internal/persona"
)

func TestRootCommandWiring(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if chatCmd.Flags().Lookup("persona") == nil {
		t.Error("chat should have a --persona flag")
	}
	if personasCmd.Flags().Lookup("search") == nil {
		t.Error("personas should have a --search flag")
	}
}

func TestRunPersonasFiltersBySearch(t *testing.T) {
	t.Setenv("PERSONAS_FILE_PATH", "")
	searchFlag = "grie"
	defer func() { searchFlag = "" }()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runPersonas(cmd, nil); err != nil {
		t.Fatalf("runPersonas: %v", err)
	}
	if !strings.Contains(out.String(), "aiko-grieving") || strings.Contains(out.String(), "malik-anxious") {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}

func TestRunPersonasReadsPackWithoutCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	pack := "personas:\n  - id: sam-burnout\n    name: Sam\n    personality: Burned-out nurse.\n    voice: Orus\n"
	if err := os.WriteFile(path, []byte(pack), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PERSONAS_FILE_PATH", path)
	t.Setenv("LIVE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runPersonas(cmd, nil); err != nil {
		t.Fatalf("runPersonas: %v", err)
	}
	if !strings.Contains(out.String(), "sam-burnout") {
		t.Errorf("custom persona missing:\n%s", out.String())
	}
}

func TestRunPromptUsesConfiguredLocale(t *testing.T) {
	t.Setenv("PERSONAS_FILE_PATH", "")
	t.Setenv("LOCALE", "not a locale!")
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	if err := runPrompt(cmd, []string{"malik-anxious"}); err == nil {
		t.Error("expected error for an invalid LOCALE")
	}
}

func TestRunPromptUnknownPersona(t *testing.T) {
	t.Setenv("PERSONAS_FILE_PATH", "")
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	if err := runPrompt(cmd, []string{"nobody"}); err == nil {
		t.Error("expected error for unknown persona")
	}
}

func TestChatREPL(t *testing.T) {
	fake := live.NewFake()
	var out bytes.Buffer
	in := strings.NewReader("hello\n/begin\nHow are you feeling today?\n/transcript\n/end\nexit\n")

	err := runChatWithOptions(context.Background(), ChatOptions{
		Config:  &config.Config{LiveProvider: config.ProviderGemini, Locale: "en-US", GeminiModel: "models/g"},
		NewLive: func(*config.Config) (live.Client, error) { return fake, nil },
		Stdin:   in,
		Stdout:  &out,
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	malik := persona.ListBuiltins()[0]
	got := out.String()
	if !strings.Contains(got, "Error: no active session") {
		t.Errorf("submit before /begin should fail:\n%s", got)
	}
	if !strings.Contains(got, malik.Name+": "+malik.InitialGreeting) {
		t.Errorf("greeting not printed:\n%s", got)
	}
	if !strings.Contains(got, "You: How are you feeling today?") {
		t.Errorf("transcript missing operator turn:\n%s", got)
	}
	if !strings.Contains(got, "Session ended.") {
		t.Errorf("end not confirmed:\n%s", got)
	}

	cfgs := fake.Configs()
	if len(cfgs) != 1 || cfgs[0].Modalities[0] != live.ModalityText {
		t.Errorf("terminal chat should request text replies: %+v", cfgs)
	}
}
