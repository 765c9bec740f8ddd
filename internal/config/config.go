package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type LiveProvider string

const (
	ProviderGemini LiveProvider = "gemini"
	ProviderOpenAI LiveProvider = "openai"
	ProviderYandex LiveProvider = "yandex"
)

type Config struct {
	// Live conversation service
	LiveProvider   LiveProvider `env:"LIVE_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey   string       `env:"GEMINI_API_KEY"`
	GeminiUseADC   bool         `env:"GEMINI_USE_ADC"`
	GeminiModel    string       `env:"GEMINI_MODEL" envDefault:"models/gemini-2.0-flash-exp"`
	GeminiEndpoint string       `env:"GEMINI_ENDPOINT" envDefault:"wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1alpha.GenerativeService.BidiGenerateContent"`

	// Text-only fallback providers
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`
	HistoryLimit     int    `env:"HISTORY_LIMIT" envDefault:"40"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Telegram
	TelegramBotToken  string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers      []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID       int64   `env:"ADMIN_USER"`
	AllowlistFilePath string  `env:"ALLOWLIST_FILE_PATH" envDefault:"data/allowlist.json"`
	PendingFilePath   string  `env:"PENDING_FILE_PATH" envDefault:"data/pending.json"`

	// Catalog and storage
	PersonasFilePath  string `env:"PERSONAS_FILE_PATH"`
	TranscriptLogPath string `env:"TRANSCRIPT_LOG_PATH" envDefault:"logs/sessions.jsonl"`

	// Prompt rendering
	Locale   string `env:"LOCALE" envDefault:"en-US"`
	TimeZone string `env:"TIME_ZONE"`

	// Scheduled jobs, UTC
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SweepSchedule      string        `env:"SWEEP_SCHEDULE" envDefault:"@every 1m"`
	ReportSchedule     string        `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`
}

// ConfigurationError reports a missing or invalid setting. It is fatal at
// start-up.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

// Parse reads the environment and checks that the selected live provider
// has its credentials.
func Parse() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the environment with defaults applied but without provider
// checks. Tools that never open a live session use it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LiveProvider = LiveProvider(strings.ToLower(string(cfg.LiveProvider)))
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LiveProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" && !c.GeminiUseADC {
			return &ConfigurationError{Key: "GEMINI_API_KEY", Reason: "required for the gemini live provider unless GEMINI_USE_ADC is set"}
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &ConfigurationError{Key: "OPENAI_API_KEY", Reason: "required for the openai provider"}
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return &ConfigurationError{Key: "YANDEX_OAUTH_TOKEN", Reason: "token and YANDEX_FOLDER_ID are required for the yandex provider"}
		}
	default:
		return &ConfigurationError{Key: "LIVE_PROVIDER", Reason: fmt.Sprintf("unknown provider %q", c.LiveProvider)}
	}
	if c.SessionIdleTimeout < 0 {
		return &ConfigurationError{Key: "SESSION_IDLE_TIMEOUT", Reason: "must not be negative"}
	}
	return nil
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
