package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for LLM_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port         string
	DatabaseURL  string
	DatabasePath string

	LLMProvider     string
	LLMModel        string
	GoogleAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	ContextLimit   int
	MaxAttempts    int
	RetryDelay     time.Duration
	RequestTimeout time.Duration

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	DigestRecipient      string
	DigestSchedule       string
	LocalTimezone        *time.Location

	// parseErrs holds values Load could not parse; Validate reports them.
	parseErrs []error
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	cfg := &Config{
		Port:         getenvDefault("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getenvDefault("DATABASE_PATH", "memory.db"),

		LLMProvider:     strings.ToLower(getenvDefault("LLM_PROVIDER", ProviderGemini)),
		LLMModel:        os.Getenv("LLM_MODEL"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		DigestRecipient:      os.Getenv("DIGEST_RECIPIENT"),
		DigestSchedule:       getenvDefault("DIGEST_SCHEDULE", "0 8 * * *"),
		LocalTimezone:        location,
	}

	cfg.ContextLimit = cfg.intEnv("CONTEXT_LIMIT", 10)
	cfg.MaxAttempts = cfg.intEnv("LLM_MAX_ATTEMPTS", 3)
	cfg.RetryDelay = cfg.durationEnv("LLM_RETRY_DELAY", 2*time.Second)
	cfg.RequestTimeout = cfg.durationEnv("LLM_REQUEST_TIMEOUT", 30*time.Second)

	return cfg
}

// Validate reports configuration that must stop the process at startup.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	switch c.LLMProvider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required when LLM_PROVIDER=gemini"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai"))
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}

	if c.ContextLimit < 1 {
		errs = append(errs, fmt.Errorf("CONTEXT_LIMIT must be at least 1, got %d", c.ContextLimit))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("LLM_RETRY_DELAY must not be negative, got %s", c.RetryDelay))
	}

	return errors.Join(errs...)
}

// DigestEnabled reports whether the Twilio digest has everything it needs.
func (c *Config) DigestEnabled() bool {
	return c.TwilioAccountSID != "" &&
		c.TwilioAuthToken != "" &&
		c.TwilioWhatsAppNumber != "" &&
		c.DigestRecipient != ""
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseIntEnv parses an integer environment variable. An unset variable yields def.
func ParseIntEnv(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def, fmt.Errorf("%s=%q is not an integer: %w", key, value, err)
	}
	return parsed, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def, fmt.Errorf("%s=%q is not a duration: %w", key, value, err)
	}
	return parsed, nil
}

func (c *Config) intEnv(key string, def int) int {
	value, err := ParseIntEnv(key, def)
	if err != nil {
		log.Printf("config: %v", err)
		c.parseErrs = append(c.parseErrs, err)
	}
	return value
}

func (c *Config) durationEnv(key string, def time.Duration) time.Duration {
	value, err := parseDurationEnv(key, def)
	if err != nil {
		log.Printf("config: %v", err)
		c.parseErrs = append(c.parseErrs, err)
	}
	return value
}
