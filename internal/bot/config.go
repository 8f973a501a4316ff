package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/quizbot/internal/scheduler"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	Token string
	Debug bool
	// Long polling timeout in seconds
	UpdateTimeout int
	// Chat that owns the quiz; 0 binds to the first chat that talks to the bot
	OwnerChatID int64
	// Excel or CSV file with the question set; empty uses the built-in set
	QuestionsFile string
	// Shuffle the question order on every restart
	ShuffleQuestions bool
	SchedulerEnabled bool
	// Restart a session untouched for this long; 0 disables
	IdleReset         time.Duration
	IdleCheckInterval time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout:     60,
		SchedulerEnabled:  true,
		IdleReset:         scheduler.DefaultIdleAfter,
		IdleCheckInterval: scheduler.DefaultCheckInterval,
	}
}

// LoadConfig reads the configuration from environment variables on top of
// the defaults
func LoadConfig() (*BotConfig, error) {
	cfg := DefaultConfig()
	cfg.Token = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Debug = getEnvBool("TELEGRAM_DEBUG", cfg.Debug)
	cfg.UpdateTimeout = getEnvInt("TELEGRAM_UPDATE_TIMEOUT", cfg.UpdateTimeout)
	cfg.QuestionsFile = getEnv("QUIZ_QUESTIONS_FILE", "")
	cfg.ShuffleQuestions = getEnvBool("QUIZ_SHUFFLE", cfg.ShuffleQuestions)
	cfg.SchedulerEnabled = getEnvBool("ENABLE_SCHEDULER", cfg.SchedulerEnabled)

	if v := getEnv("QUIZ_OWNER_CHAT_ID", ""); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid QUIZ_OWNER_CHAT_ID %q: %w", v, err)
		}
		cfg.OwnerChatID = id
	}

	var err error
	if cfg.IdleReset, err = getEnvDuration("QUIZ_IDLE_RESET", cfg.IdleReset); err != nil {
		return nil, err
	}
	if cfg.IdleCheckInterval, err = getEnvDuration("QUIZ_IDLE_CHECK_INTERVAL", cfg.IdleCheckInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set
func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if c.UpdateTimeout <= 0 {
		return fmt.Errorf("TELEGRAM_UPDATE_TIMEOUT must be > 0")
	}
	if c.IdleReset < 0 {
		return fmt.Errorf("QUIZ_IDLE_RESET cannot be negative")
	}
	if c.IdleCheckInterval <= 0 {
		return fmt.Errorf("QUIZ_IDLE_CHECK_INTERVAL must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
