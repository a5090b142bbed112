package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	pkgerrors "github.com/Conte777/SupportFlow/pkg/errors"
)

// Config holds all configuration for the support bot
type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	Relay    RelayConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// DatabaseConfig holds storage configuration
type DatabaseConfig struct {
	Engine string // "sqlite" or "postgres"
	DSN    string
}

// RelayConfig holds the relay core configuration
type RelayConfig struct {
	AdminGroupID       int64
	HelloMsg           string
	FirstReply         string
	ContactGateMsg     string
	ContactUnlockedMsg string
	// Destruction windows in hours, zero disables the window
	DestructUserHours int
	DestructBotHours  int
	StatsTopicID      int
	StatsTopicName    string
	StateDir          string
	MenuFile          string
	QuickRepliesFile  string
	FilesDir          string
}

// ExportConfig holds the message export sink configuration.
// No brokers means the export sink is disabled.
type ExportConfig struct {
	Brokers []string
	Topic   string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Database *DatabaseConfig
	Relay    *RelayConfig
	Export   *ExportConfig
	Logging  *LoggingConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Database: &cfg.Database,
		Relay:    &cfg.Relay,
		Export:   &cfg.Export,
		Logging:  &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	stateDir := getEnv("STATE_DIR", "./state")

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Engine: getEnv("DB_ENGINE", "sqlite"),
			DSN:    getEnv("DB_DSN", filepath.Join(stateDir, "support.sqlite")),
		},
		Relay: RelayConfig{
			HelloMsg: getEnv("HELLO_MSG",
				"Hello! 👋 You have reached the support desk.\n\n"+
					"To write to an operator, tap the button in the menu below."),
			FirstReply: getEnv("FIRST_REPLY_MSG",
				"✅ We received your message and will answer as soon as we can.\n"+
					"Please keep this chat so we can reach you back."),
			ContactGateMsg: getEnv("CONTACT_GATE_MSG",
				"✉️ To contact support, tap the \"Contact operator\" button in the menu below. "+
					"Your messages reach an operator only after that."),
			ContactUnlockedMsg: getEnv("CONTACT_UNLOCKED_MSG",
				"✉️ The support chat is open.\n\nDescribe your problem in one message."),
			StatsTopicName:   getEnv("STATS_TOPIC_NAME", "Weekly statistics"),
			StateDir:         stateDir,
			MenuFile:         getEnv("MENU_FILE", filepath.Join(stateDir, "menu.toml")),
			QuickRepliesFile: getEnv("QUICK_REPLIES_FILE", filepath.Join(stateDir, "admin_replies.toml")),
			FilesDir:         getEnv("FILES_DIR", filepath.Join(stateDir, "files")),
		},
		Export: ExportConfig{
			Topic: getEnv("KAFKA_EXPORT_TOPIC", "support.messages"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Export.Brokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.Relay.AdminGroupID, err = getEnvInt64("ADMIN_GROUP_ID"); err != nil {
		return nil, err
	}
	if cfg.Relay.DestructUserHours, err = getEnvInt("DESTRUCT_USER_MESSAGES_HOURS"); err != nil {
		return nil, err
	}
	if cfg.Relay.DestructBotHours, err = getEnvInt("DESTRUCT_BOT_MESSAGES_HOURS"); err != nil {
		return nil, err
	}
	if cfg.Relay.StatsTopicID, err = getEnvInt("STATS_TOPIC_ID"); err != nil {
		return nil, err
	}
	// The stats topic id may also be cached in the state dir from a
	// previous run; the env var wins when both are set.
	if cfg.Relay.StatsTopicID == 0 {
		cfg.Relay.StatsTopicID = readCachedStatsTopicID(stateDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return pkgerrors.NewValidationError("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Relay.AdminGroupID == 0 {
		return pkgerrors.NewValidationError("ADMIN_GROUP_ID is required")
	}
	if c.Database.Engine != "sqlite" && c.Database.Engine != "postgres" {
		return pkgerrors.NewValidationError("DB_ENGINE must be sqlite or postgres")
	}

	for name, hours := range map[string]int{
		"DESTRUCT_USER_MESSAGES_HOURS": c.Relay.DestructUserHours,
		"DESTRUCT_BOT_MESSAGES_HOURS":  c.Relay.DestructBotHours,
	} {
		if hours != 0 && (hours < 1 || hours > 47) {
			return pkgerrors.NewValidationError(name + " must be between 1 and 47 (hours)")
		}
	}

	return nil
}

// StatsTopicIDFile is where the created stats topic id is cached between runs
func StatsTopicIDFile(stateDir string) string {
	return filepath.Join(stateDir, "stats_topic_id.txt")
}

func readCachedStatsTopicID(stateDir string) int {
	data, err := os.ReadFile(StatsTopicIDFile(stateDir))
	if err != nil {
		return 0
	}
	id, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return id
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, pkgerrors.NewValidationError(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return n, nil
}

func getEnvInt64(key string) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, pkgerrors.NewValidationError(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return n, nil
}
