package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Conte777/SupportFlow/pkg/errors"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("ADMIN_GROUP_ID", "-1001234567890")
	t.Setenv("STATE_DIR", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Engine)
	require.Equal(t, "info", cfg.Logging.Level)
	require.EqualValues(t, -1001234567890, cfg.Relay.AdminGroupID)
	require.Zero(t, cfg.Relay.DestructUserHours)
	require.Empty(t, cfg.Export.Brokers)
	require.NotEmpty(t, cfg.Relay.HelloMsg)
}

func TestLoad_MissingTokenFails(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ADMIN_GROUP_ID", "-100123")

	_, err := Load()
	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))
}

func TestLoad_MissingGroupFails(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("ADMIN_GROUP_ID", "")

	_, err := Load()
	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))
}

func TestLoad_DestructWindowBounds(t *testing.T) {
	setRequiredEnv(t)

	// 48 hours is past the transport's deletion horizon
	t.Setenv("DESTRUCT_USER_MESSAGES_HOURS", "48")
	_, err := Load()
	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))

	t.Setenv("DESTRUCT_USER_MESSAGES_HOURS", "47")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 47, cfg.Relay.DestructUserHours)

	// Zero disables the window
	t.Setenv("DESTRUCT_USER_MESSAGES_HOURS", "0")
	cfg, err = Load()
	require.NoError(t, err)
	require.Zero(t, cfg.Relay.DestructUserHours)
}

func TestLoad_NonIntegerEnvFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DESTRUCT_BOT_MESSAGES_HOURS", "two")

	_, err := Load()
	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))
}

func TestLoad_KafkaBrokersSplit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Export.Brokers)
}

func TestLoad_CachedStatsTopicID(t *testing.T) {
	setRequiredEnv(t)
	stateDir := os.Getenv("STATE_DIR")
	require.NoError(t, os.WriteFile(StatsTopicIDFile(stateDir), []byte("321\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 321, cfg.Relay.StatsTopicID)

	// The env var wins over the cached file
	t.Setenv("STATS_TOPIC_ID", "777")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 777, cfg.Relay.StatsTopicID)
}

func TestValidate_BadEngine(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{BotToken: "t"},
		Relay:    RelayConfig{AdminGroupID: -1},
		Database: DatabaseConfig{Engine: "mysql"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))
}

func TestStatsTopicIDFile(t *testing.T) {
	require.Equal(t, filepath.Join("/tmp/state", "stats_topic_id.txt"), StatsTopicIDFile("/tmp/state"))
}
