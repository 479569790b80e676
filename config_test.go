package nutriplan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joeshaw/envdecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyConfigDecode(t *testing.T) {
	t.Run("defaults disable notification", func(t *testing.T) {
		t.Setenv("SLACK_WEBHOOK", "")
		t.Setenv("SLACK_CHANNEL", "")

		var cfg NotifyConfig
		require.NoError(t, envdecode.Decode(&cfg))
		assert.Empty(t, cfg.SlackWebhook)
	})

	t.Run("webhook and channel from env", func(t *testing.T) {
		t.Setenv("SLACK_WEBHOOK", "https://hooks.slack.com/services/T0/B0/xyz")
		t.Setenv("SLACK_CHANNEL", "#clinic")

		var cfg NotifyConfig
		require.NoError(t, envdecode.Decode(&cfg))
		assert.Equal(t, "https://hooks.slack.com/services/T0/B0/xyz", cfg.SlackWebhook)
		assert.Equal(t, "#clinic", cfg.SlackChannel)
	})
}

func TestLoadTuning(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		tuning, err := LoadTuning(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultTuning(), tuning)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.toml")
		require.NoError(t, os.WriteFile(path, []byte("auto_accept_threshold = 0.9\n"), 0o644))

		tuning, err := LoadTuning(path)
		require.NoError(t, err)
		assert.InDelta(t, 0.9, tuning.AutoAcceptThreshold, 1e-9)
		assert.InDelta(t, 0.30, tuning.AutoRejectFloor, 1e-9)
	})

	t.Run("inverted band rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.toml")
		require.NoError(t, os.WriteFile(path, []byte("auto_accept_threshold = 0.2\n"), 0o644))

		_, err := LoadTuning(path)
		require.Error(t, err)
	})
}
