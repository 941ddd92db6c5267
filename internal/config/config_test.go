package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) Lookup {
	return func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	}
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadWith("", env(nil))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		level, err := cfg.Level()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelInfo, level)
	})

	t.Run("FileThenEnvironment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "groceries.yaml")
		contents := []byte("databasePath: /var/lib/groceries.db\nlistenAddr: :9000\nevents:\n  buffer: 8\n  keepAlive: 5s\naws:\n  topicArn: arn:aws:sns:us-east-1:123:groceries\n")
		require.NoError(t, os.WriteFile(path, contents, 0644))

		cfg, err := LoadWith(path, env(map[string]string{
			"LISTEN_ADDR":      ":9100",
			"EVENTS_KEEPALIVE": "30s",
			"LOG_LEVEL":        "debug",
			"CORS_ORIGINS":     "https://kitchen.example, http://localhost:3000,",
		}))
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/groceries.db", cfg.DatabasePath)
		assert.Equal(t, ":9100", cfg.ListenAddr)
		assert.Equal(t, 8, cfg.Events.Buffer)
		assert.Equal(t, 30*time.Second, cfg.Events.KeepAlive)
		assert.Equal(t, "arn:aws:sns:us-east-1:123:groceries", cfg.AWS.TopicArn)
		assert.Equal(t, "us-east-1", cfg.AWS.Region)
		level, err := cfg.Level()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)
		assert.Equal(t, []string{"https://kitchen.example", "http://localhost:3000"}, cfg.CorsOrigins)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadWith(filepath.Join(t.TempDir(), "missing.yaml"), env(nil))
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		cases := map[string]map[string]string{
			"buffer not a number": {"EVENTS_BUFFER": "lots"},
			"zero buffer":         {"EVENTS_BUFFER": "0"},
			"bad keepalive":       {"EVENTS_KEEPALIVE": "soon"},
			"negative keepalive":  {"EVENTS_KEEPALIVE": "-1s"},
			"empty database":      {"DATABASE_PATH": ""},
			"bad level":           {"LOG_LEVEL": "chatty"},
			"topic without region": {
				"TOPIC_ARN":  "arn:aws:sns:us-east-1:123:groceries",
				"AWS_REGION": "",
			},
		}
		for name, values := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := LoadWith("", env(values))
				assert.Error(t, err)
			})
		}
	})
}
