package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults when the file is missing", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
		assert.Equal(t, LockStrategyLocal, cfg.Assignment.LockStrategy)
		assert.Equal(t, 10*time.Second, cfg.Assignment.LockTTL)
		assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes())
	})

	t.Run("should read yaml and let the environment win", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: "9000"
  mode: release
storage:
  driver: postgres
assignment:
  lock_strategy: redis
  lock_ttl: 3s
jwt:
  secret: from-file
`)
		t.Setenv("SERVER_PORT", "9100")
		t.Setenv("ASSIGNMENT_LOCK_TTL", "7s")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "9100", cfg.Server.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
		assert.Equal(t, LockStrategyRedis, cfg.Assignment.LockStrategy)
		assert.Equal(t, 7*time.Second, cfg.Assignment.LockTTL)
		assert.Equal(t, "from-file", cfg.JWT.Secret)
	})

	t.Run("should reject a missing jwt secret", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: \"8080\"\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "JWT secret")
	})

	t.Run("should reject unknown drivers and strategies", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "storage driver")

		t.Setenv("STORAGE_DRIVER", "file")
		t.Setenv("ASSIGNMENT_LOCK_STRATEGY", "zookeeper")
		_, err = LoadConfig("")
		assert.ErrorContains(t, err, "lock strategy")
	})
}

func TestApplyEnv(t *testing.T) {
	var target struct {
		Name  string        `env:"NAME"`
		Count int           `env:"COUNT"`
		On    bool          `env:"ON"`
		Wait  time.Duration `env:"WAIT"`
		Tags  []string      `env:"TAGS"`
		Inner struct {
			Value string `env:"INNER"`
		}
	}
	env := map[string]string{
		"NAME": "x", "COUNT": "4", "ON": "true", "WAIT": "2m", "TAGS": "a, b,,c", "INNER": "deep",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	require.NoError(t, applyEnv(reflect.ValueOf(&target), lookup))
	assert.Equal(t, "x", target.Name)
	assert.Equal(t, 4, target.Count)
	assert.True(t, target.On)
	assert.Equal(t, 2*time.Minute, target.Wait)
	assert.Equal(t, []string{"a", "b", "c"}, target.Tags)
	assert.Equal(t, "deep", target.Inner.Value)

	env["COUNT"] = "many"
	assert.Error(t, applyEnv(reflect.ValueOf(&target), lookup))
}
