package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080/api", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.PollInterval)
	assert.Equal(t, 2*time.Second, c.FirstPollDelay)
	assert.Equal(t, 500*time.Millisecond, c.ReassertInterval)
	assert.Equal(t, 2*time.Second, c.TamperInterval)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.False(t, c.HasFixedLocation())
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PAYLOCK_SERVER_URL", "https://lock.example.com/api")
	t.Setenv("PAYLOCK_POLL_INTERVAL", "5s")
	t.Setenv("PAYLOCK_LATITUDE", "4.61")
	t.Setenv("PAYLOCK_LONGITUDE", "-74.08")
	t.Setenv("PAYLOCK_REQUEST_TIMEOUT", "garbage")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://lock.example.com/api", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.HasFixedLocation())
	assert.InDelta(t, 4.61, *cfg.Latitude, 1e-9)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("PAYLOCK_SERVER_URL", "https://env.example.com/api")
	t.Setenv("PAYLOCK_DATA_DIR", "/env")

	cfg, err := LoadConfig([]string{"-a", "http://flag.example.com/api/", "-x", "ignored", "-d=/flag", "-i", "7"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example.com/api", cfg.ServerURL)
	assert.Equal(t, "/flag", cfg.DataDir)
	assert.Equal(t, 7*time.Second, cfg.PollInterval)
}

func TestLoadConfig_RejectsBadInterval(t *testing.T) {
	_, err := LoadConfig([]string{"-i", "0"})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-i", "soon"})
	assert.Error(t, err)
}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"separate value", []string{"-a", "x", "-z", "y"}, []string{"-a", "x"}},
		{"joined value", []string{"-d=/tmp", "--other=1"}, []string{"-d=/tmp"}},
		{"flag without value", []string{"-i", "-a", "u"}, []string{"-i", "-a", "u"}},
		{"nothing known", []string{"run"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, filterArgs(tc.args, knownFlags))
		})
	}
}
