// Package config holds the device agent's runtime settings.
//
// Values are resolved in three stages, later stages overriding earlier ones:
// built-in defaults, PAYLOCK_* environment variables, then command-line
// flags (-a server URL, -d data directory, -i poll interval in seconds).
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the paylock agent.
type Config struct {
	ServerURL string
	DataDir   string
	LogLevel  string

	// Credentials used to obtain a session when none is stored yet.
	Username string
	Password string
	DeviceID string

	PollInterval     time.Duration
	FirstPollDelay   time.Duration
	ReassertInterval time.Duration
	TamperInterval   time.Duration
	LocationInterval time.Duration
	RequestTimeout   time.Duration
	RestartBackoff   time.Duration

	// TamperSensorPath is read by the debug-bridge sensor; "1" means active.
	TamperSensorPath string

	// Fixed coordinates reported by the location tracker. The tracker is
	// disabled while either is unset.
	Latitude  *float64
	Longitude *float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.DataDir = defaultDataDir()
	c.LogLevel = "info"
	c.DeviceID = defaultDeviceID()

	c.PollInterval = 10 * time.Second
	c.FirstPollDelay = 2 * time.Second
	c.ReassertInterval = 500 * time.Millisecond
	c.TamperInterval = 2 * time.Second
	c.LocationInterval = 5 * time.Minute
	c.RequestTimeout = 15 * time.Second
	c.RestartBackoff = 3 * time.Second

	c.TamperSensorPath = ""
}

// LoadConfig constructs a Config from defaults, the environment and args
// (normally os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(cfg *Config) {
	cfg.ServerURL = getEnv("PAYLOCK_SERVER_URL", cfg.ServerURL)
	cfg.DataDir = getEnv("PAYLOCK_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getEnv("PAYLOCK_LOG_LEVEL", cfg.LogLevel)
	cfg.Username = getEnv("PAYLOCK_USERNAME", cfg.Username)
	cfg.Password = getEnv("PAYLOCK_PASSWORD", cfg.Password)
	cfg.DeviceID = getEnv("PAYLOCK_DEVICE_ID", cfg.DeviceID)
	cfg.TamperSensorPath = getEnv("PAYLOCK_TAMPER_SENSOR", cfg.TamperSensorPath)

	cfg.PollInterval = getDuration("PAYLOCK_POLL_INTERVAL", cfg.PollInterval)
	cfg.ReassertInterval = getDuration("PAYLOCK_REASSERT_INTERVAL", cfg.ReassertInterval)
	cfg.TamperInterval = getDuration("PAYLOCK_TAMPER_INTERVAL", cfg.TamperInterval)
	cfg.LocationInterval = getDuration("PAYLOCK_LOCATION_INTERVAL", cfg.LocationInterval)
	cfg.RequestTimeout = getDuration("PAYLOCK_REQUEST_TIMEOUT", cfg.RequestTimeout)

	if v, ok := getFloat("PAYLOCK_LATITUDE"); ok {
		cfg.Latitude = &v
	}
	if v, ok := getFloat("PAYLOCK_LONGITUDE"); ok {
		cfg.Longitude = &v
	}
}

// HasFixedLocation reports whether both coordinates are configured
func (c *Config) HasFixedLocation() bool {
	return c.Latitude != nil && c.Longitude != nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getFloat(key string) (float64, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "paylock"
	}
	return ".paylock"
}

func defaultDeviceID() string {
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown-device"
}
