// Package config resolves server settings from defaults, an optional YAML
// file and environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AWS struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	TopicArn string `yaml:"topicArn"`
}

type Events struct {
	Buffer    int           `yaml:"buffer"`
	KeepAlive time.Duration `yaml:"keepAlive"`
}

type Config struct {
	DatabasePath string `yaml:"databasePath"`
	ListenAddr   string `yaml:"listenAddr"`
	TokenSecret  string `yaml:"tokenSecret"`
	LogLevel     string `yaml:"logLevel"`
	AWS          AWS    `yaml:"aws"`
	Events       Events `yaml:"events"`

	// CorsOrigins lists the browser origins allowed to call the API. Empty
	// allows any origin.
	CorsOrigins []string `yaml:"corsOrigins"`
}

func Default() Config {
	return Config{
		DatabasePath: "data/groceries.db",
		ListenAddr:   ":8080",
		LogLevel:     "info",
		AWS: AWS{
			Region: "us-east-1",
		},
		Events: Events{
			Buffer:    32,
			KeepAlive: 15 * time.Second,
		},
	}
}

// Lookup matches os.LookupEnv.
type Lookup func(name string) (string, bool)

// Load reads the process environment. An empty path skips the file.
func Load(path string) (Config, error) {
	return LoadWith(path, os.LookupEnv)
}

func LoadWith(path string, lookup Lookup) (Config, error) {
	cfg := Default()
	if path != "" {
		contents, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup Lookup) error {
	fields := map[string]*string{
		"DATABASE_PATH": &c.DatabasePath,
		"LISTEN_ADDR":   &c.ListenAddr,
		"TOKEN_SECRET":  &c.TokenSecret,
		"LOG_LEVEL":     &c.LogLevel,
		"AWS_REGION":    &c.AWS.Region,
		"AWS_ENDPOINT":  &c.AWS.Endpoint,
		"TOPIC_ARN":     &c.AWS.TopicArn,
	}
	for name, field := range fields {
		if value, ok := lookup(name); ok {
			*field = value
		}
	}
	if value, ok := lookup("CORS_ORIGINS"); ok {
		c.CorsOrigins = nil
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CorsOrigins = append(c.CorsOrigins, origin)
			}
		}
	}
	if value, ok := lookup("EVENTS_BUFFER"); ok {
		buffer, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("EVENTS_BUFFER is not a number: %q", value)
		}
		c.Events.Buffer = buffer
	}
	if value, ok := lookup("EVENTS_KEEPALIVE"); ok {
		keepAlive, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("EVENTS_KEEPALIVE is not a duration: %q", value)
		}
		c.Events.KeepAlive = keepAlive
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("databasePath is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listenAddr is required")
	}
	if c.Events.Buffer <= 0 {
		return fmt.Errorf("events.buffer must be positive, got %d", c.Events.Buffer)
	}
	if c.Events.KeepAlive <= 0 {
		return fmt.Errorf("events.keepAlive must be positive, got %s", c.Events.KeepAlive)
	}
	if c.AWS.TopicArn != "" && c.AWS.Region == "" {
		return fmt.Errorf("aws.region is required when a topic is configured")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the process logger. JSON output suits the Lambda runtime,
// text the local server.
func (c *Config) NewLogger(json bool) *slog.Logger {
	level, _ := c.Level()
	options := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stderr, options))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, options))
}
