package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	ChessCom PlatformConfig `yaml:"chesscom"`
	Lichess  PlatformConfig `yaml:"lichess"`
	Sync     SyncConfig     `yaml:"sync"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// PlatformConfig configures one external platform API client.
type PlatformConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit time.Duration `yaml:"rate_limit"`
	Retry     RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type SyncConfig struct {
	// MaxGamesPerSource caps how many games one sync collects per
	// platform. Zero means unlimited.
	MaxGamesPerSource int `yaml:"max_games_per_source"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "chess_dashboard"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "analysis"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "analysis_requests"
	}
	if c.ChessCom.BaseURL == "" {
		c.ChessCom.BaseURL = "https://api.chess.com"
	}
	if c.Lichess.BaseURL == "" {
		c.Lichess.BaseURL = "https://lichess.org"
	}
	for _, p := range []*PlatformConfig{&c.ChessCom, &c.Lichess} {
		if p.Timeout == 0 {
			p.Timeout = 30 * time.Second
		}
		if p.RateLimit == 0 {
			p.RateLimit = 500 * time.Millisecond
		}
		if p.Retry.MaxAttempts == 0 {
			p.Retry.MaxAttempts = 3
		}
		if p.Retry.InitialBackoff == 0 {
			p.Retry.InitialBackoff = 1 * time.Second
		}
		if p.Retry.MaxBackoff == 0 {
			p.Retry.MaxBackoff = 30 * time.Second
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
