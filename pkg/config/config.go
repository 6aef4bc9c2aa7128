package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"CryptoPulse/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Pipeline struct {
		CacheTTL        time.Duration `yaml:"cache_ttl"`     // minutes-order TTL in front of aggregation
		FetchTimeout    time.Duration `yaml:"fetch_timeout"` // global adapter fan-out deadline
		HistoryCapacity int           `yaml:"history_capacity"`
		CuratedLimit    int           `yaml:"curated_limit"`
		RefreshRPS      float64       `yaml:"refresh_rps"` // force-refresh token refill per second
		TrustedSources  []string      `yaml:"trusted_sources"`
	} `yaml:"pipeline"`
	Sentiment struct {
		Engine      string   `yaml:"engine"` // "lexical" or "vader"
		Positive    []string `yaml:"positive"`
		Negative    []string `yaml:"negative"`
		Neutral     []string `yaml:"neutral"`
		KeyPatterns []string `yaml:"key_patterns"`
	} `yaml:"sentiment"`
	Sources struct {
		News struct {
			URL     string        `yaml:"url"`
			APIKey  string        `yaml:"api_key"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"news"`
		Video struct {
			URL     string        `yaml:"url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"video"`
		Onchain struct {
			WebSocketURL   string        `yaml:"websocket_url"`
			Channels       []string      `yaml:"channels"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
			MaxPerSec      int           `yaml:"max_per_sec"`
			BufferSize     int           `yaml:"buffer_size"`
		} `yaml:"onchain"`
	} `yaml:"sources"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		SocialTopic  string   `yaml:"social_topic"`
		DigestTopic  string   `yaml:"digest_topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.Sources.News.APIKey = v
	}
	if v := os.Getenv("ONCHAIN_WS_URL"); v != "" {
		c.Sources.Onchain.WebSocketURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_SOCIAL_TOPIC"); v != "" {
		c.Kafka.SocialTopic = v
	}
	if v := os.Getenv("TRUSTED_SOURCES"); v != "" {
		c.Pipeline.TrustedSources = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.CacheTTL <= 0 {
		c.Pipeline.CacheTTL = 5 * time.Minute
	}
	if c.Pipeline.FetchTimeout <= 0 {
		c.Pipeline.FetchTimeout = 20 * time.Second
	}
	if c.Pipeline.HistoryCapacity <= 0 {
		c.Pipeline.HistoryCapacity = 100
	}
	if c.Pipeline.CuratedLimit <= 0 {
		c.Pipeline.CuratedLimit = 10
	}
	if c.Pipeline.RefreshRPS <= 0 {
		c.Pipeline.RefreshRPS = 0.2
	}
	if c.Sentiment.Engine == "" {
		c.Sentiment.Engine = "lexical"
	}
	if c.Sources.Onchain.BufferSize <= 0 {
		c.Sources.Onchain.BufferSize = 1024
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Sentiment.Engine != "lexical" && c.Sentiment.Engine != "vader" {
		return fmt.Errorf("sentiment.engine must be 'lexical' or 'vader', got '%s'", c.Sentiment.Engine)
	}
	if c.Sentiment.Engine == "lexical" && (len(c.Sentiment.Positive) == 0 || len(c.Sentiment.Negative) == 0) {
		return fmt.Errorf("sentiment phrase tables cannot be empty for lexical engine")
	}
	if c.Sources.News.URL == "" {
		return fmt.Errorf("sources.news.url is required")
	}
	return nil
}
