package config

import (
	"fmt"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string

	WorkerConcurrency  int
	FetchUserAgent     string
	FetchHeaderProfile string
	FetchCacheTTL      int
	RecentLimit        int
}

// FileConfig is the optional YAML overlay read from CONFIG_FILE.
type FileConfig struct {
	AppEnv   string `yaml:"appEnv"`
	HTTPAddr string `yaml:"httpAddr"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
	} `yaml:"redis"`

	Worker struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"worker"`

	Fetch struct {
		UserAgent     string `yaml:"userAgent"`
		HeaderProfile string `yaml:"headerProfile"`
		CacheTTL      int    `yaml:"cacheTTL"`
	} `yaml:"fetch"`

	RecentLimit int `yaml:"recentLimit"`
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func defaults() Config {
	return Config{
		AppEnv:             "development",
		HTTPAddr:           ":8081",
		WorkerConcurrency:  10,
		FetchUserAgent:     "StyleScraperBot/1.0",
		FetchHeaderProfile: "bot",
		RecentLimit:        10,
	}
}

// Load builds the configuration from defaults, then CONFIG_FILE (if set), then
// the environment. Environment values win.
func Load() Config {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			panic(fmt.Errorf("config file: %w", err))
		}
		cfg = fc.apply(cfg)
	}
	return fromEnv(cfg)
}

func fromEnv(base Config) Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", base.AppEnv),
		HTTPAddr:      getenv("HTTP_ADDR", base.HTTPAddr),
		RedisAddr:     getenv("REDIS_ADDR", base.RedisAddr),
		RedisPassword: getenv("REDIS_PASSWORD", base.RedisPassword),

		WorkerConcurrency:  getenvInt("WORKER_CONCURRENCY", base.WorkerConcurrency),
		FetchUserAgent:     getenv("FETCH_USER_AGENT", base.FetchUserAgent),
		FetchHeaderProfile: getenv("FETCH_HEADER_PROFILE", base.FetchHeaderProfile),
		FetchCacheTTL:      getenvInt("FETCH_CACHE_TTL", base.FetchCacheTTL),
		RecentLimit:        getenvInt("RECENT_LIMIT", base.RecentLimit),
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 10
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 1
	}
	return cfg
}

// LoadFile parses a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg Config) Config {
	if fc.AppEnv != "" {
		cfg.AppEnv = fc.AppEnv
	}
	if fc.HTTPAddr != "" {
		cfg.HTTPAddr = fc.HTTPAddr
	}
	if fc.Redis.Addr != "" {
		cfg.RedisAddr = fc.Redis.Addr
	}
	if fc.Redis.Password != "" {
		cfg.RedisPassword = fc.Redis.Password
	}
	if fc.Worker.Concurrency > 0 {
		cfg.WorkerConcurrency = fc.Worker.Concurrency
	}
	if fc.Fetch.UserAgent != "" {
		cfg.FetchUserAgent = fc.Fetch.UserAgent
	}
	if fc.Fetch.HeaderProfile != "" {
		cfg.FetchHeaderProfile = fc.Fetch.HeaderProfile
	}
	if fc.Fetch.CacheTTL > 0 {
		cfg.FetchCacheTTL = fc.Fetch.CacheTTL
	}
	if fc.RecentLimit > 0 {
		cfg.RecentLimit = fc.RecentLimit
	}
	return cfg
}

// RedisEnabled reports whether a Redis address was configured.
func (c Config) RedisEnabled() bool { return c.RedisAddr != "" }
