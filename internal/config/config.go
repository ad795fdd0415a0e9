package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSourceURL 排行榜数据源
	DefaultSourceURL = "https://aoch.wisv.ch/data"

	// 环境变量
	EnvTelegramToken = "TELEGRAM_TOKEN"
	EnvSourceURL     = "AOCH_SOURCE_URL"
)

// Config 机器人配置
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// SourceConfig 排行榜数据源配置
type SourceConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // 请求超时（秒）
}

// ServerConfig HTTP / WebSocket 网关配置
type ServerConfig struct {
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	TrustedProxies []string        `yaml:"trusted_proxies"` // 可信反向代理（IP 或 CIDR），为空时忽略转发头
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig 每个 IP 的渲染请求限制，每次渲染都会请求数据源
type RateLimitConfig struct {
	MaxPerMinute int `yaml:"max_per_minute"` // 每分钟最大请求数
	BanDuration  int `yaml:"ban_duration"`   // 封禁时长（秒）
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// RedisConfig Redis 发布配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// TelegramConfig Telegram 机器人配置，Token 只从环境变量读取
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"-"`
}

// TimeoutDuration 返回请求超时时长
func (c *SourceConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Source.URL == "" {
		c.Source.URL = DefaultSourceURL
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 10
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 1780
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.RateLimit.MaxPerMinute == 0 {
		c.Server.RateLimit.MaxPerMinute = 30
	}
	if c.Server.RateLimit.BanDuration == 0 {
		c.Server.RateLimit.BanDuration = 60
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "aoch:leaderboard"
	}
}

// ApplyEnv 读取 .env 与环境变量覆盖。.env 不存在时不算错误。
func (c *Config) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if token := os.Getenv(EnvTelegramToken); token != "" {
		c.Telegram.Token = token
	}
	if url := os.Getenv(EnvSourceURL); url != "" {
		c.Source.URL = url
	}
	return nil
}
