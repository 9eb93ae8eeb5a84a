package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（API密钥、币种白名单等）

type BinanceConfig struct {
	ApiKey          string `yaml:"api-key"`
	ApiSecret       string `yaml:"api-secret"`
	BaseURL         string `yaml:"base-url"`          // 默认 https://api.binance.us
	RecvWindow      int    `yaml:"recv-window"`       // 毫秒，默认 5000
	OrderTimeoutSec int    `yaml:"order-timeout-sec"` // 单次下单/查单的超时（秒）
}

// OrderTimeout 下单和查单共用的网络超时
func (b BinanceConfig) OrderTimeout() time.Duration {
	return time.Duration(b.OrderTimeoutSec) * time.Second
}

// SymbolConfig 白名单内的一个交易对及其默认下单数量
// 当webhook未携带qty时使用默认数量
type SymbolConfig struct {
	Symbol     string  `yaml:"symbol"`
	DefaultQty float64 `yaml:"default-qty"`
}

type DbConfig struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"` // live 或 simulated
	MaxPingCount int    `yaml:"max-ping-count"`

	Binance BinanceConfig  `yaml:"binance"`
	Symbols []SymbolConfig `yaml:"symbols"`
	Db      DbConfig       `yaml:"database"`
	Log     LogConfig      `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Read config file error %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":10000"
	}
	if c.Mode == "" {
		c.Mode = "live"
	}
	if c.MaxPingCount == 0 {
		c.MaxPingCount = 10
	}
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://api.binance.us"
	}
	if c.Binance.RecvWindow == 0 {
		c.Binance.RecvWindow = 5000
	}
	if c.Binance.OrderTimeoutSec == 0 {
		c.Binance.OrderTimeoutSec = 10
	}
}

func (c *Config) validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("config: at least one symbol is required")
	}
	for _, s := range c.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("config: symbol name cannot be empty")
		}
		if s.DefaultQty <= 0 {
			return fmt.Errorf("config: default-qty for %s must be positive", s.Symbol)
		}
	}
	if c.Mode == "live" && (c.Binance.ApiKey == "" || c.Binance.ApiSecret == "") {
		return fmt.Errorf("config: binance api-key/api-secret required in live mode")
	}
	return nil
}
