package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Ubidots    UbidotsConfig    `yaml:"ubidots"`
	Poller     PollerConfig     `yaml:"poller"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Store      StoreConfig      `yaml:"store"`
	Sinks      SinksConfig      `yaml:"sinks"`
	Services   ServicesConfig   `yaml:"services"`
	CORS       CORSConfig       `yaml:"cors"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `yaml:"port"`
	Name string `yaml:"name"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// UbidotsConfig Ubidots 设备配置
type UbidotsConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	Token       string        `yaml:"token"`
	DeviceLabel string        `yaml:"deviceLabel"`
	Variables   []string      `yaml:"variables"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PollerConfig 轮询配置
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxRetries  int           `yaml:"maxRetries"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	MaxBackoff  time.Duration `yaml:"maxBackoff"`
}

// ThresholdsConfig 传感器阈值
//
// TempNormalMax 与 TempWarmMin 之间的区间（默认 28~29）归为 COLD。
type ThresholdsConfig struct {
	SmokeDanger     float64 `yaml:"smokeDanger"`
	SmokeSuspicious float64 `yaml:"smokeSuspicious"`
	LuxDark         float64 `yaml:"luxDark"`
	TempHot         float64 `yaml:"tempHot"`
	TempWarmMin     float64 `yaml:"tempWarmMin"`
	TempNormalMax   float64 `yaml:"tempNormalMax"`
}

// StoreConfig 存储配置
type StoreConfig struct {
	Backend     string `yaml:"backend"` // memory, redis
	HistorySize int    `yaml:"historySize"`
}

// SinksConfig 转发配置（为空即不启用）
type SinksConfig struct {
	Kafka  KafkaConfig  `yaml:"kafka"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Influx InfluxConfig `yaml:"influx"`
}

// KafkaConfig Kafka 转发配置
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// MQTTConfig MQTT 转发配置
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"clientId"`
}

// InfluxConfig InfluxDB 转发配置
type InfluxConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ServicesConfig 服务地址配置
type ServicesConfig struct {
	Dashboard string `yaml:"dashboard"`
	Chatbot   string `yaml:"chatbot"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultThresholds 默认阈值
func DefaultThresholds() ThresholdsConfig {
	return ThresholdsConfig{
		SmokeDanger:     800,
		SmokeSuspicious: 500,
		LuxDark:         50,
		TempHot:         31,
		TempWarmMin:     29,
		TempNormalMax:   28,
	}
}

// DefaultVariables Ubidots 默认变量
func DefaultVariables() []string {
	return []string{"mq2", "humidity", "temperature", "lux"}
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	return Parse(data)
}

// Parse 解析配置内容并补齐默认值
func Parse(data []byte) (*Config, error) {
	// 阈值先填默认值，文件中显式写出的值（包括 0）会覆盖它
	cfg := Config{Thresholds: DefaultThresholds()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if token := os.Getenv("UBIDOTS_TOKEN"); token != "" {
		cfg.Ubidots.Token = token
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Ubidots.BaseURL == "" {
		c.Ubidots.BaseURL = "https://industrial.api.ubidots.com"
	}
	if len(c.Ubidots.Variables) == 0 {
		c.Ubidots.Variables = DefaultVariables()
	}
	if c.Ubidots.Timeout <= 0 {
		c.Ubidots.Timeout = 10 * time.Second
	}

	if c.Poller.Interval <= 0 {
		c.Poller.Interval = 5 * time.Second
	}
	if c.Poller.MaxRetries < 0 {
		c.Poller.MaxRetries = 0
	}
	if c.Poller.BaseBackoff <= 0 {
		c.Poller.BaseBackoff = 200 * time.Millisecond
	}
	if c.Poller.MaxBackoff <= 0 {
		c.Poller.MaxBackoff = 2 * time.Second
	}

	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.HistorySize <= 0 {
		c.Store.HistorySize = 100
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
