// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// CORSOrigins 是允许跨域访问的来源列表。
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ChatConfig 存储对话核心的运行参数。
type ChatConfig struct {
	// MaxHistoryEntries 是全局对话日志的容量上限，超出后按 FIFO 淘汰。
	MaxHistoryEntries int `mapstructure:"max_history_entries"`
	// RateLimitPerMinute 是单个客户端每分钟允许的请求数。
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
	// SessionTimeoutHours 是会话自最后活动起的有效期（小时）。
	SessionTimeoutHours int `mapstructure:"session_timeout_hours"`
	// MaxMessageLength 是单条消息允许的最大字符数。
	MaxMessageLength int `mapstructure:"max_message_length"`
	// ExternalTimeoutSeconds 是调用外部服务（维基百科 / LLM）的超时时间（秒）。
	ExternalTimeoutSeconds int `mapstructure:"external_timeout_seconds"`
}

// WikipediaConfig 存储维基百科 API 客户端的配置。
type WikipediaConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 配置生成相关参数（可选）。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}

// setDefaults 为对话核心参数设置缺省值，保证配置缺项时服务仍可运行。
func setDefaults() {
	viper.SetDefault("chat.max_history_entries", 1000)
	viper.SetDefault("chat.rate_limit_per_minute", 60)
	viper.SetDefault("chat.session_timeout_hours", 24)
	viper.SetDefault("chat.max_message_length", 2000)
	viper.SetDefault("chat.external_timeout_seconds", 10)
	viper.SetDefault("wikipedia.base_url", "https://en.wikipedia.org/w/api.php")
	viper.SetDefault("wikipedia.language", "en")
}
