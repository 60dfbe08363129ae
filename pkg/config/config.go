package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Lmstfy    LmstfyConfig    `mapstructure:"lmstfy"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Workers   []WorkerConfig  `mapstructure:"workers"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Namespace     string `mapstructure:"namespace"`
	Token         string `mapstructure:"token"`
	Queue         string `mapstructure:"queue"`
	CallbackQueue string `mapstructure:"callback_queue"`
}

// ProvidersConfig 距离服务商配置
type ProvidersConfig struct {
	Active string `mapstructure:"active"` // 缺省使用的服务商 slug
	// Settings 各服务商的配置字段表（slug → 字段键 → 值）
	Settings map[string]map[string]string `mapstructure:"settings"`
}

// RatesConfig 全局费率设置
type RatesConfig struct {
	DistanceUnit    string `mapstructure:"distance_unit"`
	RoundUpDistance bool   `mapstructure:"round_up_distance"`
	ShowDistance    bool   `mapstructure:"show_distance"`
	TotalCostType   string `mapstructure:"total_cost_type"`
	SurchargeType   string `mapstructure:"surcharge_type"`
	Surcharge       string `mapstructure:"surcharge"`
	DiscountType    string `mapstructure:"discount_type"`
	Discount        string `mapstructure:"discount"`
	MinCost         string `mapstructure:"min_cost"`
	MaxCost         string `mapstructure:"max_cost"`
	Title           string `mapstructure:"title"`
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name       string           `mapstructure:"name"`
	QueueName  string           `mapstructure:"queue_name"`
	Subscriber SubscriberConfig `mapstructure:"subscriber"`
	Processor  ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`     // 并发处理数
	BufferSize int           `mapstructure:"buffer_size"` // Channel 缓冲大小
	Timeout    time.Duration `mapstructure:"timeout"`     // 单个任务超时
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Rates.DistanceUnit == "" {
		cfg.Rates.DistanceUnit = "km"
	}

	return &cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if c.Providers.Active == "" {
		return fmt.Errorf("providers.active is required")
	}
	switch c.Rates.DistanceUnit {
	case "m", "km", "mi":
	default:
		return fmt.Errorf("rates.distance_unit must be one of m/km/mi, got %q", c.Rates.DistanceUnit)
	}
	return nil
}

// ValidateWorkers 验证 Worker 配置（仅 worker 进程需要）
func (c *Config) ValidateWorkers() error {
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	if c.Lmstfy.CallbackQueue == "" {
		return fmt.Errorf("lmstfy.callback_queue is required")
	}
	return nil
}
