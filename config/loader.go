// =============================================================================
// 📦 TaskFlow 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("TASKFLOW").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是 TaskFlow 的完整配置结构
type Config struct {
	// Log 日志配置
	Log LogConfig `yaml:"log"`
	// Database 审计存储配置
	Database DatabaseConfig `yaml:"database"`
	// Metrics 指标配置
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug | info | warn | error
	Level string `yaml:"level"`
	// 输出格式: console | json
	Format string `yaml:"format"`
}

// DatabaseConfig 审计存储配置
type DatabaseConfig struct {
	// 驱动: sqlite | postgres
	Driver string `yaml:"driver"`
	// 连接串（sqlite 为文件路径）
	DSN string `yaml:"dsn"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Prometheus 指标命名空间
	Namespace string `yaml:"namespace"`
}

// Loader 配置加载器
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{envPrefix: "TASKFLOW"}
}

// WithConfigPath 设置配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load 加载配置: 默认值 → YAML 文件 → 环境变量
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	set := func(target *string, key string) {
		if v, ok := os.LookupEnv(l.envPrefix + "_" + key); ok {
			*target = v
		}
	}
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.Log.Format, "LOG_FORMAT")
	set(&cfg.Database.Driver, "DATABASE_DRIVER")
	set(&cfg.Database.DSN, "DATABASE_DSN")
	set(&cfg.Metrics.Namespace, "METRICS_NAMESPACE")
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}
