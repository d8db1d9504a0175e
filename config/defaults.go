package config

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "taskflow_audit.db",
		},
		Metrics: MetricsConfig{
			Namespace: "taskflow",
		},
	}
}
