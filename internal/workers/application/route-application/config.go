package routeapplication

import (
	"time"

	"techflow-careers/internal/common/config"
)

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

// LoadConfig derives the handler settings from the worker entry and the
// careers cache TTL.
func LoadConfig(wcfg config.WorkerConfig, cacheTTL time.Duration) *Config {
	cfg := &Config{
		CacheTTL: cacheTTL,
		Timeout:  config.GetDuration(wcfg.Timeout),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return cfg
}
