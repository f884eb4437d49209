package sendnotification

import (
	"time"

	"techflow-careers/internal/common/config"
)

type Config struct {
	EmailEnabled   bool
	SNSEnabled     bool
	FromEmail      string
	HiringEmail    string
	HiringTopicARN string
	Timeout        time.Duration
}

func LoadConfig(wcfg config.WorkerConfig, integrations config.IntegrationConfig) *Config {
	cfg := &Config{
		EmailEnabled:   integrations.AWS.SES.Enabled,
		SNSEnabled:     integrations.AWS.SNS.Enabled,
		FromEmail:      integrations.AWS.SES.FromEmail,
		HiringEmail:    integrations.AWS.SES.HiringEmail,
		HiringTopicARN: integrations.AWS.SNS.HiringTopicARN,
		Timeout:        config.GetDuration(wcfg.Timeout),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}
