package config

import "fmt"

type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Server       ServerConfig            `mapstructure:"server"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Careers      CareersConfig           `mapstructure:"careers"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Tracing      TracingConfig           `mapstructure:"tracing"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig drives the careers web server and the application wizard.
type ServerConfig struct {
	Addr            string   `mapstructure:"addr"`
	SessionSecret   string   `mapstructure:"session_secret"`
	SessionMaxAge   int      `mapstructure:"session_max_age"` // seconds
	SecureCookies   bool     `mapstructure:"secure_cookies"`
	MessageTTL      int      `mapstructure:"message_ttl"`       // milliseconds
	SubmitTimeout   int      `mapstructure:"submit_timeout"`    // milliseconds
	WizardIdleTTL   int      `mapstructure:"wizard_idle_ttl"`   // milliseconds
	MaxUploadMemory int64    `mapstructure:"max_upload_memory"` // bytes
	ReadTimeout     int      `mapstructure:"read_timeout"`      // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`     // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	ProcessID      string `mapstructure:"process_id"`
	Enabled        bool   `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CareersConfig covers the careers catalog, its cache and its search index.
type CareersConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
	CacheTTL    int    `mapstructure:"cache_ttl"` // milliseconds
	Index       string `mapstructure:"index"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled     bool   `mapstructure:"enabled"`
			FromEmail   string `mapstructure:"from_email"`
			HiringEmail string `mapstructure:"hiring_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled        bool   `mapstructure:"enabled"`
			HiringTopicARN string `mapstructure:"hiring_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
