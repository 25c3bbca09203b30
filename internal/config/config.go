// Package config loads the streamer configuration from YAML and
// VENUESTREAM_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/yanun0323/errors"

	"venuestream/internal/journal"
	"venuestream/internal/model/enum"
	"venuestream/internal/stream"
)

const envPrefix = "VENUESTREAM"

type Config struct {
	Streaming     StreamingConfig     `mapstructure:"streaming"`
	Accounts      []string            `mapstructure:"accounts" validate:"dive,required"`
	Subscriptions SubscriptionsConfig `mapstructure:"subscriptions"`
	Journal       JournalConfig       `mapstructure:"journal"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type StreamingConfig struct {
	Endpoint       string        `mapstructure:"endpoint" validate:"required,url"`
	User           string        `mapstructure:"user" validate:"required"`
	Password       string        `mapstructure:"password" validate:"required"`
	AdapterSet     string        `mapstructure:"adapter_set"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
	Snapshot       bool          `mapstructure:"snapshot"`
	ReconnectMin   time.Duration `mapstructure:"reconnect_min" validate:"gte=0"`
	ReconnectMax   time.Duration `mapstructure:"reconnect_max" validate:"gtefield=ReconnectMin"`
}

type SubscriptionsConfig struct {
	Balances     bool           `mapstructure:"balances"`
	Trades       bool           `mapstructure:"trades"`
	Markets      []string       `mapstructure:"markets" validate:"dive,required"`
	ChartTicks   []string       `mapstructure:"chart_ticks" validate:"dive,required"`
	ChartCandles []CandleConfig `mapstructure:"chart_candles" validate:"dive"`
}

type CandleConfig struct {
	Epic  string `mapstructure:"epic" validate:"required"`
	Scale string `mapstructure:"scale" validate:"required,oneof=one_second one_minute five_minutes one_hour"`
}

type JournalConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" validate:"required_if=Enabled true"`
	SSLMode  string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	DSN      string `mapstructure:"dsn"`
}

type ObservabilityConfig struct {
	MetricsAddr   string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	PyroscopeAddr string `mapstructure:"pyroscope_addr" validate:"omitempty,url"`
}

// Load reads path, when not empty, and applies environment overrides such as
// VENUESTREAM_STREAMING_PASSWORD.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "read config").With("path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("streaming.endpoint", "")
	v.SetDefault("streaming.user", "")
	v.SetDefault("streaming.password", "")
	v.SetDefault("streaming.adapter_set", "DEFAULT")
	v.SetDefault("streaming.connect_timeout", 10*time.Second)
	v.SetDefault("streaming.snapshot", true)
	v.SetDefault("streaming.reconnect_min", time.Second)
	v.SetDefault("streaming.reconnect_max", 30*time.Second)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.host", "localhost")
	v.SetDefault("journal.port", 5432)
	v.SetDefault("journal.user", "")
	v.SetDefault("journal.password", "")
	v.SetDefault("journal.database", "")
	v.SetDefault("journal.ssl_mode", "disable")
	v.SetDefault("journal.dsn", "")
	v.SetDefault("observability.metrics_addr", "")
	v.SetDefault("observability.pyroscope_addr", "")
}

// Credentials returns the streaming credentials.
func (c StreamingConfig) Credentials() stream.StaticCredentials {
	return stream.StaticCredentials{
		User:     c.User,
		Password: c.Password,
		Endpoint: c.Endpoint,
	}
}

// JournalOption converts the journal section.
func (c JournalConfig) JournalOption() journal.Option {
	return journal.Option{
		Host:       c.Host,
		Port:       c.Port,
		User:       c.User,
		Password:   c.Password,
		Database:   c.Database,
		SSLMode:    c.SSLMode,
		ConnString: c.DSN,
	}
}

// ScaleOf parses the scale symbol. Load has already validated it.
func (c CandleConfig) ScaleOf() enum.Scale {
	scale, _ := enum.ParseScale(c.Scale)
	return scale
}
