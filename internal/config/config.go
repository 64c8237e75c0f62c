package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration (file + env overrides)
type Config struct {
	Server struct {
		Addr     string `mapstructure:"addr"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`

	Offer struct {
		APIBase            string `mapstructure:"api_base"`
		Platform           string `mapstructure:"platform"`
		AppID              string `mapstructure:"app_id"`
		HTTPTimeoutSeconds int    `mapstructure:"http_timeout_seconds"`
	} `mapstructure:"offer"`

	Consent struct {
		PromptDelayMillis int    `mapstructure:"prompt_delay_millis"`
		PromptStatus      string `mapstructure:"prompt_status"`
	} `mapstructure:"consent"`

	Identity struct {
		AdvertisingID string `mapstructure:"advertising_id"`
	} `mapstructure:"identity"`

	Storage struct {
		Driver string `mapstructure:"driver"`

		Postgres struct {
			Host         string `mapstructure:"host"`
			Port         int    `mapstructure:"port"`
			User         string `mapstructure:"user"`
			Password     string `mapstructure:"password"`
			DBName       string `mapstructure:"db_name"`
			SSLMode      string `mapstructure:"ssl_mode"`
			MaxOpenConns int    `mapstructure:"max_open_conns"`
			MaxIdleConns int    `mapstructure:"max_idle_conns"`
		} `mapstructure:"postgres"`
	} `mapstructure:"storage"`

	Analytics struct {
		Sink       string `mapstructure:"sink"`
		Endpoint   string `mapstructure:"endpoint"`
		APIKey     string `mapstructure:"api_key"`
		BufferSize int    `mapstructure:"buffer_size"`
	} `mapstructure:"analytics"`

	Attribution struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"attribution"`

	Surface struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"surface"`
}

func Load() Config {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}
	validate(&cfg)
	return cfg
}

func validate(c *Config) {
	if c.Server.Addr == "" { c.Server.Addr = ":8080" }
	if c.Offer.Platform == "" { c.Offer.Platform = "ios" }
	if c.Offer.HTTPTimeoutSeconds <= 0 { c.Offer.HTTPTimeoutSeconds = 10 }
	if c.Consent.PromptDelayMillis <= 0 { c.Consent.PromptDelayMillis = 1000 }
	if c.Storage.Driver == "" { c.Storage.Driver = "memory" }
	if c.Storage.Postgres.Port == 0 { c.Storage.Postgres.Port = 5432 }
	if c.Storage.Postgres.SSLMode == "" { c.Storage.Postgres.SSLMode = "disable" }
	if c.Storage.Postgres.MaxOpenConns == 0 { c.Storage.Postgres.MaxOpenConns = 10 }
	if c.Storage.Postgres.MaxIdleConns == 0 { c.Storage.Postgres.MaxIdleConns = 10 }
	if c.Analytics.Sink == "" { c.Analytics.Sink = "log" }
	if c.Analytics.BufferSize <= 0 { c.Analytics.BufferSize = 64 }
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Storage.Postgres.User,
		c.Storage.Postgres.Password,
		c.Storage.Postgres.Host,
		c.Storage.Postgres.Port,
		c.Storage.Postgres.DBName,
		c.Storage.Postgres.SSLMode,
	)
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Offer.HTTPTimeoutSeconds) * time.Second
}

func (c Config) PromptDelay() time.Duration {
	return time.Duration(c.Consent.PromptDelayMillis) * time.Millisecond
}
