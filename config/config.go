package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Billing  BillingConfig  `mapstructure:"billing"`
	OSS      OSSConfig      `mapstructure:"oss"`
	Email    EmailConfig    `mapstructure:"email"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// PaymentConfig configures gateway access.
// Mode selects the gateway implementation at startup: "live" talks to the real
// gateway, "test" uses the deterministic simulated gateway.
type PaymentConfig struct {
	Mode               string `mapstructure:"mode"`
	KeyID              string `mapstructure:"key_id"`
	KeySecret          string `mapstructure:"key_secret"`
	BaseURL            string `mapstructure:"base_url"`
	Currency           string `mapstructure:"currency"`
	PendingExpireHours int    `mapstructure:"pending_expire_hours"`
}

type BillingConfig struct {
	GSTRate float64 `mapstructure:"gst_rate"` // e.g. 0.18
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	NotificationQueue string `mapstructure:"notification_queue"`
	MaxWorkers        int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load(configPath string) (*Config, error) {
	// Prefer config.local.yaml when present (real keys, never committed).
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Environment variables override file values.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Billing.GSTRate == 0 {
		cfg.Billing.GSTRate = 0.18
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "INR"
	}
	if cfg.Payment.PendingExpireHours == 0 {
		cfg.Payment.PendingExpireHours = 24
	}

	return &cfg, nil
}
