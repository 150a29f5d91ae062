// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath = pflag.String("config", ".", "Directory containing the config.toml file")

	validLogLevels     = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes  = []string{"s3", "local"}
	validCacheTypes    = []string{"memory", "redis"}
	validDBDrivers     = []string{"postgres", "sqlite"}
	validMailProviders = []string{"smtp", "resend", "log"}
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Host      HostConfig      `mapstructure:"host"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	OTP       OTPConfig       `mapstructure:"otp"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Mail      MailConfig      `mapstructure:"mail"`
	Storage   StorageConfig   `mapstructure:"storage"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Security  SecurityConfig  `mapstructure:"security"`
	Turnstile TurnstileConfig `mapstructure:"turnstile"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

type HostConfig struct {
	Port int       `mapstructure:"port"`
	CORS []string  `mapstructure:"cors"`
	SSL  SSLConfig `mapstructure:"ssl"`
}

type SSLConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CertificatePath    string `mapstructure:"certificate_path"`
	CertificateKeyPath string `mapstructure:"certificate_key_path"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	// For postgres this is a connection URL, for sqlite a file path
	URL string `mapstructure:"url"`
}

type CacheConfig struct {
	Type string `mapstructure:"type"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type OTPConfig struct {
	TTL            time.Duration `mapstructure:"ttl"`
	ResendCooldown time.Duration `mapstructure:"resend_cooldown"`
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type CookieConfig struct {
	Secure bool   `mapstructure:"secure"`
	Domain string `mapstructure:"domain"`
}

type MailConfig struct {
	Provider     string `mapstructure:"provider"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	BaseURL   string `mapstructure:"base_url"`
	UploadDir string `mapstructure:"upload_dir"`
}

type AWSConfig struct {
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	// Set for S3 compatible providers like Cloudflare R2
	Endpoint string `mapstructure:"endpoint"`
}

type UploadConfig struct {
	// In bytes after Setup, configured in MiB
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type SecurityConfig struct {
	RateLimit  int `mapstructure:"rate_limit"`
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type TurnstileConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() (*Config, error) {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")
	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.url", "DATABASE_URL")

	v.BindEnv("cache.type", "CACHE_TYPE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("otp.ttl", "OTP_TTL")
	v.BindEnv("otp.resend_cooldown", "OTP_RESEND_COOLDOWN")

	v.BindEnv("jwt.access_secret", "ACCESS_TOKEN_KEY")
	v.BindEnv("jwt.access_ttl", "ACCESS_TOKEN_TIME")
	v.BindEnv("jwt.refresh_secret", "REFRESH_TOKEN_KEY")
	v.BindEnv("jwt.refresh_ttl", "REFRESH_TOKEN_TIME")

	v.BindEnv("cookie.secure", "COOKIE_SECURE")
	v.BindEnv("cookie.domain", "COOKIE_DOMAIN")

	v.BindEnv("mail.provider", "MAIL_PROVIDER")
	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME")
	v.BindEnv("mail.password", "MAIL_PASSWORD")
	v.BindEnv("mail.from", "MAIL_FROM")
	v.BindEnv("mail.resend_api_key", "RESEND_API_KEY")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.base_url", "BASE_URL")
	v.BindEnv("storage.upload_dir", "STORAGE_UPLOAD_DIR")

	v.BindEnv("aws.access_key", "AWS_ACCESS_KEY")
	v.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.bucket", "AWS_BUCKET")
	v.BindEnv("aws.endpoint", "AWS_ENDPOINT")

	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")
	v.BindEnv("upload.allowed_types", "UPLOAD_ALLOWED_TYPES")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("security.bcrypt_cost", "SECURITY_BCRYPT_COST")

	v.BindEnv("turnstile.enabled", "TURNSTILE_ENABLED")
	v.BindEnv("turnstile.secret", "TURNSTILE_SECRET_TOKEN")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "database.db")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("otp.ttl", 120*time.Second)
	v.SetDefault("otp.resend_cooldown", 30*time.Second)

	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 30*24*time.Hour)

	v.SetDefault("cookie.secure", true)

	v.SetDefault("mail.provider", "smtp")
	v.SetDefault("mail.port", 587)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_url", "http://localhost:8080/uploads/")
	v.SetDefault("storage.upload_dir", "uploads")

	v.SetDefault("upload.max_size", 5)
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})

	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}

		fmt.Println("[WARNING]: config.toml not found, using environment variables and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config, %w", err)
	}

	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		fmt.Println("WARNING: You haven't set the JWT secrets, so they have been generated for you. Please set them as environment variables or in the config.toml file.\nYour random secrets:\n\naccess_secret = \"" + genSecret() + "\"\nrefresh_secret = \"" + genSecret() + "\"\n\nPaste them into the [jwt] section of your config.toml file.")
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(cfg.Upload.AllowedTypes) == 0 {
		fmt.Println("[WARNING]: No upload.allowed_types specified, any file type will be accepted")
	}

	if !cfg.Turnstile.Enabled {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Sign up endpoints won't be guarded against bots")
	}

	cfg.Upload.MaxSize = cfg.Upload.MaxSize << 20
	return &cfg, nil
}

// Validate checks the decoded values. Upload.MaxSize is expected in MiB.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if c.Host.SSL.Enabled {
		if c.Host.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.Host.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDBDrivers, c.Database.Driver) {
		return errors.New("invalid database driver provided")
	}

	if c.Database.URL == "" {
		return errors.New("database url can't be empty")
	}

	if !slices.Contains(validCacheTypes, c.Cache.Type) {
		return errors.New("invalid cache type provided")
	}

	if c.Cache.Type == "redis" && c.Redis.Addr == "" {
		return errors.New("redis address can't be empty")
	}

	if c.OTP.TTL <= 0 {
		return errors.New("otp.ttl must be bigger than 0")
	}

	if c.OTP.ResendCooldown < 0 {
		return errors.New("otp.resend_cooldown can't be negative")
	}

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt secrets can't be empty")
	}

	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("access and refresh secrets must be different")
	}

	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be bigger than 0")
	}

	if !slices.Contains(validMailProviders, c.Mail.Provider) {
		return errors.New("invalid mail provider provided")
	}

	switch c.Mail.Provider {
	case "smtp":
		if c.Mail.Host == "" {
			return errors.New("mail host can't be empty")
		}
		if c.Mail.From == "" {
			return errors.New("mail sender address can't be empty")
		}
	case "resend":
		if c.Mail.ResendAPIKey == "" {
			return errors.New("resend api key can't be empty")
		}
		if c.Mail.From == "" {
			return errors.New("mail sender address can't be empty")
		}
	}

	if !slices.Contains(validStorageTypes, c.Storage.Type) {
		return errors.New("invalid storage type provided")
	}

	if c.Storage.BaseURL == "" {
		return errors.New("storage base url can't be empty")
	}

	switch c.Storage.Type {
	case "s3":
		if c.AWS.AccessKey == "" {
			return errors.New("access key can't be empty")
		}
		if c.AWS.SecretAccessKey == "" {
			return errors.New("secret access key can't be empty")
		}
		if c.AWS.Bucket == "" {
			return errors.New("bucket can't be empty")
		}
	case "local":
		if c.Storage.UploadDir == "" {
			return errors.New("upload directory can't be empty")
		}
	}

	if c.Upload.MaxSize <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if c.Security.RateLimit < 0 {
		return errors.New("rate limit can't be negative")
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return errors.New("bcrypt cost must be between 4 and 31")
	}

	if c.Turnstile.Enabled && c.Turnstile.Secret == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
