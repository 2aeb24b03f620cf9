package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Authentication modes for the remote file server.
const (
	AuthModeAuto     = "auto"
	AuthModePassword = "password"
	AuthModeKey      = "key"
)

// Run modes for the process.
const (
	RunModeOnce   = "once"
	RunModeServer = "server"
)

// SFTPConfig holds the remote file server settings.
type SFTPConfig struct {
	Host           string        `validate:"required,hostname|ip"`
	Port           int           `validate:"min=1,max=65535"`
	Username       string        `validate:"required"`
	Directory      string        `validate:"required,startswith=/"`
	FileSuffix     string        `validate:"required"`
	AuthMode       string        `validate:"oneof=auto password key"`
	Password       string        // Never logged
	PasswordParam  string        // secrets store parameter holding the password
	PrivateKey     string        // PEM text
	KeyPassphrase  string        // optional
	KeyParam       string        // secrets store parameter holding the PEM
	KnownHostsPath string        // empty disables host key verification
	ConnectTimeout time.Duration `validate:"gt=0"`
	MaxFileBytes   int64         `validate:"gt=0"`
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	URL            string `validate:"required"`
	User           string // overrides the user in URL when set
	Password       string // overrides the password in URL when set
	MigrationsPath string `validate:"required"`
	RunMigrations  bool
	EnableDBCheck  bool
}

// ServerConfig holds the trigger server settings (RUN_MODE=server).
type ServerConfig struct {
	Port        string        `validate:"required,numeric"`
	JWTSecret   string        `validate:"required"`
	RateLimit   string        `validate:"required"`
	RunInterval time.Duration `validate:"gte=0"`
}

// Config holds application configuration.
type Config struct {
	SFTP          SFTPConfig
	Database      DatabaseConfig
	Server        ServerConfig
	AWSRegion     string
	PosthogAPIKey string
	RunMode       string `validate:"oneof=once server"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	IsProduction  bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SFTP_HOST", "")
	v.SetDefault("SFTP_PORT", 22)
	v.SetDefault("SFTP_USER", "")
	v.SetDefault("SFTP_DIR", "/incoming")
	v.SetDefault("SFTP_FILE_SUFFIX", ".csv")
	v.SetDefault("SFTP_AUTH_MODE", AuthModeAuto)
	v.SetDefault("SFTP_PASSWORD", "")
	v.SetDefault("SFTP_PASSWORD_SSM_PARAM", "")
	v.SetDefault("SFTP_PRIVATE_KEY", "")
	v.SetDefault("SFTP_PRIVATE_KEY_PASSPHRASE", "")
	v.SetDefault("SFTP_KEY_SSM_PARAM", "")
	v.SetDefault("SFTP_KNOWN_HOSTS", "")
	v.SetDefault("SFTP_CONNECT_TIMEOUT", "30s")
	v.SetDefault("MAX_FILE_BYTES", int64(1<<31-1))
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("RUN_MODE", RunModeOnce)
	v.SetDefault("PORT", "8080")
	v.SetDefault("RUN_INTERVAL", "0s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RATE_LIMIT", "5-M")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("IS_PRODUCTION", false)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// SSM_KEY_P is the legacy name of the key parameter.
	if err := v.BindEnv("SFTP_KEY_SSM_PARAM", "SFTP_KEY_SSM_PARAM", "SSM_KEY_P"); err != nil {
		return nil, fmt.Errorf("failed to bind SFTP_KEY_SSM_PARAM: %w", err)
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		SFTP: SFTPConfig{
			Host:           v.GetString("SFTP_HOST"),
			Port:           v.GetInt("SFTP_PORT"),
			Username:       v.GetString("SFTP_USER"),
			Directory:      v.GetString("SFTP_DIR"),
			FileSuffix:     v.GetString("SFTP_FILE_SUFFIX"),
			AuthMode:       strings.ToLower(v.GetString("SFTP_AUTH_MODE")),
			Password:       v.GetString("SFTP_PASSWORD"),
			PasswordParam:  v.GetString("SFTP_PASSWORD_SSM_PARAM"),
			PrivateKey:     v.GetString("SFTP_PRIVATE_KEY"),
			KeyPassphrase:  v.GetString("SFTP_PRIVATE_KEY_PASSPHRASE"),
			KeyParam:       v.GetString("SFTP_KEY_SSM_PARAM"),
			KnownHostsPath: v.GetString("SFTP_KNOWN_HOSTS"),
			ConnectTimeout: v.GetDuration("SFTP_CONNECT_TIMEOUT"),
			MaxFileBytes:   v.GetInt64("MAX_FILE_BYTES"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("PGSQL_URL"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			MigrationsPath: v.GetString("MIGRATIONS_PATH"),
			RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
			EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		},
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			JWTSecret:   v.GetString("JWT_SECRET"),
			RateLimit:   v.GetString("RATE_LIMIT"),
			RunInterval: v.GetDuration("RUN_INTERVAL"),
		},
		AWSRegion:     v.GetString("AWS_REGION"),
		PosthogAPIKey: v.GetString("POSTHOG_API_KEY"),
		RunMode:       strings.ToLower(v.GetString("RUN_MODE")),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
	}

	if strings.TrimSpace(cfg.SFTP.Directory) == "" {
		cfg.SFTP.Directory = "/incoming"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SFTP.KnownHostsPath == "" {
		log.Println("Warning: SFTP_KNOWN_HOSTS not set. Remote host keys will not be verified.")
	}

	return cfg, nil
}

// Validate checks the struct tags and the cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Server settings only matter when serving.
	if c.RunMode == RunModeServer {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	} else {
		if err := validate.StructExcept(c, "Server"); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	s := c.SFTP
	hasPassword := s.Password != "" || s.PasswordParam != ""
	hasKey := s.PrivateKey != "" || s.KeyParam != ""
	switch s.AuthMode {
	case AuthModePassword:
		if !hasPassword {
			return fmt.Errorf("invalid configuration: SFTP_AUTH_MODE=password requires SFTP_PASSWORD or SFTP_PASSWORD_SSM_PARAM")
		}
	case AuthModeKey:
		if !hasKey {
			return fmt.Errorf("invalid configuration: SFTP_AUTH_MODE=key requires SFTP_PRIVATE_KEY or SFTP_KEY_SSM_PARAM")
		}
	default:
		if !hasPassword && !hasKey {
			return fmt.Errorf("invalid configuration: no SFTP password or private key configured")
		}
	}

	if (s.PasswordParam != "" || s.KeyParam != "") && c.AWSRegion == "" {
		return fmt.Errorf("invalid configuration: AWS_REGION is required when reading secrets from SSM")
	}

	return nil
}
