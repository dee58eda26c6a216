package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	AppEnv        string
	LogLevel      string

	AdminUsername string
	AdminPassword string
	AdminEmail    string

	SMTP    SMTPConfig
	Reports ReportsConfig

	ChromeTimeout time.Duration
}

// SMTPConfig: aviso de repasse por e-mail. Host vazio desliga o envio.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// ReportsConfig: bucket S3/R2 onde os relatórios gerados são arquivados.
// Bucket vazio desliga o arquivamento.
type ReportsConfig struct {
	Bucket          string
	Endpoint        string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

func (c ReportsConfig) Enabled() bool { return c.Bucket != "" }

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// Load lê o .env (se existir) e as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    getenv("SERVER_PORT", "8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		AppEnv:        getenv("APP_ENV", "development"),
		LogLevel:      getenv("LOG_LEVEL", "info"),

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin"),
		AdminEmail:    getenv("ADMIN_EMAIL", "ti@escola.local"),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Reports: ReportsConfig{
			Bucket:          os.Getenv("REPORTS_BUCKET"),
			Endpoint:        os.Getenv("REPORTS_ENDPOINT"),
			PublicURL:       os.Getenv("REPORTS_PUBLIC_URL"),
			AccessKeyID:     os.Getenv("REPORTS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("REPORTS_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = port
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	timeout, err := time.ParseDuration(getenv("CHROME_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("CHROME_TIMEOUT: %w", err)
	}
	cfg.ChromeTimeout = timeout

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
