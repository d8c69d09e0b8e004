package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort            string `yaml:"APP_PORT" envconfig:"APP_PORT"`
	AppURL             string `yaml:"APP_URL" envconfig:"APP_URL"`
	LogLevel           string `yaml:"LOG_LEVEL" envconfig:"LOG_LEVEL"`
	AccessLogPath      string `yaml:"ACCESS_LOG_PATH" envconfig:"ACCESS_LOG_PATH"`
	PageSize           int    `yaml:"PAGE_SIZE" envconfig:"PAGE_SIZE"`
	RateLimitPerSecond int    `yaml:"RATE_LIMIT_PER_SECOND" envconfig:"RATE_LIMIT_PER_SECOND"`

	// Database configuration
	DBUser     string `yaml:"DB_USER" envconfig:"DB_USER"`
	DBName     string `yaml:"DB_NAME" envconfig:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD" envconfig:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" envconfig:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST" envconfig:"DB_HOST"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET" envconfig:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES" envconfig:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST" envconfig:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT" envconfig:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME" envconfig:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL" envconfig:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD" envconfig:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET" envconfig:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION" envconfig:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT" envconfig:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY" envconfig:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY" envconfig:"AWS_SECRET_KEY"`
}

func defaultConfig() Config {
	return Config{
		AppPort:            "8000",
		AppURL:             "http://localhost:8000",
		LogLevel:           "info",
		AccessLogPath:      "./logs/app.log",
		PageSize:           6,
		RateLimitPerSecond: 10,
		DBHost:             "localhost",
		DBPort:             "5432",
		JWTTTLMinutes:      60 * 24,
		AWSS3Region:        "us-east-1",
	}
}

// LoadConfig reads the yaml file at path (a missing file is not an error),
// then applies overrides from .env and the process environment.
func LoadConfig(path string) (Config, error) {
	config := defaultConfig()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &config); err != nil {
			return Config{}, fmt.Errorf("error parsing %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("error reading %s: %w", path, err)
	}

	_ = godotenv.Load()
	if err := envconfig.Process("", &config); err != nil {
		return Config{}, fmt.Errorf("error reading environment: %w", err)
	}

	if config.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	return config, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
	)
}

func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
