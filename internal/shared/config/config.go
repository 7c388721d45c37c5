package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	// Email provider settings (send_email action)
	EmailProvider string // "brevo" or "resend"
	BrevoAPIKey   string
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string

	// Optional wall-clock budget for a whole workflow run, 0 disables it
	WorkflowTimeoutSeconds int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("ENV"),
		EmailProvider: os.Getenv("EMAIL_PROVIDER"),
		BrevoAPIKey:   os.Getenv("BREVO_API_KEY"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailFromName: os.Getenv("EMAIL_FROM_NAME"),
	}

	if v := os.Getenv("WORKFLOW_TIMEOUT_SECONDS"); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("⚠️ Invalid WORKFLOW_TIMEOUT_SECONDS %q, ignoring", v)
		} else {
			cfg.WorkflowTimeoutSeconds = timeout
		}
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = "no-reply@erp-connect.local"
	}
	if cfg.EmailFromName == "" {
		cfg.EmailFromName = "ERP Connect"
	}

	return cfg
}
