package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret         string `yaml:"secret"`
		TTL            int    `yaml:"ttl"`              // access token, minutes
		RefreshTTLDays int    `yaml:"refresh_ttl_days"` // refresh token lifetime
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Paystack struct {
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"secret_key"`
		CallbackURL string `yaml:"callback_url"` // browser redirect target after checkout
	} `yaml:"paystack"`

	Payment struct {
		Currency             string `yaml:"currency"`               // e.g. "KES"
		PremiumAmount        int64  `yaml:"premium_amount"`         // minor units
		ReconcileIntervalMin int    `yaml:"reconcile_interval_min"` // pending-payment re-verify interval
		ReconcileAfterMin    int    `yaml:"reconcile_after_min"`    // how old a pending tx must be before re-verify
	} `yaml:"payment"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig loads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Paystack.BaseURL = envOr("PAYSTACK_BASE_URL", "https://api.paystack.co")
	cfg.Paystack.SecretKey = os.Getenv("PAYSTACK_SECRET_KEY")
	cfg.Paystack.CallbackURL = envOr("PAYSTACK_CALLBACK_URL", "http://localhost:3000/payment-success")

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@healthtrack.app"
	cfg.Email.FromName = "HealthTrack"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if v := os.Getenv("FIRST_ADMIN_EMAIL"); v != "" {
		cfg.FirstAdminEmail = v
	}
	if v := os.Getenv("FIRST_ADMIN_PASSWORD"); v != "" {
		cfg.FirstAdminPassword = v
	}
	if cfg.Paystack.BaseURL == "" {
		cfg.Paystack.BaseURL = "https://api.paystack.co"
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "KES"
	}
	if cfg.Payment.PremiumAmount == 0 {
		cfg.Payment.PremiumAmount = 70000 // 700 KES in cents
	}
	if cfg.Payment.ReconcileIntervalMin == 0 {
		cfg.Payment.ReconcileIntervalMin = 15
	}
	if cfg.Payment.ReconcileAfterMin == 0 {
		cfg.Payment.ReconcileAfterMin = 30
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 30
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
