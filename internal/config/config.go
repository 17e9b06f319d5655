package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/domora/kiosk-service/internal/constants"
	"github.com/domora/kiosk-service/internal/utils"
)

const AppName = "kiosk-service"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// Database
	DBUrl string

	// Hub backend
	BackendBaseURL  string
	BackendAPIToken string

	// Auth: operator tokens are issued by the hub backend and only
	// verified here.
	OperatorJWTPublicKey *rsa.PublicKey

	// Twilio / SendGrid for escalation notifications
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromPhone   string
	SendGridAPIKey    string
	SendGridFromEmail string
	OrganizationName  string

	// Engine tunables. The defaults come from constants; the env
	// overrides exist because the thresholds carry no documented
	// business rationale and deployments may want to adjust them.
	LivePollInterval time.Duration
	IdlePollInterval time.Duration
	CountdownTick    time.Duration
	HeartbeatTTL     time.Duration

	SeedDemoDisplays bool
}

func LoadConfig() *Config {
	// Local development keeps its settings in .env; in deployment the
	// variables come from the environment directly.
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found, reading environment directly")
	}

	cfg := &Config{
		AppName: AppName,
		AppPort: requireEnv("APP_PORT"),
		AppUrl:  requireEnv("APP_URL"),
		DBUrl:   requireEnv("DB_URL"),

		BackendBaseURL:  requireEnv("BACKEND_BASE_URL"),
		BackendAPIToken: os.Getenv("BACKEND_API_TOKEN"),

		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:   os.Getenv("TWILIO_FROM_PHONE"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		OrganizationName:  envOrDefault("ORGANIZATION_NAME", "Domora"),

		LivePollInterval: durationEnv("LIVE_POLL_INTERVAL", constants.LivePollInterval),
		IdlePollInterval: durationEnv("IDLE_POLL_INTERVAL", constants.IdlePollInterval),
		CountdownTick:    constants.CountdownTick,
		HeartbeatTTL:     durationEnv("DISPLAY_HEARTBEAT_TTL", constants.DisplayHeartbeatTTL),

		SeedDemoDisplays: os.Getenv("SEED_DEMO_DISPLAYS") == "true",
	}

	cfg.OperatorJWTPublicKey = loadOperatorKey()

	if cfg.SendGridAPIKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY not set; escalation emails disabled")
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		utils.Logger.Warn("Twilio credentials not set; escalation SMS disabled")
	}

	return cfg
}

func loadOperatorKey() *rsa.PublicKey {
	b64 := requireEnv("OPERATOR_JWT_PUBLIC_KEY_BASE64")
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("OPERATOR_JWT_PUBLIC_KEY_BASE64 is not valid base64")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse operator JWT public key")
	}
	return key
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func durationEnv(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		utils.Logger.Warnf("Invalid %s %q, using default %v", name, raw, def)
		return def
	}
	return d
}
