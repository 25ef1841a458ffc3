package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingToken  = errors.New("missing KPAY_TOKEN")
	ErrMissingHash   = errors.New("missing KPAY_HASH")
	ErrMissingEntity = errors.New("missing KPAY_ENTITY")
)

// WebhookConfig controls the inbound confirmation endpoint.
type WebhookConfig struct {
	Enabled bool
	Path    string
	Secret  string
}

// Config holds every recognized KPay integration setting.
//
// Supported env vars (kpay-prefixed, local-friendly defaults):
//   - KPAY_BASE_URL / KPAY_SANDBOX_URL / KPAY_SANDBOX_MODE
//   - KPAY_ENTITY / KPAY_TOKEN / KPAY_HASH / KPAY_FACTORY_BAG
//   - KPAY_WEBHOOK_ENABLED / KPAY_WEBHOOK_PATH / KPAY_WEBHOOK_SECRET
//   - KPAY_CURRENCY / KPAY_REFERENCE_EXPIRY_HOURS
//   - KPAY_TIMEOUT / KPAY_LOG_REQUESTS
type Config struct {
	BaseURL     string
	SandboxURL  string
	SandboxMode bool

	Entity     string
	Token      string
	Hash       string
	FactoryBag string

	Webhook WebhookConfig

	Currency             string
	ReferenceExpiryHours int
	TimeoutSeconds       int
	LogRequests          bool
}

// Load reads the .env file (when present) and builds a Config from the
// environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[kpay][config] no .env file found, relying on system env variables")
	}

	return &Config{
		BaseURL:     getenvDefault("KPAY_BASE_URL", "https://kyamiprint.kp"),
		SandboxURL:  getenvDefault("KPAY_SANDBOX_URL", "https://private-f32974-kyamirefapiv2.apiary-mock.com/sandbox"),
		SandboxMode: getenvBool("KPAY_SANDBOX_MODE", true),

		Entity:     getenvDefault("KPAY_ENTITY", "0000"),
		Token:      os.Getenv("KPAY_TOKEN"),
		Hash:       os.Getenv("KPAY_HASH"),
		FactoryBag: getenvDefault("KPAY_FACTORY_BAG", "Content"),

		Webhook: WebhookConfig{
			Enabled: getenvBool("KPAY_WEBHOOK_ENABLED", true),
			Path:    getenvDefault("KPAY_WEBHOOK_PATH", "/v1/kpay/webhook"),
			Secret:  os.Getenv("KPAY_WEBHOOK_SECRET"),
		},

		Currency:             getenvDefault("KPAY_CURRENCY", "AOA"),
		ReferenceExpiryHours: getenvInt("KPAY_REFERENCE_EXPIRY_HOURS", 24),
		TimeoutSeconds:       getenvInt("KPAY_TIMEOUT", 30),
		LogRequests:          getenvBool("KPAY_LOG_REQUESTS", false),
	}
}

// Validate fails fast on credentials the gateway cannot operate without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.Hash) == "" {
		return ErrMissingHash
	}
	if strings.TrimSpace(c.Entity) == "" {
		return ErrMissingEntity
	}
	if c.Webhook.Enabled && strings.TrimSpace(c.Webhook.Secret) == "" {
		// Permissive by design: deliveries are accepted unverified.
		log.Printf("[kpay][config] warning: webhook enabled without KPAY_WEBHOOK_SECRET, signature verification is disabled")
	}
	return nil
}

// APIBaseURL returns the gateway base URL for the active mode.
func (c *Config) APIBaseURL() string {
	if c.SandboxMode {
		return c.SandboxURL
	}
	return c.BaseURL
}

// Timeout returns the bound applied to every gateway call.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[kpay][config] invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
