// Command diag prints the effective KPay configuration with credentials
// masked, and exits non-zero when the service could not start with it.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/babulhossenshuvo/kyamipay/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.Load()

	fmt.Println("KPay configuration")
	fmt.Printf("  base_url:       %s\n", cfg.APIBaseURL())
	fmt.Printf("  sandbox_mode:   %t\n", cfg.SandboxMode)
	fmt.Printf("  entity:         %s\n", cfg.Entity)
	fmt.Printf("  token:          %s\n", mask(cfg.Token))
	fmt.Printf("  hash:           %s\n", mask(cfg.Hash))
	fmt.Printf("  currency:       %s\n", cfg.Currency)
	fmt.Printf("  expiry_hours:   %d\n", cfg.ReferenceExpiryHours)
	fmt.Printf("  timeout:        %s\n", cfg.Timeout())
	fmt.Printf("  webhook:        enabled=%t path=%s secret=%s\n",
		cfg.Webhook.Enabled, cfg.Webhook.Path, mask(cfg.Webhook.Secret))

	if err := cfg.Validate(); err != nil {
		log.Printf("[kpay][diag] configuration invalid: %v", err)
		os.Exit(1)
	}
	fmt.Println("configuration OK")
}

// mask keeps only the first and last two characters of a credential.
func mask(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "(not set)"
	}
	if len(v) <= 6 {
		return strings.Repeat("*", len(v))
	}
	return v[:2] + strings.Repeat("*", len(v)-4) + v[len(v)-2:]
}
