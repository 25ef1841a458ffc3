package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"

	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

// WebhookVerifier checks HMAC-SHA256 signatures on inbound webhook payloads.
//
// The signature covers a canonical JSON serialization of the payload:
// encoding/json marshals maps with sorted keys, so signer and verifier agree
// on the byte stream regardless of the delivery's field order.
//
// An empty secret makes verification permissive: every payload passes. This
// mirrors the documented gateway behavior for environments without a shared
// secret and is logged as insecure at construction time.

type WebhookVerifier struct {
	secret string
}

var _ interfaces.IWebhookVerifier = (*WebhookVerifier)(nil)

func NewWebhookVerifier(secret string) *WebhookVerifier {
	if secret == "" {
		log.Printf("[kpay][verifier] no webhook secret configured, signature verification is disabled")
	}
	return &WebhookVerifier{secret: secret}
}

func (v *WebhookVerifier) SecretConfigured() bool {
	return v.secret != ""
}

func (v *WebhookVerifier) Verify(payload map[string]interface{}, signature string) bool {
	if v.secret == "" {
		return true
	}

	canonical, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(canonical)
	computed := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant time.
	return hmac.Equal([]byte(computed), []byte(signature))
}

// Sign computes the signature for a payload. Used by tests and by sandbox
// tooling that emulates gateway deliveries.
func (v *WebhookVerifier) Sign(payload map[string]interface{}) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
