package interfaces

// IWebhookVerifier checks inbound webhook payload signatures.
//
// When no shared secret is configured, Verify is permissive and returns true
// for any signature. SecretConfigured lets callers distinguish "verified"
// from "verification skipped" for logging.
type IWebhookVerifier interface {
	SecretConfigured() bool
	Verify(payload map[string]interface{}, signature string) bool
}
