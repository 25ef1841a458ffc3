package payments

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/babulhossenshuvo/kyamipay/internal/config"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

const (
	// Gateway description field limit; longer values are truncated.
	maxDescriptionLen = 30

	// Expiry wire format used by the reference-creation endpoint.
	expiryLayout = "2006-01-02 15:04:05"
)

const (
	CauseTransport = "transport"
	CauseRejected  = "rejected"
)

// GatewayError is the only error type that crosses the gateway boundary.
// Cause is "transport" for timeouts/connection/TLS failures and "rejected"
// when the gateway answered with a non-success status. RawResponse carries
// the gateway body for rejected calls (no credentials ever appear in it).
type GatewayError struct {
	Op          string
	Cause       string
	RawResponse json.RawMessage
	Err         error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kpay %s: %s: %v", e.Op, e.Cause, e.Err)
	}
	return fmt.Sprintf("kpay %s: %s: %s", e.Op, e.Cause, string(e.RawResponse))
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// KPayGateway issues authenticated HTTP calls against the KPay API.
//
// It is stateless and safe for concurrent use. TLS certificate verification
// is always on; there is deliberately no insecure toggle.

type KPayGateway struct {
	client      *http.Client
	baseURL     string
	entity      string
	token       string
	hash        string
	factoryBag  string
	expiryHours int
	sandboxMode bool
	logRequests bool
}

var _ interfaces.IPaymentGateway = (*KPayGateway)(nil)

func NewKPayGateway(cfg *config.Config) (*KPayGateway, error) {
	if err := cfg.Validate(); err != nil {
		log.Printf("[kpay][gateway] configuration incomplete: %v", err)
		return nil, err
	}

	return &KPayGateway{
		client: &http.Client{
			Timeout: cfg.Timeout(),
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		baseURL:     strings.TrimRight(cfg.APIBaseURL(), "/"),
		entity:      cfg.Entity,
		token:       cfg.Token,
		hash:        cfg.Hash,
		factoryBag:  cfg.FactoryBag,
		expiryHours: cfg.ReferenceExpiryHours,
		sandboxMode: cfg.SandboxMode,
		logRequests: cfg.LogRequests,
	}, nil
}

// GenerateReference creates a payment reference at the gateway.
func (g *KPayGateway) GenerateReference(ctx context.Context, price decimal.Decimal, description string, expiry *time.Time) (interfaces.ReferenceInfo, error) {
	payload := map[string]interface{}{
		"entity": g.entity,
		"price":  price.StringFixed(2),
	}
	if description != "" {
		payload["description"] = truncate(description, maxDescriptionLen)
	}
	if expiry != nil {
		payload["expiry"] = expiry.UTC().Format(expiryLayout)
	} else {
		payload["expiry"] = time.Now().UTC().Add(time.Duration(g.expiryHours) * time.Hour).Format(expiryLayout)
	}

	const op = "generateReference"
	body, raw, err := g.post(ctx, op, "/ref", payload)
	if err != nil {
		return interfaces.ReferenceInfo{}, err
	}
	if !isSuccessStatus(body, false) {
		g.logError(op, raw)
		return interfaces.ReferenceInfo{}, &GatewayError{Op: op, Cause: CauseRejected, RawResponse: raw}
	}

	info := interfaces.ReferenceInfo{
		Reference:   stringField(body, "reference"),
		Entity:      stringField(body, "entity"),
		Price:       decimalField(body, "price"),
		Description: stringField(body, "description"),
		Expiry:      timeField(body, "expiry"),
		Raw:         raw,
	}
	if g.logRequests {
		log.Printf("[kpay][gateway] generate success reference=%s", info.Reference)
	}
	return info, nil
}

// CheckPayment reports whether a reference has been paid. A non-success
// gateway status means "not yet paid" and yields (nil, nil).
func (g *KPayGateway) CheckPayment(ctx context.Context, reference string) (*interfaces.PaymentInfo, error) {
	const op = "checkPayment"
	body, raw, err := g.post(ctx, op, "/request-paid", map[string]interface{}{
		"reference": reference,
	})
	if err != nil {
		return nil, err
	}
	if !isSuccessStatus(body, true) {
		if g.logRequests {
			log.Printf("[kpay][gateway] check reference=%s not paid yet", reference)
		}
		return nil, nil
	}

	return &interfaces.PaymentInfo{
		Reference: reference,
		Amount:    decimalField(body, "amount"),
		Raw:       raw,
	}, nil
}

// CancelReference requests cancellation of a reference at the gateway.
func (g *KPayGateway) CancelReference(ctx context.Context, reference string) error {
	const op = "cancelReference"
	body, raw, err := g.post(ctx, op, "/request/cl", map[string]interface{}{
		"reference": reference,
	})
	if err != nil {
		return err
	}
	if !isSuccessStatus(body, true) {
		g.logError(op, raw)
		return &GatewayError{Op: op, Cause: CauseRejected, RawResponse: raw}
	}
	if g.logRequests {
		log.Printf("[kpay][gateway] cancel success reference=%s", reference)
	}
	return nil
}

// ListPaidReferences enumerates references the gateway reports as paid.
func (g *KPayGateway) ListPaidReferences(ctx context.Context) ([]interfaces.PaymentInfo, error) {
	const op = "listPaidReferences"
	raw, err := g.do(ctx, op, http.MethodGet, "/list", nil)
	if err != nil {
		return nil, err
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		g.logError(op, raw)
		return nil, &GatewayError{Op: op, Cause: CauseRejected, RawResponse: raw, Err: err}
	}

	payments := make([]interfaces.PaymentInfo, 0, len(entries))
	for _, entry := range entries {
		entryRaw, _ := json.Marshal(entry)
		payments = append(payments, interfaces.PaymentInfo{
			Reference: stringField(entry, "reference"),
			Amount:    decimalField(entry, "amount"),
			Raw:       entryRaw,
		})
	}
	return payments, nil
}

// SimulatePayment emulates a payment through the gateway's test hook. It is
// refused outside sandbox mode so production configurations cannot fabricate
// confirmations.
func (g *KPayGateway) SimulatePayment(ctx context.Context, reference string, amount decimal.Decimal) error {
	if !g.sandboxMode {
		return interfaces.ErrSimulationDisabled
	}

	const op = "simulatePayment"
	body, raw, err := g.post(ctx, op, "/emulate", map[string]interface{}{
		"reference": reference,
		"amount":    amount.StringFixed(2),
	})
	if err != nil {
		return err
	}
	if !isSuccessStatus(body, true) {
		g.logError(op, raw)
		return &GatewayError{Op: op, Cause: CauseRejected, RawResponse: raw}
	}
	return nil
}

func (g *KPayGateway) post(ctx context.Context, op, path string, payload map[string]interface{}) (map[string]interface{}, json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, &GatewayError{Op: op, Cause: CauseTransport, Err: err}
	}

	raw, err := g.do(ctx, op, http.MethodPost, path, data)
	if err != nil {
		return nil, nil, err
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		g.logError(op, raw)
		return nil, nil, &GatewayError{Op: op, Cause: CauseRejected, RawResponse: raw, Err: err}
	}
	return body, raw, nil
}

func (g *KPayGateway) do(ctx context.Context, op, method, path string, data []byte) (json.RawMessage, error) {
	var reqBody io.Reader
	if data != nil {
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return nil, &GatewayError{Op: op, Cause: CauseTransport, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Sys-Marc-Zone", g.hash)
	req.Header.Set("Sys-Factory-Bag", g.factoryBag)
	req.Header.Set("Authorization", "Bearer "+g.token)

	if g.logRequests {
		log.Printf("[kpay][gateway] %s %s %s payload_len=%d", op, method, path, len(data))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("[kpay][gateway] %s transport failure: %v", op, err)
		return nil, &GatewayError{Op: op, Cause: CauseTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Op: op, Cause: CauseTransport, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logError(op, raw)
		return nil, &GatewayError{Op: op, Cause: CauseRejected, RawResponse: raw}
	}
	return raw, nil
}

func (g *KPayGateway) logError(op string, raw json.RawMessage) {
	log.Printf("[kpay][gateway] %s rejected by gateway response=%s", op, string(raw))
}

// isSuccessStatus reads the API-internal status field. The gateway signals
// success with 200/201 in the body, independent of the HTTP status code.
// Some endpoints omit the field on success; defaultOK controls that case.
func isSuccessStatus(body map[string]interface{}, defaultOK bool) bool {
	v, ok := body["status"]
	if !ok {
		return defaultOK
	}
	switch s := v.(type) {
	case float64:
		return s == 200 || s == 201
	case string:
		return s == "200" || s == "201"
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func decimalField(m map[string]interface{}, key string) *decimal.Decimal {
	switch v := m[key].(type) {
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return &d
		}
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	}
	return nil
}

func timeField(m map[string]interface{}, key string) *time.Time {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	if t, err := time.Parse(expiryLayout, v); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}
