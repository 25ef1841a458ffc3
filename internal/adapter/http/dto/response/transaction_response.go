package response

import (
	"time"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
)

// TransactionResponse is the outward shape of a payment reference record.
type TransactionResponse struct {
	Reference   string     `json:"reference"`
	Entity      string     `json:"entity,omitempty"`
	Amount      string     `json:"amount"`
	Price       string     `json:"price,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Currency    string     `json:"currency"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`

	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	APIResponse map[string]interface{} `json:"api_response,omitempty"`

	UserID  string `json:"user_id,omitempty"`
	OrderID string `json:"order_id,omitempty"`
}

func FromTransaction(tx entities.Transaction) TransactionResponse {
	resp := TransactionResponse{
		Reference:   tx.Reference,
		Entity:      tx.Entity,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Status:      string(tx.Status),
		Currency:    tx.Currency,
		CreatedAt:   tx.CreatedAt,
		ExpiresAt:   tx.ExpiresAt,
		PaidAt:      tx.PaidAt,
		Metadata:    tx.Metadata,
		APIResponse: tx.APIResponse,
		UserID:      tx.UserID,
		OrderID:     tx.OrderID,
	}
	if tx.Price != nil {
		resp.Price = tx.Price.String()
	}
	return resp
}

func FromTransactions(txs []entities.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromTransaction(tx))
	}
	return out
}

// GenerateReferenceResponse wraps a successful reference creation.
type GenerateReferenceResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}

// CancelReferenceResponse acknowledges a cancellation.
type CancelReferenceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WebhookAck is the body returned to the gateway for every delivery.
type WebhookAck struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}
