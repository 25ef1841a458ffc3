package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/babulhossenshuvo/kyamipay/internal/adapter/http/handlers/mocks"
	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/infrastructure/payments"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newReferenceRouter(t *testing.T) (*gin.Engine, *mocks.MockIReferenceUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIReferenceUseCase(ctrl)
	h := NewReferenceHandler(uc)

	r := gin.New()
	r.POST("/v1/kpay/references", h.GenerateReference)
	r.GET("/v1/kpay/references/:reference", h.CheckPayment)
	r.GET("/v1/kpay/references", h.ListReferences)
	r.POST("/v1/kpay/references/cancel", h.CancelReference)
	r.POST("/v1/kpay/simulate", h.SimulatePayment)
	return r, uc
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReferenceHandler_GenerateReference(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		r, _ := newReferenceRouter(t)
		if w := doJSON(r, http.MethodPost, "/v1/kpay/references", "{"); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		r, _ := newReferenceRouter(t)
		if w := doJSON(r, http.MethodPost, "/v1/kpay/references", `{"amount":"abc"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("gateway failure maps to 502", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(entities.Transaction{},
			&payments.GatewayError{Op: "generateReference", Cause: payments.CauseRejected})

		if w := doJSON(r, http.MethodPost, "/v1/kpay/references", `{"amount":"100.00"}`); w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, in usecase.GenerateReferenceInput) (entities.Transaction, error) {
				if in.Amount.String() != "100" || in.OrderID != "order-9" {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.Transaction{
					Reference: "123456789012345",
					Entity:    "0000",
					Amount:    in.Amount,
					Status:    entities.StatusPending,
					Currency:  "AOA",
					CreatedAt: time.Now().UTC(),
					OrderID:   in.OrderID,
				}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/kpay/references", `{"amount":"100.00","order_id":"order-9"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}

		var body struct {
			Success     bool `json:"success"`
			Transaction struct {
				Reference string `json:"reference"`
				Status    string `json:"status"`
			} `json:"transaction"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if !body.Success || body.Transaction.Reference != "123456789012345" || body.Transaction.Status != "pending" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})
}

func TestReferenceHandler_CheckPayment(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().CheckStatus(gomock.Any(), "missing").Return(entities.Transaction{}, usecase.ErrTransactionNotFound)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		paidAt := time.Now().UTC()
		uc.EXPECT().CheckStatus(gomock.Any(), "ref-1").Return(entities.Transaction{
			Reference: "ref-1",
			Amount:    decimal.RequireFromString("100.00"),
			Status:    entities.StatusPaid,
			PaidAt:    &paidAt,
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references/ref-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var body struct {
			Status string `json:"status"`
			Amount string `json:"amount"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body.Status != "paid" || body.Amount != "100" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})
}

func TestReferenceHandler_CancelReference(t *testing.T) {
	t.Run("missing reference", func(t *testing.T) {
		r, _ := newReferenceRouter(t)
		if w := doJSON(r, http.MethodPost, "/v1/kpay/references/cancel", `{}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("already paid maps to 409", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().Cancel(gomock.Any(), "ref-1").Return(&entities.InvalidTransitionError{
			Reference: "ref-1",
			From:      entities.StatusPaid,
			Event:     "markCancelled",
		})

		if w := doJSON(r, http.MethodPost, "/v1/kpay/references/cancel", `{"reference":"ref-1"}`); w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().Cancel(gomock.Any(), "ref-1").Return(nil)

		w := doJSON(r, http.MethodPost, "/v1/kpay/references/cancel", `{"reference":"ref-1"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestReferenceHandler_ListReferences(t *testing.T) {
	t.Run("defaults to paid", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().List(gomock.Any(), entities.StatusPaid).Return([]entities.Transaction{
			{Reference: "a", Amount: decimal.NewFromInt(1)},
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("explicit status", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().List(gomock.Any(), entities.StatusPending).Return(nil, nil)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references?status=pending", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("by user id", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().ListByUser(gomock.Any(), "user-1").Return([]entities.Transaction{
			{Reference: "a", Amount: decimal.NewFromInt(1), UserID: "user-1"},
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references?user_id=user-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("by order id", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().ListByOrder(gomock.Any(), "order-9").Return(nil, nil)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references?order_id=order-9", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().List(gomock.Any(), entities.TransactionStatus("bogus")).Return(nil, usecase.ErrInvalidStatus)

		w := doJSON(r, http.MethodGet, "/v1/kpay/references?status=bogus", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestReferenceHandler_SimulatePayment(t *testing.T) {
	t.Run("disabled outside sandbox", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().Simulate(gomock.Any(), "ref-1", gomock.Any()).Return(interfaces.ErrSimulationDisabled)

		w := doJSON(r, http.MethodPost, "/v1/kpay/simulate", `{"reference":"ref-1","amount":"100.00"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newReferenceRouter(t)
		uc.EXPECT().Simulate(gomock.Any(), "ref-1", gomock.Any()).Return(nil)

		w := doJSON(r, http.MethodPost, "/v1/kpay/simulate", `{"reference":"ref-1","amount":"100.00"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestMapReferenceError_Internal(t *testing.T) {
	appErr := mapReferenceError(errors.New("dynamodb down"))
	if appErr.HTTPStatus != http.StatusInternalServerError || appErr.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected mapping: %+v", appErr)
	}
}
