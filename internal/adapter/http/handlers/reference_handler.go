package handlers

import (
	"errors"
	"log"
	"net/http"

	request "github.com/babulhossenshuvo/kyamipay/internal/adapter/http/dto/request"
	response "github.com/babulhossenshuvo/kyamipay/internal/adapter/http/dto/response"
	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/infrastructure/payments"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
	"github.com/babulhossenshuvo/kyamipay/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidReferencePayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)

// ReferenceHandler handles HTTP requests for KPay payment references.

type ReferenceHandler struct {
	usecase usecase.IReferenceUseCase
}

func NewReferenceHandler(uc usecase.IReferenceUseCase) *ReferenceHandler {
	return &ReferenceHandler{usecase: uc}
}

// GenerateReference creates a new payment reference at the gateway and
// records it locally in pending state.
//
// @Summary      Generate payment reference
// @Description  Requests a new payment reference from KPay and stores the pending transaction.
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        payload  body      request.GenerateReferenceRequest  true  "Reference request"
// @Success      201      {object}  response.GenerateReferenceResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      502      {object}  pkg.HTTPError
// @Router       /kpay/references [post]
func (h *ReferenceHandler) GenerateReference(c *gin.Context) {
	var payload request.GenerateReferenceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[kpay][handler] generate invalid payload err=%v", err)
		c.JSON(errInvalidReferencePayload.HTTPStatus, errInvalidReferencePayload.ToHTTPError())
		return
	}

	in, err := payload.ToInput()
	if err != nil {
		log.Printf("[kpay][handler] generate invalid input err=%v", err)
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] generate start amount=%s order_id=%s", in.Amount, in.OrderID)

	tx, err := h.usecase.Generate(c.Request.Context(), in)
	if err != nil {
		log.Printf("[kpay][handler] generate failed amount=%s err=%v", in.Amount, err)
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] generate success reference=%s entity=%s", tx.Reference, tx.Entity)

	c.JSON(http.StatusCreated, response.GenerateReferenceResponse{
		Success:     true,
		Message:     "Reference generated successfully",
		Transaction: response.FromTransaction(tx),
	})
}

// CheckPayment returns the current state of a reference, consulting the
// gateway when the local record is still pending.
//
// @Summary      Check payment status
// @Tags         references
// @Produce      json
// @Param        reference  path      string  true  "Payment reference"
// @Success      200        {object}  response.TransactionResponse
// @Failure      404        {object}  pkg.HTTPError
// @Router       /kpay/references/{reference} [get]
func (h *ReferenceHandler) CheckPayment(c *gin.Context) {
	reference := c.Param("reference")
	log.Printf("[kpay][handler] check start reference=%s", reference)

	tx, err := h.usecase.CheckStatus(c.Request.Context(), reference)
	if err != nil {
		log.Printf("[kpay][handler] check failed reference=%s err=%v", reference, err)
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] check success reference=%s status=%s", tx.Reference, tx.Status)

	c.JSON(http.StatusOK, response.FromTransaction(tx))
}

// CancelReference revokes a reference at the gateway and marks the local
// record cancelled.
//
// @Summary      Cancel payment reference
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        payload  body      request.CancelReferenceRequest  true  "Cancel request"
// @Success      200      {object}  response.CancelReferenceResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Router       /kpay/references/cancel [post]
func (h *ReferenceHandler) CancelReference(c *gin.Context) {
	var payload request.CancelReferenceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[kpay][handler] cancel invalid payload err=%v", err)
		c.JSON(errInvalidReferencePayload.HTTPStatus, errInvalidReferencePayload.ToHTTPError())
		return
	}

	reference, err := payload.ResolveReference()
	if err != nil {
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] cancel start reference=%s", reference)

	if err := h.usecase.Cancel(c.Request.Context(), reference); err != nil {
		log.Printf("[kpay][handler] cancel failed reference=%s err=%v", reference, err)
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] cancel success reference=%s", reference)

	c.JSON(http.StatusOK, response.CancelReferenceResponse{
		Success: true,
		Message: "Reference cancelled successfully",
	})
}

// ListReferences lists local transactions by status, or by user/order
// correlation id when one is given. Paid listings are reconciled against the
// gateway first.
//
// @Summary      List references
// @Tags         references
// @Produce      json
// @Param        status    query     string  false  "Transaction status"  default(paid)
// @Param        user_id   query     string  false  "Filter by user id"
// @Param        order_id  query     string  false  "Filter by order id"
// @Success      200       {array}   response.TransactionResponse
// @Failure      400       {object}  pkg.HTTPError
// @Router       /kpay/references [get]
func (h *ReferenceHandler) ListReferences(c *gin.Context) {
	var (
		txs []entities.Transaction
		err error
	)
	switch {
	case c.Query("user_id") != "":
		log.Printf("[kpay][handler] list start user_id=%s", c.Query("user_id"))
		txs, err = h.usecase.ListByUser(c.Request.Context(), c.Query("user_id"))
	case c.Query("order_id") != "":
		log.Printf("[kpay][handler] list start order_id=%s", c.Query("order_id"))
		txs, err = h.usecase.ListByOrder(c.Request.Context(), c.Query("order_id"))
	default:
		status := entities.TransactionStatus(c.DefaultQuery("status", string(entities.StatusPaid)))
		log.Printf("[kpay][handler] list start status=%s", status)
		txs, err = h.usecase.List(c.Request.Context(), status)
	}
	if err != nil {
		log.Printf("[kpay][handler] list failed err=%v", err)
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] list success count=%d", len(txs))

	c.JSON(http.StatusOK, response.FromTransactions(txs))
}

// SimulatePayment triggers a sandbox payment against a reference. Refused
// outside sandbox mode.
//
// @Summary      Simulate a sandbox payment
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        payload  body      request.SimulatePaymentRequest  true  "Simulation request"
// @Success      200      {object}  response.CancelReferenceResponse
// @Failure      400      {object}  pkg.HTTPError
// @Router       /kpay/simulate [post]
func (h *ReferenceHandler) SimulatePayment(c *gin.Context) {
	var payload request.SimulatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[kpay][handler] simulate invalid payload err=%v", err)
		c.JSON(errInvalidReferencePayload.HTTPStatus, errInvalidReferencePayload.ToHTTPError())
		return
	}

	reference, amount, err := payload.Resolve()
	if err != nil {
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] simulate start reference=%s amount=%s", reference, amount)

	if err := h.usecase.Simulate(c.Request.Context(), reference, amount); err != nil {
		log.Printf("[kpay][handler] simulate failed reference=%s err=%v", reference, err)
		appErr := mapReferenceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[kpay][handler] simulate success reference=%s", reference)

	c.JSON(http.StatusOK, response.CancelReferenceResponse{
		Success: true,
		Message: "Payment simulated successfully",
	})
}

func mapReferenceError(err error) *pkg.AppError {
	var gwErr *payments.GatewayError
	var transitionErr *entities.InvalidTransitionError

	switch {
	case errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidExpiry),
		errors.Is(err, usecase.ErrInvalidReference),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidUser),
		errors.Is(err, usecase.ErrInvalidOrder),
		errors.Is(err, request.ErrInvalidAmountValue),
		errors.Is(err, request.ErrInvalidExpiryValue),
		errors.Is(err, request.ErrMissingReference):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrSimulationDisabled):
		return pkg.NewDomainErrorSimple("SIMULATION_DISABLED", "Payment simulation is only available in sandbox mode", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTransactionNotFound):
		return pkg.NewDomainErrorSimple("TRANSACTION_NOT_FOUND", "Transaction not found", http.StatusNotFound)
	case errors.As(err, &transitionErr), errors.Is(err, interfaces.ErrStatusConflict):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Transaction state does not allow this operation", http.StatusConflict)
	case errors.As(err, &gwErr):
		return pkg.NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment gateway request failed", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
