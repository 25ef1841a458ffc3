package handlers

import (
	"log"
	"net/http"

	response "github.com/babulhossenshuvo/kyamipay/internal/adapter/http/dto/response"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the HMAC hex digest of the delivery body.
const SignatureHeader = "X-Signature"

// WebhookHandler receives payment-confirmation callbacks from KPay.

type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
}

func NewWebhookHandler(uc usecase.IWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// HandleNotification acknowledges a gateway delivery. Status codes follow the
// gateway's retry contract: 4xx rejects the delivery, 200 stops retries even
// for unknown references, 5xx asks the gateway to try again.
//
// @Summary      KPay payment webhook
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string  false  "HMAC-SHA256 signature of the body"
// @Success      200          {object}  response.WebhookAck
// @Failure      400          {object}  response.WebhookAck
// @Failure      401          {object}  response.WebhookAck
// @Router       /kpay/webhook [post]
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		log.Printf("[kpay][webhook] body read failed err=%v", err)
		c.JSON(http.StatusBadRequest, response.WebhookAck{Code: http.StatusBadRequest, Message: "Invalid payload"})
		return
	}

	ack := h.usecase.Process(c.Request.Context(), raw, c.GetHeader(SignatureHeader))
	c.JSON(ack.Code, response.WebhookAck{Code: ack.Code, Message: ack.Message})
}
