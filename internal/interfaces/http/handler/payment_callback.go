package handler

import (
	"errors"
	"io"
	"net/http"

	appledger "github.com/crewpay/backend/internal/application/ledger"
	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// callback bodies are small; anything larger is garbage
const maxCallbackBody = 64 * 1024

// PaymentCallbackHandler receives asynchronous payment results from the
// M-Pesa gateway. The route is unauthenticated because Daraja cannot send a
// bearer token; the payload is validated by the gateway adapter and deduped
// by CheckoutRequestID before it can touch the ledger.
type PaymentCallbackHandler struct {
	BaseHandler
	service *appledger.LedgerService
	gateway ledger.PaymentGateway
	logger  *zap.Logger
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(service *appledger.LedgerService, gateway ledger.PaymentGateway, logger *zap.Logger) *PaymentCallbackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentCallbackHandler{service: service, gateway: gateway, logger: logger}
}

// RegisterRoutes registers the callback route on the given (public) group
func (h *PaymentCallbackHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/mpesa/callback", h.HandleCallback)
}

// HandleCallback parses the callback and forwards the result to the ledger.
// Daraja expects a ResultCode acknowledgement and retries on anything else,
// so processing failures are logged and acknowledged rather than surfaced.
func (h *PaymentCallbackHandler) HandleCallback(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "Unreadable body"})
		return
	}

	result, err := h.gateway.ParseCallback(payload)
	if err != nil {
		if errors.Is(err, ledger.ErrGatewayInvalidCallback) {
			h.logger.Warn("rejected malformed payment callback", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "Invalid payload"})
			return
		}
		h.logger.Error("failed to parse payment callback", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "Invalid payload"})
		return
	}

	if err := h.service.OnWithdrawalResult(c.Request.Context(), result); err != nil {
		// Acknowledge anyway: a retry would be deduped, and the failure is
		// already recorded for reconciliation.
		h.logger.Error("payment callback processing failed",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
