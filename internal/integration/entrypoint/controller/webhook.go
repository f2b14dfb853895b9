package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/building-ledger/backend/internal/application/usecase/payment"
	"github.com/building-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/building-ledger/backend/internal/integration/gateway"
)

// maxWebhookBodyBytes bounds webhook payload size.
const maxWebhookBodyBytes = 1 << 16

// WebhookController handles payment gateway callbacks.
type WebhookController struct {
	gateway       *gateway.StripeGateway
	recordDeposit *payment.RecordGatewayDepositUseCase
}

// NewWebhookController creates a new webhook controller instance.
func NewWebhookController(
	stripeGateway *gateway.StripeGateway,
	recordDeposit *payment.RecordGatewayDepositUseCase,
) *WebhookController {
	return &WebhookController{
		gateway:       stripeGateway,
		recordDeposit: recordDeposit,
	}
}

// HandleStripeEvent handles POST /webhooks/stripe requests.
//
// Redelivered events answer 200 so the gateway stops retrying; any 5xx
// answer triggers a redelivery, which the idempotency guards absorb.
func (c *WebhookController) HandleStripeEvent(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read payload"})
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")
	deposit, err := c.gateway.ParseDepositEvent(ctx.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidWebhookSignature) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid signature"})
			return
		}
		slog.Error("Failed to parse gateway event", "error", err)
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Malformed event"})
		return
	}
	if deposit == nil {
		// Event type the ledger does not consume.
		ctx.Status(http.StatusOK)
		return
	}

	output, err := c.recordDeposit.Execute(ctx.Request.Context(), payment.RecordGatewayDepositInput{
		UnitID:      deposit.UnitID,
		GrossAmount: deposit.GrossAmount,
		GatewayFee:  deposit.Fee,
		ExternalID:  deposit.EventID,
		ReceiptURL:  deposit.ReceiptURL,
	})
	if err != nil {
		slog.Error("Failed to record gateway deposit",
			"event_id", deposit.EventID, "unit_id", deposit.UnitID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to record deposit"})
		return
	}

	if output.AlreadyRecorded {
		ctx.Status(http.StatusOK)
		return
	}
	ctx.Status(http.StatusCreated)
}
