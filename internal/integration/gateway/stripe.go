// Package gateway integrates the Stripe payment provider.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// metadataUnitID is the metadata key carrying the unit through checkout.
const metadataUnitID = "unit_id"

// ErrInvalidWebhookSignature is returned when a webhook payload fails
// signature verification.
var ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

// DepositEvent is a completed gateway payment extracted from a webhook.
type DepositEvent struct {
	UnitID      uuid.UUID
	GrossAmount decimal.Decimal
	Fee         decimal.Decimal
	EventID     string
	ReceiptURL  string
}

// StripeGateway implements adapter.PaymentGateway on the Stripe API.
type StripeGateway struct {
	client        *client.API
	currency      string
	webhookSecret string
}

// NewStripeGateway creates a new StripeGateway instance.
func NewStripeGateway(secretKey, webhookSecret, currency string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		client:        api,
		currency:      currency,
		webhookSecret: webhookSecret,
	}
}

// CreateDepositIntent registers a deposit with Stripe and returns the
// client secret for the frontend checkout.
func (g *StripeGateway) CreateDepositIntent(ctx context.Context, unitID uuid.UUID, amount decimal.Decimal) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(g.currency),
	}
	params.Context = ctx
	params.AddMetadata(metadataUnitID, unitID.String())

	intent, err := g.client.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// ParseDepositEvent verifies and parses a webhook payload. It returns nil
// for event types the ledger does not consume.
func (g *StripeGateway) ParseDepositEvent(ctx context.Context, payload []byte, signature string) (*DepositEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWebhookSignature, err)
	}

	if event.Type != "payment_intent.succeeded" {
		return nil, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeGatewayFailed,
			"failed to decode payment intent event",
			err,
		)
	}

	unitID, err := uuid.Parse(intent.Metadata[metadataUnitID])
	if err != nil {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeGatewayFailed,
			fmt.Sprintf("payment intent %s carries no valid unit id", intent.ID),
			err,
		)
	}

	deposit := &DepositEvent{
		UnitID:      unitID,
		GrossAmount: fromMinorUnits(intent.Amount),
		EventID:     intent.ID,
	}
	g.enrichFromCharge(ctx, &intent, deposit)

	return deposit, nil
}

// enrichFromCharge resolves the receipt URL and the processing fee from
// the charge behind the intent. Both lookups are best effort: the deposit
// is recorded either way.
func (g *StripeGateway) enrichFromCharge(ctx context.Context, intent *stripe.PaymentIntent, deposit *DepositEvent) {
	if intent.LatestCharge == nil || intent.LatestCharge.ID == "" {
		return
	}

	chargeParams := &stripe.ChargeParams{}
	chargeParams.Context = ctx
	charge, err := g.client.Charges.Get(intent.LatestCharge.ID, chargeParams)
	if err != nil {
		slog.Warn("Failed to load charge for deposit",
			"payment_intent", intent.ID, "charge", intent.LatestCharge.ID, "error", err)
		return
	}

	deposit.ReceiptURL = charge.ReceiptURL

	if charge.BalanceTransaction == nil || charge.BalanceTransaction.ID == "" {
		return
	}
	btParams := &stripe.BalanceTransactionParams{}
	btParams.Context = ctx
	balanceTx, err := g.client.BalanceTransactions.Get(charge.BalanceTransaction.ID, btParams)
	if err != nil {
		slog.Warn("Failed to load balance transaction for deposit",
			"payment_intent", intent.ID, "error", err)
		return
	}
	deposit.Fee = fromMinorUnits(balanceTx.Fee)
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-2)
}
