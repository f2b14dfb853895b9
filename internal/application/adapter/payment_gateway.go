package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentGateway starts checkout sessions with the external payment
// provider. Completed payments come back asynchronously through the
// provider's webhook.
type PaymentGateway interface {
	// CreateDepositIntent registers a deposit for the unit with the
	// gateway and returns the client secret the frontend needs to
	// complete the checkout.
	CreateDepositIntent(ctx context.Context, unitID uuid.UUID, amount decimal.Decimal) (clientSecret string, err error)
}
