package adapter

import (
	"context"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// ReceiptRenderer renders a receipt document for a confirmed payment.
// Rendering is an external collaborator: a render failure never rolls
// back the ledger write.
type ReceiptRenderer interface {
	Render(ctx context.Context, transaction *entity.Transaction, issuer string) ([]byte, error)
}

// FileStore persists receipt documents and returns their location.
type FileStore interface {
	Store(ctx context.Context, data []byte, name string) (location string, err error)
}

// ReceiptNotifier notifies the payer that a payment was confirmed.
// Best effort: failures are logged, never propagated.
type ReceiptNotifier interface {
	NotifyPaymentConfirmed(ctx context.Context, transaction *entity.Transaction, receiptURL string) error
}
