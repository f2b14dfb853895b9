// Package receipt attaches generated receipts to confirmed payments.
package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
)

// Service renders a receipt for a confirmed payment, stores it, attaches
// its location to the transaction and notifies the payer.
//
// The whole chain is best effort: the ledger write is authoritative and a
// failed receipt never rolls it back. Failures are logged and swallowed.
type Service struct {
	renderer        adapter.ReceiptRenderer
	store           adapter.FileStore
	transactionRepo adapter.TransactionRepository
	notifier        adapter.ReceiptNotifier // optional
}

// NewService creates a new receipt service. notifier may be nil.
func NewService(
	renderer adapter.ReceiptRenderer,
	store adapter.FileStore,
	transactionRepo adapter.TransactionRepository,
	notifier adapter.ReceiptNotifier,
) *Service {
	return &Service{
		renderer:        renderer,
		store:           store,
		transactionRepo: transactionRepo,
		notifier:        notifier,
	}
}

// GenerateAndAttach runs after the financial commit for every confirmed
// payment. It never returns an error.
func (s *Service) GenerateAndAttach(ctx context.Context, transaction *entity.Transaction, issuer string) {
	logger := slog.With("transaction_id", transaction.ID)

	data, err := s.renderer.Render(ctx, transaction, issuer)
	if err != nil {
		logger.Error("Failed to render receipt", "error", err)
		return
	}

	name := fmt.Sprintf("receipt_%s_%d.pdf", transaction.ID, time.Now().UnixMilli())
	location, err := s.store.Store(ctx, data, name)
	if err != nil {
		logger.Error("Failed to store receipt", "error", err)
		return
	}

	if err := s.transactionRepo.AttachProof(ctx, transaction.ID, location); err != nil {
		logger.Error("Failed to attach receipt to transaction", "error", err)
		return
	}
	transaction.ProofURL = &location

	if s.notifier != nil {
		if err := s.notifier.NotifyPaymentConfirmed(ctx, transaction, location); err != nil {
			logger.Warn("Failed to send receipt notification", "error", err)
		}
	}
}
