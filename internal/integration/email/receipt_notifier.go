// Package email provides payment notifications via Resend.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// ResendNotifier sends payment confirmation emails through Resend.
type ResendNotifier struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendNotifier creates a new Resend notifier.
func NewResendNotifier(apiKey, fromName, fromEmail string) *ResendNotifier {
	return &ResendNotifier{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NotifyPaymentConfirmed emails the building manager inbox that a payment
// was confirmed, linking the generated receipt.
func (n *ResendNotifier) NotifyPaymentConfirmed(ctx context.Context, transaction *entity.Transaction, receiptURL string) error {
	from := fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	subject := fmt.Sprintf("Payment confirmed: %s", transaction.Description)

	html := fmt.Sprintf(
		"<p>A payment of <strong>%s</strong> for unit %s was confirmed.</p>"+
			"<p>Method: %s</p><p>Receipt: %s</p>",
		transaction.Amount.StringFixed(2),
		transaction.UnitID,
		transaction.PaymentMethod,
		receiptURL,
	)
	text := fmt.Sprintf(
		"A payment of %s for unit %s was confirmed.\nMethod: %s\nReceipt: %s\n",
		transaction.Amount.StringFixed(2),
		transaction.UnitID,
		transaction.PaymentMethod,
		receiptURL,
	)

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{n.fromEmail},
		Subject: subject,
		Html:    html,
		Text:    text,
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return domainerror.NewFinanceError(
			domainerror.ErrCodeReceiptFailed,
			"failed to send payment confirmation email",
			err,
		)
	}

	return nil
}
