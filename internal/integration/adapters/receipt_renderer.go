// Package adapters implements external service integrations.
package adapters

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

// receiptTemplate is intentionally simple HTML. Receipts are archival
// documents, not marketing material.
var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment Receipt</title></head>
<body>
<h1>Payment Receipt</h1>
<table>
<tr><td>Receipt no.</td><td>{{.TransactionID}}</td></tr>
<tr><td>Date</td><td>{{.Date}}</td></tr>
<tr><td>Unit</td><td>{{.UnitID}}</td></tr>
<tr><td>Amount</td><td>{{.Amount}}</td></tr>
<tr><td>Payment method</td><td>{{.Method}}</td></tr>
<tr><td>Description</td><td>{{.Description}}</td></tr>
{{if .Issuer}}<tr><td>Issued by</td><td>{{.Issuer}}</td></tr>{{end}}
</table>
{{if .Splits}}
<h2>Fund allocation</h2>
<table>
{{range .Splits}}<tr><td>{{.Fund}}</td><td>{{.Amount}}</td></tr>
{{end}}<tr><td>Total allocated</td><td>{{.Allocated}}</td></tr>
</table>
{{end}}
</body>
</html>
`))

type receiptSplit struct {
	Fund   string
	Amount string
}

type receiptData struct {
	TransactionID string
	Date          string
	UnitID        string
	Amount        string
	Method        string
	Description   string
	Issuer        string
	Splits        []receiptSplit
	Allocated     string
}

// HTMLReceiptRenderer renders receipts as self-contained HTML documents.
type HTMLReceiptRenderer struct{}

// NewHTMLReceiptRenderer creates a new HTMLReceiptRenderer instance.
func NewHTMLReceiptRenderer() *HTMLReceiptRenderer {
	return &HTMLReceiptRenderer{}
}

// Render produces the receipt document for a confirmed payment.
func (r *HTMLReceiptRenderer) Render(_ context.Context, transaction *entity.Transaction, issuer string) ([]byte, error) {
	data := receiptData{
		TransactionID: transaction.ID.String(),
		Date:          transaction.CreatedAt.Format(time.RFC1123),
		UnitID:        transaction.UnitID.String(),
		Amount:        transaction.Amount.StringFixed(2),
		Method:        string(transaction.PaymentMethod),
		Description:   transaction.Description,
		Issuer:        issuer,
	}
	for _, split := range transaction.Splits {
		data.Splits = append(data.Splits, receiptSplit{
			Fund:   string(split.FundType),
			Amount: split.Amount.StringFixed(2),
		})
	}
	if len(data.Splits) > 0 {
		data.Allocated = transaction.SplitTotal().StringFixed(2)
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return nil, domainerror.NewFinanceError(
			domainerror.ErrCodeReceiptFailed,
			fmt.Sprintf("failed to render receipt for transaction %s", transaction.ID),
			err,
		)
	}

	return buf.Bytes(), nil
}
