package models

import (
	"encoding/json"
	"time"
)

// Invoice status.
const (
	InvoiceOffen   = "OFFEN"
	InvoiceBezahlt = "BEZAHLT"
)

// Invoice is created atomically with its case. The invoice number is the case
// number; all amounts are in euro cents.
type Invoice struct {
	ID            int             `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CaseID        string          `json:"case_id"`
	Amount        int64           `json:"amount"`
	NetAmount     int64           `json:"net_amount"`
	VatAmount     int64           `json:"vat_amount"`
	VatRate       int             `json:"vat_rate"`
	Items         json.RawMessage `json:"items"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
