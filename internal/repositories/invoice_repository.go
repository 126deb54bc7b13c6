package repositories

import (
	"context"
	"database/sql"
	"time"

	"accounthilfe/internal/models"
)

type InvoiceRepository struct {
	DB *sql.DB
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	inv.CreatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO invoices (invoice_number, case_id, amount, net_amount, vat_amount, vat_rate, items, status, payment_method, paid_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, inv.InvoiceNumber, inv.CaseID, inv.Amount, inv.NetAmount, inv.VatAmount, inv.VatRate,
		string(inv.Items), inv.Status, inv.PaymentMethod, inv.PaidAt, inv.CreatedAt)
	if err != nil {
		return models.Invoice{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Invoice{}, err
	}
	inv.ID = int(id)
	return inv, nil
}

func (r *InvoiceRepository) GetByCaseID(ctx context.Context, caseID string) (models.Invoice, error) {
	var inv models.Invoice
	var items string
	var paidAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, invoice_number, case_id, amount, net_amount, vat_amount, vat_rate, items, status, payment_method, paid_at, created_at
        FROM invoices
        WHERE case_id = ?
    `, caseID).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CaseID, &inv.Amount, &inv.NetAmount, &inv.VatAmount,
		&inv.VatRate, &items, &inv.Status, &inv.PaymentMethod, &paidAt, &inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Items = []byte(items)
	if paidAt.Valid {
		t := paidAt.Time
		inv.PaidAt = &t
	}
	return inv, nil
}

// MarkPaid advances a bank-transfer invoice after the admin confirms the
// incoming payment.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, caseID string, paidAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE invoices SET status = ?, paid_at = ? WHERE case_id = ?
    `, models.InvoiceBezahlt, paidAt, caseID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrInvoiceNotFound
	}
	return nil
}
