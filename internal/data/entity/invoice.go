package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusFailed   InvoiceStatus = "failed"
	InvoiceStatusRefunded InvoiceStatus = "refunded"
)

// RefundReasonBookingCancelled is recorded when a paid invoice is reversed
// because its booking was cancelled.
const RefundReasonBookingCancelled = "booking_cancelled"

// Invoice bills one booking. Customer and court fields are copied at
// generation time and never follow later edits to the source rows.
type Invoice struct {
	Base
	Number      string          `db:"number"`
	BookingID   uuid.UUID       `db:"booking_id"`
	InvoiceDate time.Time       `db:"invoice_date"`
	Amount      decimal.Decimal `db:"amount"`
	BilledUnits int             `db:"billed_units"`
	Status      InvoiceStatus   `db:"status"`

	CustomerID    uuid.UUID `db:"customer_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerPhone *string   `db:"customer_phone"`
	CustomerEmail *string   `db:"customer_email"`
	CourtID       uuid.UUID `db:"court_id"`
	CourtName     string    `db:"court_name"`

	PaymentMethod *PaymentMethod `db:"payment_method"`
	BankAccountID *uuid.UUID     `db:"bank_account_id"`
	RefundReason  *string        `db:"refund_reason"`
	PaidAt        *time.Time     `db:"paid_at"`
	RefundedAt    *time.Time     `db:"refunded_at"`
}

// Settleable reports whether a new settlement attempt may run.
// Failed invoices may be retried.
func (i *Invoice) Settleable() bool {
	return i.Status == InvoiceStatusPending || i.Status == InvoiceStatusFailed
}
