package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"

	"github.com/shopspring/decimal"
)

type InvoiceCustomer struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type InvoiceCourt struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InvoiceResponse is the detail view of an invoice with its snapshots.
type InvoiceResponse struct {
	ID            string                   `json:"id"`
	Number        string                   `json:"number"`
	BookingID     string                   `json:"booking_id"`
	InvoiceDate   string                   `json:"invoice_date"`
	Amount        decimal.Decimal          `json:"amount"`
	BilledUnits   int                      `json:"billed_units"`
	Status        entity.InvoiceStatus     `json:"status"`
	Customer      InvoiceCustomer          `json:"customer"`
	Court         InvoiceCourt             `json:"court"`
	PaymentMethod *entity.PaymentMethod    `json:"payment_method,omitempty"`
	BankAccountID *string                  `json:"bank_account_id,omitempty"`
	RefundReason  *string                  `json:"refund_reason,omitempty"`
	PaidAt        *time.Time               `json:"paid_at,omitempty"`
	RefundedAt    *time.Time               `json:"refunded_at,omitempty"`
	Attempts      []PaymentAttemptResponse `json:"attempts,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

type PaymentAttemptResponse struct {
	ID            string                `json:"id"`
	Method        entity.PaymentMethod  `json:"method"`
	Amount        decimal.Decimal       `json:"amount"`
	BankAccountID *string               `json:"bank_account_id,omitempty"`
	Reference     *string               `json:"reference,omitempty"`
	Outcome       entity.AttemptOutcome `json:"outcome"`
	Reason        *string               `json:"reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func InvoiceToResponse(inv *entity.Invoice, attempts []*entity.PaymentAttemptRecord) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID.String(),
		Number:      inv.Number,
		BookingID:   inv.BookingID.String(),
		InvoiceDate: inv.InvoiceDate.Format(utils.DateLayout),
		Amount:      inv.Amount,
		BilledUnits: inv.BilledUnits,
		Status:      inv.Status,
		Customer: InvoiceCustomer{
			ID:    inv.CustomerID.String(),
			Name:  inv.CustomerName,
			Phone: inv.CustomerPhone,
			Email: inv.CustomerEmail,
		},
		Court: InvoiceCourt{
			ID:   inv.CourtID.String(),
			Name: inv.CourtName,
		},
		PaymentMethod: inv.PaymentMethod,
		RefundReason:  inv.RefundReason,
		PaidAt:        inv.PaidAt,
		RefundedAt:    inv.RefundedAt,
		CreatedAt:     inv.CreatedAt,
	}
	if inv.BankAccountID != nil {
		id := inv.BankAccountID.String()
		resp.BankAccountID = &id
	}

	for _, a := range attempts {
		ar := PaymentAttemptResponse{
			ID:        a.ID.String(),
			Method:    a.Method,
			Amount:    a.Amount,
			Reference: a.Reference,
			Outcome:   a.Outcome,
			Reason:    a.Reason,
			CreatedAt: a.CreatedAt,
		}
		if a.BankAccountID != nil {
			id := a.BankAccountID.String()
			ar.BankAccountID = &id
		}
		resp.Attempts = append(resp.Attempts, ar)
	}

	return resp
}
