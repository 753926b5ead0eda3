package request

type GenerateInvoiceRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

// SettleInvoiceRequest carries one settlement attempt. Amount is the tendered
// amount as a decimal string and must equal the invoice amount.
type SettleInvoiceRequest struct {
	Method        string  `json:"method" validate:"required,oneof=cash bank ewallet total_fund"`
	BankAccountID *string `json:"bank_account_id,omitempty" validate:"omitempty,uuid"`
	Reference     string  `json:"reference,omitempty" validate:"max=100"`
	Amount        string  `json:"amount" validate:"required,money"`
}

type RefundInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,max=100"`
}

type ListInvoicesRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending paid failed refunded"`
	From   string `json:"from" validate:"omitempty,date"`
	To     string `json:"to" validate:"omitempty,date"`
}

type ExportInvoicesRequest struct {
	From string `json:"from" validate:"required,date"`
	To   string `json:"to" validate:"required,date"`
}
