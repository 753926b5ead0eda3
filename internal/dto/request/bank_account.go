package request

type CreateBankAccountRequest struct {
	AccountNumber string `json:"account_number" validate:"required,max=50"`
	AccountName   string `json:"account_name" validate:"required,max=100"`
	BankName      string `json:"bank_name" validate:"required,max=100"`
	IsDefault     bool   `json:"is_default"`
}
