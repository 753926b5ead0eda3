package response

import "court-booking/internal/data/entity"

type BankAccountResponse struct {
	ID            string                  `json:"id"`
	Owner         entity.BankAccountOwner `json:"owner"`
	SupplierID    *string                 `json:"supplier_id,omitempty"`
	AccountNumber string                  `json:"account_number"`
	AccountName   string                  `json:"account_name"`
	BankName      string                  `json:"bank_name"`
	IsDefault     bool                    `json:"is_default"`
	IsActive      bool                    `json:"is_active"`
}

func BankAccountToResponse(a *entity.BankAccount) BankAccountResponse {
	resp := BankAccountResponse{
		ID:            a.ID.String(),
		Owner:         a.Owner,
		AccountNumber: a.AccountNumber,
		AccountName:   a.AccountName,
		BankName:      a.BankName,
		IsDefault:     a.IsDefault,
		IsActive:      a.IsActive,
	}
	if a.SupplierID != nil {
		id := a.SupplierID.String()
		resp.SupplierID = &id
	}
	return resp
}
