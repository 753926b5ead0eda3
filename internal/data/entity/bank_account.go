package entity

import "github.com/google/uuid"

type BankAccountOwner string

const (
	BankAccountOwnerStore    BankAccountOwner = "store"
	BankAccountOwnerSupplier BankAccountOwner = "supplier"
)

// BankAccount is a settlement account owned by the store or by one supplier.
// Each owner has at most one default account.
type BankAccount struct {
	Base
	Owner         BankAccountOwner `db:"owner"`
	SupplierID    *uuid.UUID       `db:"supplier_id"`
	AccountNumber string           `db:"account_number"`
	AccountName   string           `db:"account_name"`
	BankName      string           `db:"bank_name"`
	IsDefault     bool             `db:"is_default"`
	IsActive      bool             `db:"is_active"`
}
