package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodBank      PaymentMethod = "bank"
	PaymentMethodEWallet   PaymentMethod = "ewallet"
	PaymentMethodTotalFund PaymentMethod = "total_fund"
)

// PaymentAttempt is one of CashPayment, EWalletPayment, TotalFundPayment or
// BankPayment. Only BankPayment carries a settlement account, so a bank
// transfer without an account cannot be constructed.
type PaymentAttempt interface {
	Method() PaymentMethod
	paymentAttempt()
}

type CashPayment struct{}

type EWalletPayment struct {
	Reference string
}

// TotalFundPayment draws from the pooled balance managed outside this service.
type TotalFundPayment struct{}

type BankPayment struct {
	AccountID uuid.UUID
}

func (CashPayment) Method() PaymentMethod      { return PaymentMethodCash }
func (EWalletPayment) Method() PaymentMethod   { return PaymentMethodEWallet }
func (TotalFundPayment) Method() PaymentMethod { return PaymentMethodTotalFund }
func (BankPayment) Method() PaymentMethod      { return PaymentMethodBank }

func (CashPayment) paymentAttempt()      {}
func (EWalletPayment) paymentAttempt()   {}
func (TotalFundPayment) paymentAttempt() {}
func (BankPayment) paymentAttempt()      {}

// ErrMissingBankAccount: a bank transfer was requested without naming the
// account it settles into.
var ErrMissingBankAccount = errors.New("bank transfer requires a bank account")

// NewPaymentAttempt builds the attempt for method. bankAccountID is only read
// for bank transfers and reference only for e-wallets.
func NewPaymentAttempt(method PaymentMethod, bankAccountID *uuid.UUID, reference string) (PaymentAttempt, error) {
	switch method {
	case PaymentMethodCash:
		return CashPayment{}, nil
	case PaymentMethodEWallet:
		return EWalletPayment{Reference: reference}, nil
	case PaymentMethodTotalFund:
		return TotalFundPayment{}, nil
	case PaymentMethodBank:
		if bankAccountID == nil || *bankAccountID == uuid.Nil {
			return nil, ErrMissingBankAccount
		}
		return BankPayment{AccountID: *bankAccountID}, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", method)
	}
}

type AttemptOutcome string

const (
	AttemptOutcomePaid     AttemptOutcome = "paid"
	AttemptOutcomeFailed   AttemptOutcome = "failed"
	AttemptOutcomeRejected AttemptOutcome = "rejected"
)

// PaymentAttemptRecord is the settlement log row kept for every attempt,
// successful or not.
type PaymentAttemptRecord struct {
	BaseSimple
	InvoiceID     uuid.UUID       `db:"invoice_id"`
	Method        PaymentMethod   `db:"method"`
	Amount        decimal.Decimal `db:"amount"`
	BankAccountID *uuid.UUID      `db:"bank_account_id"`
	Reference     *string         `db:"reference"`
	Outcome       AttemptOutcome  `db:"outcome"`
	Reason        *string         `db:"reason"`
}

func NewAttemptRecord(invoiceID uuid.UUID, attempt PaymentAttempt, amount decimal.Decimal, outcome AttemptOutcome, reason string) *PaymentAttemptRecord {
	rec := &PaymentAttemptRecord{
		BaseSimple: BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		InvoiceID:  invoiceID,
		Method:     attempt.Method(),
		Amount:     amount,
		Outcome:    outcome,
	}
	switch a := attempt.(type) {
	case BankPayment:
		id := a.AccountID
		rec.BankAccountID = &id
	case EWalletPayment:
		if a.Reference != "" {
			ref := a.Reference
			rec.Reference = &ref
		}
	}
	if reason != "" {
		rec.Reason = &reason
	}
	return rec
}
