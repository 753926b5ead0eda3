package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BankAccountService manages the settlement accounts of the store and its
// suppliers. Each owner keeps at most one default account.
type BankAccountService interface {
	CreateStoreAccount(ctx context.Context, req *request.CreateBankAccountRequest) (*response.BankAccountResponse, error)
	CreateSupplierAccount(ctx context.Context, supplierID string, req *request.CreateBankAccountRequest) (*response.BankAccountResponse, error)
	ListStoreAccounts(ctx context.Context) ([]response.BankAccountResponse, error)
	ListSupplierAccounts(ctx context.Context, supplierID string) ([]response.BankAccountResponse, error)
	SetDefault(ctx context.Context, accountID string) (*response.BankAccountResponse, error)
	Deactivate(ctx context.Context, accountID string) (*response.BankAccountResponse, error)
}

type bankAccountService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBankAccountService(repo *repository.Repository, log *zap.Logger) BankAccountService {
	return &bankAccountService{
		repo: repo,
		log:  log.With(zap.String("service", "bank_account")),
	}
}

func (s *bankAccountService) CreateStoreAccount(ctx context.Context, req *request.CreateBankAccountRequest) (*response.BankAccountResponse, error) {
	return s.create(ctx, entity.BankAccountOwnerStore, nil, req)
}

func (s *bankAccountService) CreateSupplierAccount(ctx context.Context, supplierID string, req *request.CreateBankAccountRequest) (*response.BankAccountResponse, error) {
	id, err := parseID("supplier", supplierID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, entity.BankAccountOwnerSupplier, &id, req)
}

func (s *bankAccountService) create(ctx context.Context, owner entity.BankAccountOwner, supplierID *uuid.UUID, req *request.CreateBankAccountRequest) (*response.BankAccountResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	now := time.Now()
	acct := &entity.BankAccount{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Owner:         owner,
		SupplierID:    supplierID,
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		AccountName:   strings.TrimSpace(req.AccountName),
		BankName:      strings.TrimSpace(req.BankName),
		IsDefault:     req.IsDefault,
		IsActive:      true,
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if acct.IsDefault {
			if err := tx.BankAccount.ClearDefault(ctx, owner, supplierID); err != nil {
				return err
			}
		}
		return tx.BankAccount.Create(ctx, acct)
	})
	if err != nil {
		return nil, fmt.Errorf("create %s bank account: %w", owner, err)
	}

	s.log.Info("Bank account created",
		zap.String("bank_account_id", acct.ID.String()),
		zap.String("owner", string(owner)),
		zap.Bool("is_default", acct.IsDefault),
	)

	resp := response.BankAccountToResponse(acct)
	return &resp, nil
}

func (s *bankAccountService) ListStoreAccounts(ctx context.Context) ([]response.BankAccountResponse, error) {
	accounts, err := s.repo.BankAccount.FindStoreAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list store bank accounts: %w", err)
	}
	return bankAccountsToResponse(accounts), nil
}

func (s *bankAccountService) ListSupplierAccounts(ctx context.Context, supplierID string) ([]response.BankAccountResponse, error) {
	id, err := parseID("supplier", supplierID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.BankAccount.FindSupplierAccounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list supplier bank accounts: %w", err)
	}
	return bankAccountsToResponse(accounts), nil
}

// SetDefault makes the account its owner's only default. Clearing the old
// default and setting the new one happen in one transaction.
func (s *bankAccountService) SetDefault(ctx context.Context, accountID string) (*response.BankAccountResponse, error) {
	id, err := parseID("bank account", accountID)
	if err != nil {
		return nil, err
	}

	var acct *entity.BankAccount
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		a, err := tx.BankAccount.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil || !a.IsActive {
			return notFound("bank account", id)
		}
		if err := tx.BankAccount.ClearDefault(ctx, a.Owner, a.SupplierID); err != nil {
			return err
		}

		a.IsDefault = true
		a.UpdatedAt = time.Now()
		acct = a
		return tx.BankAccount.Update(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("set default bank account %s: %w", id, err)
	}

	s.log.Info("Default bank account changed",
		zap.String("bank_account_id", id.String()),
		zap.String("owner", string(acct.Owner)),
	)

	resp := response.BankAccountToResponse(acct)
	return &resp, nil
}

// Deactivate keeps the row for invoices that reference it. A deactivated
// account is never the default.
func (s *bankAccountService) Deactivate(ctx context.Context, accountID string) (*response.BankAccountResponse, error) {
	id, err := parseID("bank account", accountID)
	if err != nil {
		return nil, err
	}

	acct, err := s.repo.BankAccount.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find bank account: %w", err)
	}
	if acct == nil {
		return nil, notFound("bank account", id)
	}

	acct.IsActive = false
	acct.IsDefault = false
	acct.UpdatedAt = time.Now()
	if err := s.repo.BankAccount.Update(ctx, acct); err != nil {
		return nil, fmt.Errorf("deactivate bank account %s: %w", id, err)
	}

	resp := response.BankAccountToResponse(acct)
	return &resp, nil
}

func bankAccountsToResponse(accounts []*entity.BankAccount) []response.BankAccountResponse {
	items := make([]response.BankAccountResponse, len(accounts))
	for i, a := range accounts {
		items[i] = response.BankAccountToResponse(a)
	}
	return items
}
