package repository

import (
	"context"
	"errors"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BankAccountRepository interface {
	Create(ctx context.Context, acct *entity.BankAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BankAccount, error)
	// FindStoreAccounts lists store accounts, default first.
	FindStoreAccounts(ctx context.Context) ([]*entity.BankAccount, error)
	FindSupplierAccounts(ctx context.Context, supplierID uuid.UUID) ([]*entity.BankAccount, error)
	Update(ctx context.Context, acct *entity.BankAccount) error
	// ClearDefault unsets the default flag on every account of the owner.
	ClearDefault(ctx context.Context, owner entity.BankAccountOwner, supplierID *uuid.UUID) error
}

type bankAccountRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBankAccountRepository(db database.Querier, log *zap.Logger) BankAccountRepository {
	return &bankAccountRepository{
		db:  db,
		log: log.With(zap.String("repository", "bank_account")),
	}
}

const bankAccountColumns = `id, owner, supplier_id, account_number, account_name, bank_name,
		is_default, is_active, created_at, updated_at`

func scanBankAccount(row pgx.Row) (*entity.BankAccount, error) {
	var a entity.BankAccount
	err := row.Scan(
		&a.ID,
		&a.Owner,
		&a.SupplierID,
		&a.AccountNumber,
		&a.AccountName,
		&a.BankName,
		&a.IsDefault,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *bankAccountRepository) Create(ctx context.Context, acct *entity.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		acct.ID,
		acct.Owner,
		acct.SupplierID,
		acct.AccountNumber,
		acct.AccountName,
		acct.BankName,
		acct.IsDefault,
		acct.IsActive,
		acct.CreatedAt,
		acct.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create bank account",
			zap.Error(err),
			zap.String("owner", string(acct.Owner)),
		)
		return fmt.Errorf("create bank account %s: %w", acct.AccountNumber, classify(err))
	}

	return nil
}

func (r *bankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE id = $1`

	acct, err := scanBankAccount(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bank account by ID",
			zap.Error(err),
			zap.String("bank_account_id", id.String()),
		)
		return nil, fmt.Errorf("find bank account by ID %s: %w", id.String(), err)
	}

	return acct, nil
}

func (r *bankAccountRepository) FindStoreAccounts(ctx context.Context) ([]*entity.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE owner = $1
		ORDER BY is_default DESC, bank_name, account_number
	`
	return r.list(ctx, query, entity.BankAccountOwnerStore)
}

func (r *bankAccountRepository) FindSupplierAccounts(ctx context.Context, supplierID uuid.UUID) ([]*entity.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE owner = $1 AND supplier_id = $2
		ORDER BY is_default DESC, bank_name, account_number
	`
	return r.list(ctx, query, entity.BankAccountOwnerSupplier, supplierID)
}

func (r *bankAccountRepository) list(ctx context.Context, query string, args ...any) ([]*entity.BankAccount, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bank accounts", zap.Error(err))
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.BankAccount
	for rows.Next() {
		acct, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account row: %w", err)
		}
		accounts = append(accounts, acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bank account rows: %w", err)
	}

	return accounts, nil
}

func (r *bankAccountRepository) Update(ctx context.Context, acct *entity.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET account_number = $2, account_name = $3, bank_name = $4,
		    is_default = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		acct.ID,
		acct.AccountNumber,
		acct.AccountName,
		acct.BankName,
		acct.IsDefault,
		acct.IsActive,
		acct.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update bank account",
			zap.Error(err),
			zap.String("bank_account_id", acct.ID.String()),
		)
		return fmt.Errorf("update bank account %s: %w", acct.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bank account %s not found", acct.ID.String())
	}

	return nil
}

func (r *bankAccountRepository) ClearDefault(ctx context.Context, owner entity.BankAccountOwner, supplierID *uuid.UUID) error {
	query := `
		UPDATE bank_accounts
		SET is_default = false, updated_at = NOW()
		WHERE owner = $1
		  AND supplier_id IS NOT DISTINCT FROM $2
		  AND is_default
	`

	if _, err := r.db.Exec(ctx, query, owner, supplierID); err != nil {
		r.log.Error("Failed to clear default bank account",
			zap.Error(err),
			zap.String("owner", string(owner)),
		)
		return fmt.Errorf("clear default bank account for %s: %w", owner, classify(err))
	}

	return nil
}
