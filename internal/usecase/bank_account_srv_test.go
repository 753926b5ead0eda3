package usecase

import (
	"context"
	"testing"

	"court-booking/internal/dto/request"

	"github.com/google/uuid"
)

func accountRequest(number string, isDefault bool) *request.CreateBankAccountRequest {
	return &request.CreateBankAccountRequest{
		AccountNumber: number,
		AccountName:   "GOR Sejahtera",
		BankName:      "BCA",
		IsDefault:     isDefault,
	}
}

func TestStoreHasSingleDefaultAccount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.BankAccount.CreateStoreAccount(ctx, accountRequest("111", true))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := f.svc.BankAccount.CreateStoreAccount(ctx, accountRequest("222", true))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	assertDefault := func(want string) {
		t.Helper()
		accounts, err := f.svc.BankAccount.ListStoreAccounts(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		defaults := 0
		for _, a := range accounts {
			if a.IsDefault {
				defaults++
				if a.ID != want {
					t.Fatalf("default = %s, want %s", a.ID, want)
				}
			}
		}
		if defaults != 1 {
			t.Fatalf("defaults = %d, want 1", defaults)
		}
	}

	assertDefault(second.ID)

	if _, err := f.svc.BankAccount.SetDefault(ctx, first.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}
	assertDefault(first.ID)
}

func TestSupplierDefaultsAreIndependent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	supplier := uuid.NewString()

	store, err := f.svc.BankAccount.CreateStoreAccount(ctx, accountRequest("111", true))
	if err != nil {
		t.Fatalf("create store account: %v", err)
	}
	if _, err := f.svc.BankAccount.CreateSupplierAccount(ctx, supplier, accountRequest("999", true)); err != nil {
		t.Fatalf("create supplier account: %v", err)
	}

	accounts, err := f.svc.BankAccount.ListStoreAccounts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != store.ID || !accounts[0].IsDefault {
		t.Fatalf("store accounts = %+v", accounts)
	}

	supplied, err := f.svc.BankAccount.ListSupplierAccounts(ctx, supplier)
	if err != nil {
		t.Fatalf("list supplier: %v", err)
	}
	if len(supplied) != 1 || !supplied[0].IsDefault {
		t.Fatalf("supplier accounts = %+v", supplied)
	}
}

func TestDeactivatedAccountCannotBecomeDefault(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	acct, err := f.svc.BankAccount.CreateStoreAccount(ctx, accountRequest("111", true))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	off, err := f.svc.BankAccount.Deactivate(ctx, acct.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if off.IsActive || off.IsDefault {
		t.Fatalf("deactivated account = %+v", off)
	}

	if _, err := f.svc.BankAccount.SetDefault(ctx, acct.ID); err == nil {
		t.Fatal("expected error setting an inactive account as default")
	}
}
