package memory

import (
	"context"
	"errors"
	"testing"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

func TestTokenAccountStore_InsertGetUpdate(t *testing.T) {
	store := NewTokenAccountStore()
	ctx := context.Background()

	acc := &domain.TokenAccount{Address: "acc1", Mint: "mint1", Owner: "owner1"}
	if err := store.Insert(ctx, acc); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.UpdateAmount(ctx, "acc1", 1000); err != nil {
		t.Fatalf("UpdateAmount failed: %v", err)
	}

	got, err := store.Get(ctx, "acc1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Amount != 1000 {
		t.Errorf("Amount mismatch: got %d, want 1000", got.Amount)
	}
}

func TestTokenAccountStore_GetByOwner(t *testing.T) {
	store := NewTokenAccountStore()
	ctx := context.Background()

	for _, a := range []*domain.TokenAccount{
		{Address: "acc2", Mint: "mint2", Owner: "owner1"},
		{Address: "acc1", Mint: "mint1", Owner: "owner1"},
		{Address: "acc3", Mint: "mint1", Owner: "owner2"},
	} {
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByOwner(ctx, "owner1")
	if err != nil {
		t.Fatalf("GetByOwner failed: %v", err)
	}
	if len(got) != 2 || got[0].Address != "acc1" || got[1].Address != "acc2" {
		t.Errorf("unexpected accounts: %+v", got)
	}
}

func TestTokenAccountStore_Errors(t *testing.T) {
	store := NewTokenAccountStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.TokenAccount{Address: "acc1"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	acc := &domain.TokenAccount{Address: "acc1", Mint: "mint1", Owner: "owner1"}
	if err := store.Insert(ctx, acc); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, acc); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.UpdateAmount(ctx, "missing", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
