package memory

import (
	"context"
	"errors"
	"testing"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

func TestMintStore_InsertGetUpdate(t *testing.T) {
	store := NewMintStore()
	ctx := context.Background()

	auth := "auth1"
	mint := &domain.Mint{
		Address:         "mint1",
		Decimals:        6,
		MintAuthority:   &auth,
		FreezeAuthority: &auth,
	}

	if err := store.Insert(ctx, mint); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.UpdateSupply(ctx, "mint1", 42); err != nil {
		t.Fatalf("UpdateSupply failed: %v", err)
	}

	got, err := store.Get(ctx, "mint1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Supply != 42 {
		t.Errorf("Supply mismatch: got %d, want 42", got.Supply)
	}
	if got.MintAuthority == nil || *got.MintAuthority != "auth1" {
		t.Errorf("MintAuthority mismatch: got %v", got.MintAuthority)
	}

	// Authority pointers must not alias the stored record
	*got.MintAuthority = "other"
	again, _ := store.Get(ctx, "mint1")
	if *again.MintAuthority != "auth1" {
		t.Error("Store should deep-copy authority fields")
	}
}

func TestMintStore_Errors(t *testing.T) {
	store := NewMintStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Mint{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	if err := store.Insert(ctx, &domain.Mint{Address: "mint1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, &domain.Mint{Address: "mint1"}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateSupply(ctx, "missing", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
