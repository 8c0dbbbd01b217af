package idhash

import (
	"testing"

	"solana-token-manager/internal/domain"
)

func TestComputeIssuanceID(t *testing.T) {
	got := ComputeIssuanceID("sig", domain.IssuanceMint, "mint", 0)
	want := "9670c9d21a308943e17ed7c31191aef10d569b7c4dd9a908df2f441a436162cc"
	if got != want {
		t.Errorf("ComputeIssuanceID() = %s, want %s", got, want)
	}
}

func TestComputeIssuanceID_Determinism(t *testing.T) {
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = ComputeIssuanceID("TxSig", domain.IssuanceCreate, "Mint", 0)
	}

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Determinism failed: results[%d]=%s != results[0]=%s", i, results[i], results[0])
		}
	}
}

func TestComputeIssuanceID_DifferentInputs(t *testing.T) {
	base := ComputeIssuanceID("Tx", domain.IssuanceCreate, "Mint", 0)

	if base == ComputeIssuanceID("OtherTx", domain.IssuanceCreate, "Mint", 0) {
		t.Error("Different signature should produce different hash")
	}
	if base == ComputeIssuanceID("Tx", domain.IssuanceMint, "Mint", 0) {
		t.Error("Different kind should produce different hash")
	}
	if base == ComputeIssuanceID("Tx", domain.IssuanceCreate, "OtherMint", 0) {
		t.Error("Different mint should produce different hash")
	}
	if base == ComputeIssuanceID("Tx", domain.IssuanceCreate, "Mint", 1) {
		t.Error("Different event_index should produce different hash")
	}
}
