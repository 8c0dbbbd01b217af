package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solana-token-manager/internal/domain"
)

// ComputeIssuanceID computes a deterministic event_id using SHA256.
// Formula: SHA256(tx_signature|kind|mint|event_index)
// Returns hex-encoded hash (64 characters).
func ComputeIssuanceID(
	txSignature string,
	kind domain.IssuanceKind,
	mint string,
	eventIndex int,
) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		txSignature,
		string(kind),
		mint,
		eventIndex,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
