package solana

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeySize is the length of an ed25519 public key / account address.
const PublicKeySize = 32

// Well-known program and sysvar addresses.
const (
	SystemProgramID          = "11111111111111111111111111111111"
	TokenProgramID           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	SysvarRentID             = "SysvarRent111111111111111111111111111111111"

	// DefaultTokenManagerProgramID is the address the token manager program is deployed at.
	DefaultTokenManagerProgramID = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"
)

// Parsed forms of the well-known addresses.
var (
	SystemProgram          = MustParsePublicKey(SystemProgramID)
	TokenProgram           = MustParsePublicKey(TokenProgramID)
	AssociatedTokenProgram = MustParsePublicKey(AssociatedTokenProgramID)
	SysvarRent             = MustParsePublicKey(SysvarRentID)
)

// ErrInvalidPublicKey is returned for strings that are not base58 32-byte keys.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey is a 32-byte account address.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes a base58 address.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	if s == "" {
		return pk, fmt.Errorf("%w: empty", ErrInvalidPublicKey)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("%w: %s: %v", ErrInvalidPublicKey, s, err)
	}
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("%w: %s: got %d bytes", ErrInvalidPublicKey, s, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// MustParsePublicKey is ParsePublicKey for constants.
func MustParsePublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PublicKeyFromBytes copies a 32-byte slice into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKey, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 encoding.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the key bytes.
func (pk PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, pk[:])
	return b
}

// IsZero reports whether the key is all zeros.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}
