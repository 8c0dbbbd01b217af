package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidSignature is returned when a signature does not verify.
var ErrInvalidSignature = errors.New("invalid signature")

// Keypair is an ed25519 signing key with its address.
type Keypair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  PublicKey
}

// NewKeypair generates a random keypair.
func NewKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return KeypairFromPrivateKey(priv)
}

// KeypairFromPrivateKey wraps a 64-byte ed25519 private key (seed + public key).
func KeypairFromPrivateKey(priv []byte) (*Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected private key length: got %d, want %d", len(priv), ed25519.PrivateKeySize)
	}
	key := ed25519.PrivateKey(append([]byte(nil), priv...))
	pub, err := PublicKeyFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{PrivateKey: key, PublicKey: pub}, nil
}

// Address returns the base58 public key.
func (k *Keypair) Address() string {
	return k.PublicKey.String()
}

// Sign signs message with the private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.PrivateKey, message)
}

// Verify checks an ed25519 signature for the given address.
func Verify(pub PublicKey, message, sig []byte) error {
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig) {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, pub)
	}
	return nil
}

// LoadKeypairFile reads a solana-keygen keypair file (JSON array of 64 bytes).
func LoadKeypairFile(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	keyBytes, err := decodeKeypairJSON(data)
	if err != nil {
		return nil, err
	}
	return KeypairFromPrivateKey(keyBytes)
}

// SaveKeypairFile writes the keypair in solana-keygen format with 0600 permissions.
func SaveKeypairFile(path string, k *Keypair) error {
	ints := make([]int, len(k.PrivateKey))
	for i, b := range k.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("marshal keypair: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create keypair directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}
	return nil
}

// decodeKeypairJSON accepts [u8;64] as written by solana-keygen.
// Falls back to [int,...] so out-of-range values get a precise error.
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err == nil && len(keyBytes) == ed25519.PrivateKeySize {
		return keyBytes, nil
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}
