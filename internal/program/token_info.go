package program

import (
	"fmt"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/idhash"
	"solana-token-manager/internal/solana"
)

var tokenInfoDiscriminator = idhash.AccountDiscriminator("TokenInfo")

// TokenInfo is the on-chain layout of a metadata record.
type TokenInfo struct {
	Mint      solana.PublicKey
	Decimals  uint8
	Name      string
	Symbol    string
	Authority solana.PublicKey
}

// TokenInfoFromMetadata converts a stored record to its account layout.
func TokenInfoFromMetadata(m *domain.TokenMetadata) (TokenInfo, error) {
	mint, err := solana.ParsePublicKey(m.Mint)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("mint: %w", err)
	}
	authority, err := solana.ParsePublicKey(m.Authority)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("authority: %w", err)
	}
	return TokenInfo{
		Mint:      mint,
		Decimals:  m.Decimals,
		Name:      m.Name,
		Symbol:    m.Symbol,
		Authority: authority,
	}, nil
}

// EncodeTokenInfo serializes account data: discriminator followed by borsh fields.
// The result never exceeds domain.TokenInfoAccountSize for records that pass
// length validation.
func EncodeTokenInfo(info TokenInfo) ([]byte, error) {
	data, err := encode(tokenInfoDiscriminator, info)
	if err != nil {
		return nil, err
	}
	if len(data) > domain.TokenInfoAccountSize {
		return nil, fmt.Errorf("token info is %d bytes, account holds %d: %w",
			len(data), domain.TokenInfoAccountSize, ErrInvalidAccount)
	}
	return data, nil
}

// DecodeTokenInfo parses account data produced by EncodeTokenInfo.
func DecodeTokenInfo(data []byte) (TokenInfo, error) {
	var info TokenInfo
	body, err := payload(tokenInfoDiscriminator, data)
	if err != nil {
		return TokenInfo{}, err
	}
	// mint: 32 bytes, decimals: u8
	if err := checkStrings(body, solana.PublicKeySize+1, nameField, symbolField); err != nil {
		return TokenInfo{}, err
	}
	if err := deserialize(body, &info); err != nil {
		return TokenInfo{}, err
	}
	return info, nil
}
