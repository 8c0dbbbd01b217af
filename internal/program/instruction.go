package program

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/idhash"
	"solana-token-manager/internal/solana"
)

// Instruction names.
const (
	InstructionCreateToken = "create_token"
	InstructionMintTokens  = "mint_tokens"
)

var (
	createTokenDiscriminator = idhash.InstructionDiscriminator(InstructionCreateToken)
	mintTokensDiscriminator  = idhash.InstructionDiscriminator(InstructionMintTokens)
)

// CreateTokenArgs are the borsh-encoded arguments of create_token.
type CreateTokenArgs struct {
	Decimals uint8
	Name     string
	Symbol   string
}

// MintTokensArgs are the borsh-encoded arguments of mint_tokens.
type MintTokensArgs struct {
	Amount uint64
}

// AccountMeta is one entry of an instruction's account list.
type AccountMeta struct {
	PublicKey  solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a program call: accounts plus discriminator-prefixed data.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Name returns the instruction name for data, or "" if the discriminator is unknown.
func Name(data []byte) string {
	if len(data) < idhash.DiscriminatorSize {
		return ""
	}
	switch {
	case bytes.Equal(data[:idhash.DiscriminatorSize], createTokenDiscriminator[:]):
		return InstructionCreateToken
	case bytes.Equal(data[:idhash.DiscriminatorSize], mintTokensDiscriminator[:]):
		return InstructionMintTokens
	default:
		return ""
	}
}

// EncodeCreateToken builds create_token instruction data.
func EncodeCreateToken(args CreateTokenArgs) ([]byte, error) {
	return encode(createTokenDiscriminator, args)
}

// EncodeMintTokens builds mint_tokens instruction data.
func EncodeMintTokens(args MintTokensArgs) ([]byte, error) {
	return encode(mintTokensDiscriminator, args)
}

// Borsh strings carry a u32 length prefix. These limits are applied to the
// prefix before anything is allocated.
var (
	nameField   = stringField{max: domain.MaxNameLength, err: ErrNameTooLong}
	symbolField = stringField{max: domain.MaxSymbolLength, err: ErrSymbolTooLong}
)

// DecodeCreateToken parses create_token instruction data. Name and symbol
// lengths are validated from their prefixes.
func DecodeCreateToken(data []byte) (CreateTokenArgs, error) {
	var args CreateTokenArgs
	body, err := payload(createTokenDiscriminator, data)
	if err != nil {
		return args, err
	}
	// decimals: u8
	if err := checkStrings(body, 1, nameField, symbolField); err != nil {
		return args, err
	}
	err = deserialize(body, &args)
	return args, err
}

// DecodeMintTokens parses mint_tokens instruction data.
func DecodeMintTokens(data []byte) (MintTokensArgs, error) {
	var args MintTokensArgs
	body, err := payload(mintTokensDiscriminator, data)
	if err != nil {
		return args, err
	}
	err = deserialize(body, &args)
	return args, err
}

func encode(d idhash.Discriminator, v any) ([]byte, error) {
	body, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out := make([]byte, 0, len(d)+len(body))
	out = append(out, d[:]...)
	return append(out, body...), nil
}

// payload strips the discriminator from data.
func payload(d idhash.Discriminator, data []byte) ([]byte, error) {
	if len(data) < len(d) || !bytes.Equal(data[:len(d)], d[:]) {
		return nil, fmt.Errorf("%w: discriminator mismatch", ErrInvalidInstruction)
	}
	return data[len(d):], nil
}

type stringField struct {
	max int
	err error
}

// checkStrings walks consecutive borsh strings starting at off and rejects a
// length prefix above its field limit or beyond the remaining input.
func checkStrings(body []byte, off int, fields ...stringField) error {
	for _, f := range fields {
		if len(body)-off < 4 {
			return fmt.Errorf("%w: truncated string length at offset %d", ErrInvalidInstruction, off)
		}
		n := uint64(binary.LittleEndian.Uint32(body[off:]))
		off += 4
		if n > uint64(f.max) {
			return fmt.Errorf("%w: %d bytes, max %d", f.err, n, f.max)
		}
		if n > uint64(len(body)-off) {
			return fmt.Errorf("%w: string of %d bytes exceeds remaining %d", ErrInvalidInstruction, n, len(body)-off)
		}
		off += int(n)
	}
	return nil
}

func deserialize(body []byte, v any) (err error) {
	// borsh panics on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidInstruction, r)
		}
	}()

	if err := borsh.Deserialize(v, body); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInstruction, err)
	}
	return nil
}
