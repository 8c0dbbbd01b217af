// Package program implements the token manager gateway: create_token and
// mint_tokens. Token mechanics are delegated to the token ledger; the gateway
// validates inputs, shapes the ledger calls and writes the metadata record.
// It never logs; callers observe success or one of the error kinds in errors.go.
package program

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"unicode/utf8"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/token"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/ledger"
	"solana-token-manager/internal/solana"
	"solana-token-manager/internal/storage"
)

// DefaultInitialSupply is the number of whole tokens minted by create_token.
const DefaultInitialSupply uint64 = 1_000_000

// Options configures a Program.
type Options struct {
	// InitialSupply is the whole-token amount minted on creation.
	InitialSupply uint64
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{InitialSupply: DefaultInitialSupply}
}

// Program is the gateway deployed at a given address.
type Program struct {
	id   solana.PublicKey
	opts Options
}

// New creates a gateway for programID. A nil opts uses DefaultOptions.
func New(programID solana.PublicKey, opts *Options) *Program {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	return &Program{id: programID, opts: o}
}

// ID returns the program address.
func (p *Program) ID() solana.PublicKey {
	return p.id
}

// Result is what a successful instruction produced.
type Result struct {
	Instruction string
	Metadata    *domain.TokenMetadata  // set by create_token
	Issuances   []*domain.IssuanceEvent // EventID and Signature are left to the host
}

// Process decodes data and runs the matching instruction.
func (p *Program) Process(ctx context.Context, env *Env, accounts []AccountMeta, data []byte) (*Result, error) {
	switch Name(data) {
	case InstructionCreateToken:
		args, err := DecodeCreateToken(data)
		if err != nil {
			return nil, err
		}
		accs, err := parseCreateTokenAccounts(accounts)
		if err != nil {
			return nil, err
		}
		return p.CreateToken(ctx, env, accs, args)

	case InstructionMintTokens:
		args, err := DecodeMintTokens(data)
		if err != nil {
			return nil, err
		}
		accs, err := parseMintTokensAccounts(accounts)
		if err != nil {
			return nil, err
		}
		return p.MintTokens(ctx, env, accs, args)

	default:
		return nil, fmt.Errorf("%w: unknown discriminator", ErrInvalidInstruction)
	}
}

// CreateTokenInstruction builds a signed-ready create_token call.
func (p *Program) CreateTokenInstruction(accounts CreateTokenAccounts, args CreateTokenArgs) (Instruction, error) {
	data, err := EncodeCreateToken(args)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{ProgramID: p.id, Accounts: accounts.Metas(), Data: data}, nil
}

// MintTokensInstruction builds a signed-ready mint_tokens call.
func (p *Program) MintTokensInstruction(accounts MintTokensAccounts, args MintTokensArgs) (Instruction, error) {
	data, err := EncodeMintTokens(args)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{ProgramID: p.id, Accounts: accounts.Metas(), Data: data}, nil
}

// InitialSupply returns wholeUnits × 10^decimals, failing on u64 overflow.
func InitialSupply(wholeUnits uint64, decimals uint8) (uint64, error) {
	supply := wholeUnits
	for i := uint8(0); i < decimals; i++ {
		hi, lo := bits.Mul64(supply, 10)
		if hi != 0 {
			return 0, fmt.Errorf("%w: %d x 10^%d exceeds u64", ErrArithmeticOverflow, wholeUnits, decimals)
		}
		supply = lo
	}
	return supply, nil
}

// CreateToken creates a mint with the authority as mint and freeze authority,
// funds the authority's associated token account with the initial supply and
// initializes the metadata record.
func (p *Program) CreateToken(ctx context.Context, env *Env, accs CreateTokenAccounts, args CreateTokenArgs) (*Result, error) {
	if len(args.Name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(args.Name), domain.MaxNameLength)
	}
	if len(args.Symbol) > domain.MaxSymbolLength {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrSymbolTooLong, len(args.Symbol), domain.MaxSymbolLength)
	}
	if !utf8.ValidString(args.Name) || !utf8.ValidString(args.Symbol) {
		return nil, fmt.Errorf("%w: name and symbol must be valid UTF-8", ErrInvalidInstruction)
	}

	supply, err := InitialSupply(p.opts.InitialSupply, args.Decimals)
	if err != nil {
		return nil, err
	}

	ata, err := solana.FindAssociatedTokenAddress(accs.Authority, accs.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	if ata != accs.TokenAccount {
		return nil, fmt.Errorf("%w: token_account %s is not the associated account %s", ErrInvalidAccount, accs.TokenAccount, ata)
	}

	for _, a := range []struct {
		name string
		key  solana.PublicKey
	}{
		{"mint", accs.Mint},
		{"token_account", accs.TokenAccount},
		{"token_info", accs.TokenInfo},
	} {
		if err := p.ensureVacant(ctx, env, a.name, a.key); err != nil {
			return nil, err
		}
	}
	if accs.Mint == accs.TokenInfo {
		return nil, fmt.Errorf("%w: token_info %s is the mint", ErrStorageCollision, accs.TokenInfo)
	}

	authority := accs.Authority.String()
	mint := accs.Mint.String()
	tokenAccount := accs.TokenAccount.String()

	env.invoke(token.InitializeMint(token.InitializeMintParam{
		Decimals:   args.Decimals,
		Mint:       common.PublicKey(accs.Mint),
		MintAuth:   common.PublicKey(accs.Authority),
		FreezeAuth: (*common.PublicKey)(&accs.Authority),
	}))
	if err := env.Ledger.InitializeMint(ctx, mint, args.Decimals, authority, &authority); err != nil {
		return nil, delegationError("initialize mint", err)
	}

	env.invoke(associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
		Funder:                 common.PublicKey(accs.Authority),
		Owner:                  common.PublicKey(accs.Authority),
		Mint:                   common.PublicKey(accs.Mint),
		AssociatedTokenAccount: common.PublicKey(accs.TokenAccount),
	}))
	if err := env.Ledger.CreateAssociatedAccount(ctx, tokenAccount, mint, authority); err != nil {
		return nil, delegationError("create associated token account", err)
	}

	env.invoke(token.MintTo(token.MintToParam{
		Mint:   common.PublicKey(accs.Mint),
		To:     common.PublicKey(accs.TokenAccount),
		Auth:   common.PublicKey(accs.Authority),
		Amount: supply,
	}))
	minted, err := env.Ledger.MintTo(ctx, mint, tokenAccount, authority, supply)
	if err != nil {
		return nil, delegationError("mint initial supply", err)
	}

	meta := &domain.TokenMetadata{
		Address:   accs.TokenInfo.String(),
		Mint:      mint,
		Decimals:  args.Decimals,
		Name:      args.Name,
		Symbol:    args.Symbol,
		Authority: authority,
		CreatedAt: env.Now.UnixMilli(),
	}
	if err := env.Tx.Metadata().Insert(ctx, meta); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: token_info %s: %w", ErrStorageCollision, meta.Address, err)
		}
		return nil, fmt.Errorf("%w: initialize token info: %w", ErrStorage, err)
	}

	return &Result{
		Instruction: InstructionCreateToken,
		Metadata:    meta,
		Issuances: []*domain.IssuanceEvent{{
			Kind:         domain.IssuanceCreate,
			Mint:         mint,
			TokenAccount: tokenAccount,
			Authority:    authority,
			Amount:       supply,
			SupplyAfter:  minted.Supply,
			TimestampMs:  env.Now.UnixMilli(),
		}},
	}, nil
}

// MintTokens mints amount into the token account. The ledger enforces that
// the signer is the mint authority; the metadata record is not consulted.
func (p *Program) MintTokens(ctx context.Context, env *Env, accs MintTokensAccounts, args MintTokensArgs) (*Result, error) {
	authority := accs.Authority.String()
	mint := accs.Mint.String()
	tokenAccount := accs.TokenAccount.String()

	env.invoke(token.MintTo(token.MintToParam{
		Mint:   common.PublicKey(accs.Mint),
		To:     common.PublicKey(accs.TokenAccount),
		Auth:   common.PublicKey(accs.Authority),
		Amount: args.Amount,
	}))
	minted, err := env.Ledger.MintTo(ctx, mint, tokenAccount, authority, args.Amount)
	if err != nil {
		return nil, delegationError("mint to", err)
	}

	return &Result{
		Instruction: InstructionMintTokens,
		Issuances: []*domain.IssuanceEvent{{
			Kind:         domain.IssuanceMint,
			Mint:         mint,
			TokenAccount: tokenAccount,
			Authority:    authority,
			Amount:       args.Amount,
			SupplyAfter:  minted.Supply,
			TimestampMs:  env.Now.UnixMilli(),
		}},
	}, nil
}

func (p *Program) ensureVacant(ctx context.Context, env *Env, name string, key solana.PublicKey) error {
	used, err := env.Tx.AddressInUse(ctx, key.String())
	if err != nil {
		return fmt.Errorf("%w: check %s: %w", ErrStorage, name, err)
	}
	if used {
		return fmt.Errorf("%w: %s %s", ErrStorageCollision, name, key)
	}
	return nil
}

// delegationError classifies a ledger failure. Collisions keep their own kind.
func delegationError(op string, err error) error {
	if errors.Is(err, ledger.ErrAlreadyInUse) {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageCollision, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDelegation, err)
}
