package program

import (
	"fmt"

	"solana-token-manager/internal/solana"
)

// CreateTokenAccounts is the account list of create_token, in wire order.
type CreateTokenAccounts struct {
	Authority              solana.PublicKey // signer, writable; pays and becomes mint authority
	Mint                   solana.PublicKey // signer, writable; new mint
	TokenAccount           solana.PublicKey // writable; associated token account of (authority, mint)
	TokenInfo              solana.PublicKey // signer, writable; new metadata record
	TokenProgram           solana.PublicKey
	AssociatedTokenProgram solana.PublicKey
	SystemProgram          solana.PublicKey
	Rent                   solana.PublicKey
}

// Metas returns the account list for an instruction.
func (a CreateTokenAccounts) Metas() []AccountMeta {
	return []AccountMeta{
		{PublicKey: a.Authority, IsSigner: true, IsWritable: true},
		{PublicKey: a.Mint, IsSigner: true, IsWritable: true},
		{PublicKey: a.TokenAccount, IsWritable: true},
		{PublicKey: a.TokenInfo, IsSigner: true, IsWritable: true},
		{PublicKey: a.TokenProgram},
		{PublicKey: a.AssociatedTokenProgram},
		{PublicKey: a.SystemProgram},
		{PublicKey: a.Rent},
	}
}

// NewCreateTokenAccounts fills the well-known program accounts.
func NewCreateTokenAccounts(authority, mint, tokenAccount, tokenInfo solana.PublicKey) CreateTokenAccounts {
	return CreateTokenAccounts{
		Authority:              authority,
		Mint:                   mint,
		TokenAccount:           tokenAccount,
		TokenInfo:              tokenInfo,
		TokenProgram:           solana.TokenProgram,
		AssociatedTokenProgram: solana.AssociatedTokenProgram,
		SystemProgram:          solana.SystemProgram,
		Rent:                   solana.SysvarRent,
	}
}

// MintTokensAccounts is the account list of mint_tokens, in wire order.
type MintTokensAccounts struct {
	Authority    solana.PublicKey // signer; must be the mint authority
	Mint         solana.PublicKey // writable
	TokenAccount solana.PublicKey // writable
	TokenProgram solana.PublicKey
}

// Metas returns the account list for an instruction.
func (a MintTokensAccounts) Metas() []AccountMeta {
	return []AccountMeta{
		{PublicKey: a.Authority, IsSigner: true},
		{PublicKey: a.Mint, IsWritable: true},
		{PublicKey: a.TokenAccount, IsWritable: true},
		{PublicKey: a.TokenProgram},
	}
}

// NewMintTokensAccounts fills the token program account.
func NewMintTokensAccounts(authority, mint, tokenAccount solana.PublicKey) MintTokensAccounts {
	return MintTokensAccounts{
		Authority:    authority,
		Mint:         mint,
		TokenAccount: tokenAccount,
		TokenProgram: solana.TokenProgram,
	}
}

// accountRule describes the constraints on one position of an account list.
type accountRule struct {
	name     string
	signer   bool
	writable bool
	address  *solana.PublicKey // fixed program address, nil if caller-chosen
}

func addr(pk solana.PublicKey) *solana.PublicKey { return &pk }

var (
	createTokenRules = []accountRule{
		{name: "authority", signer: true, writable: true},
		{name: "mint", signer: true, writable: true},
		{name: "token_account", writable: true},
		{name: "token_info", signer: true, writable: true},
		{name: "token_program", address: addr(solana.TokenProgram)},
		{name: "associated_token_program", address: addr(solana.AssociatedTokenProgram)},
		{name: "system_program", address: addr(solana.SystemProgram)},
		{name: "rent", address: addr(solana.SysvarRent)},
	}

	mintTokensRules = []accountRule{
		{name: "authority", signer: true},
		{name: "mint", writable: true},
		{name: "token_account", writable: true},
		{name: "token_program", address: addr(solana.TokenProgram)},
	}
)

// checkAccounts validates metas against rules. A missing signer flag is a
// signature error; everything else is an account error.
func checkAccounts(metas []AccountMeta, rules []accountRule) error {
	if len(metas) != len(rules) {
		return fmt.Errorf("%w: expected %d accounts, got %d", ErrInvalidAccount, len(rules), len(metas))
	}
	for i, s := range rules {
		m := metas[i]
		if s.signer && !m.IsSigner {
			return fmt.Errorf("%w: %s %s", ErrSignature, s.name, m.PublicKey)
		}
		if s.writable && !m.IsWritable {
			return fmt.Errorf("%w: %s must be writable", ErrInvalidAccount, s.name)
		}
		if s.address != nil && m.PublicKey != *s.address {
			return fmt.Errorf("%w: %s is %s, want %s", ErrInvalidAccount, s.name, m.PublicKey, *s.address)
		}
	}
	return nil
}

func parseCreateTokenAccounts(metas []AccountMeta) (CreateTokenAccounts, error) {
	if err := checkAccounts(metas, createTokenRules); err != nil {
		return CreateTokenAccounts{}, err
	}
	return CreateTokenAccounts{
		Authority:              metas[0].PublicKey,
		Mint:                   metas[1].PublicKey,
		TokenAccount:           metas[2].PublicKey,
		TokenInfo:              metas[3].PublicKey,
		TokenProgram:           metas[4].PublicKey,
		AssociatedTokenProgram: metas[5].PublicKey,
		SystemProgram:          metas[6].PublicKey,
		Rent:                   metas[7].PublicKey,
	}, nil
}

func parseMintTokensAccounts(metas []AccountMeta) (MintTokensAccounts, error) {
	if err := checkAccounts(metas, mintTokensRules); err != nil {
		return MintTokensAccounts{}, err
	}
	return MintTokensAccounts{
		Authority:    metas[0].PublicKey,
		Mint:         metas[1].PublicKey,
		TokenAccount: metas[2].PublicKey,
		TokenProgram: metas[3].PublicKey,
	}, nil
}
