// Package wallet is a local ledger mirroring the NOOT token and the farm
// swap contract: ERC-20 style balances, allowances and transfers, a test
// faucet, and a fixed-rate swap of NOOT into farm coins.
package wallet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Network constants of the testnet deployment the ledger mirrors.
const (
	ChainID             int64 = 11155111
	NOOTTokenAddress          = "0x5e1f0c7a9d3b2e4f6a8c0b1d3e5f7a9c2b4d6e8f"
	SwapContractAddress       = "0x9a7b5c3d1e0f2a4b6c8d0e1f3a5b7c9d2e4f6a8b"
)

// Token symbols
const (
	SymbolNOOT = "NOOT"
	SymbolFARM = "FARM"
)

var (
	// SwapRate is how many farm coins one NOOT buys.
	SwapRate = decimal.NewFromInt(100)

	// FaucetAmount is the NOOT granted per test claim.
	FaucetAmount = decimal.NewFromInt(1000)
)

// Token describes a registered token.
type Token struct {
	Symbol   string
	Name     string
	Decimals int32
	Address  string
}

var tokens = []Token{
	{Symbol: SymbolNOOT, Name: "Noot Token", Decimals: 18, Address: NOOTTokenAddress},
	{Symbol: SymbolFARM, Name: "Farm Coins", Decimals: 0, Address: SwapContractAddress},
}

// Tokens returns every registered token.
func Tokens() []Token {
	return slices.Clone(tokens)
}

// LookupToken returns the token with the given symbol, case-insensitively.
func LookupToken(symbol string) (Token, error) {
	for _, t := range tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, symbol)
}

// Valid reports whether amount is representable in the token's decimals.
func (t Token) Valid(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(t.Decimals))
}

// Format renders an amount with the token symbol.
func (t Token) Format(amount decimal.Decimal) string {
	return amount.String() + " " + t.Symbol
}
