package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimCooldown is the minimum time between two faucet claims.
const ClaimCooldown = 24 * time.Hour

var (
	ErrInsufficientBalance   = errors.New("wallet: insufficient balance")
	ErrInsufficientAllowance = errors.New("wallet: insufficient allowance")
	ErrClaimCooldown         = errors.New("wallet: faucet claim on cooldown")
	ErrInvalidAmount         = errors.New("wallet: invalid amount")
	ErrUnknownToken          = errors.New("wallet: unknown token")
	ErrInvalidAccount        = errors.New("wallet: invalid account")
)

// TxKind classifies a ledger transaction.
type TxKind string

const (
	TxApprove  TxKind = "approve"
	TxTransfer TxKind = "transfer"
	TxSwap     TxKind = "swap"
	TxClaim    TxKind = "claim"
)

// Tx is one recorded ledger transaction.
type Tx struct {
	Hash      string
	Kind      TxKind
	Token     string
	From      string
	To        string
	Amount    decimal.Decimal
	OutToken  string // Swap only
	OutAmount decimal.Decimal
	Time      time.Time
}

// Posting moves Delta of Token in or out of Account.
type Posting struct {
	Token   string
	Account string
	Delta   decimal.Decimal
}

// AllowanceSet overwrites an allowance.
type AllowanceSet struct {
	Token   string
	Owner   string
	Spender string
	Amount  decimal.Decimal
}

// Commit is applied by a Ledger atomically: either every change lands or
// none does.
type Commit struct {
	Tx        Tx
	Postings  []Posting
	Allowance *AllowanceSet
	Claim     bool // Records Tx.Time as Tx.To's last faucet claim
}

// Ledger is the persistent state behind a Wallet.
type Ledger interface {
	Balance(ctx context.Context, token, account string) (decimal.Decimal, error)
	Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error)
	LastClaim(ctx context.Context, account string) (time.Time, bool, error)
	Commit(ctx context.Context, c Commit) error
	History(ctx context.Context, account string, limit int) ([]Tx, error)
}

// Wallet runs token operations against a Ledger. Checks and commits are
// serialized so concurrent callers cannot overdraw.
type Wallet struct {
	ledger Ledger
	now    func() time.Time
	mu     sync.Mutex
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(w *Wallet) {
		w.now = now
	}
}

// New creates a wallet over ledger.
func New(ledger Ledger, opts ...Option) *Wallet {
	w := &Wallet{ledger: ledger, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NormalizeAccount trims and lower-cases an account address.
func NormalizeAccount(account string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(account))
	if a == "" {
		return "", ErrInvalidAccount
	}
	return a, nil
}

func newTxHash() string {
	id := uuid.New()
	return "0x" + strings.ReplaceAll(id.String(), "-", "")
}

func (w *Wallet) newTx(kind TxKind, token, from, to string, amount decimal.Decimal) Tx {
	return Tx{
		Hash:   newTxHash(),
		Kind:   kind,
		Token:  token,
		From:   from,
		To:     to,
		Amount: amount,
		Time:   w.now().UTC(),
	}
}

func (w *Wallet) commit(ctx context.Context, c Commit) (Tx, error) {
	if err := w.ledger.Commit(ctx, c); err != nil {
		return Tx{}, fmt.Errorf("wallet: %s failed: %w", c.Tx.Kind, err)
	}
	log.Debug("wallet: committed", "kind", c.Tx.Kind, "hash", c.Tx.Hash, "amount", c.Tx.Amount.String())
	return c.Tx, nil
}

// resolve validates a token symbol and an amount. Zero is allowed only when
// allowZero is set.
func resolve(symbol string, amount decimal.Decimal, allowZero bool) (Token, error) {
	t, err := LookupToken(symbol)
	if err != nil {
		return Token{}, err
	}
	if amount.IsNegative() || (!allowZero && amount.IsZero()) || !t.Valid(amount) {
		return Token{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return t, nil
}

// BalanceOf returns account's balance of the token.
func (w *Wallet) BalanceOf(ctx context.Context, symbol, account string) (decimal.Decimal, error) {
	t, err := LookupToken(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	acct, err := NormalizeAccount(account)
	if err != nil {
		return decimal.Zero, err
	}
	return w.ledger.Balance(ctx, t.Symbol, acct)
}

// Allowance returns how much spender may still move out of owner's balance.
func (w *Wallet) Allowance(ctx context.Context, symbol, owner, spender string) (decimal.Decimal, error) {
	t, err := LookupToken(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	o, err := NormalizeAccount(owner)
	if err != nil {
		return decimal.Zero, err
	}
	s, err := NormalizeAccount(spender)
	if err != nil {
		return decimal.Zero, err
	}
	return w.ledger.Allowance(ctx, t.Symbol, o, s)
}

// Approve sets spender's allowance over owner's tokens to amount.
func (w *Wallet) Approve(ctx context.Context, symbol, owner, spender string, amount decimal.Decimal) (Tx, error) {
	t, err := resolve(symbol, amount, true)
	if err != nil {
		return Tx{}, err
	}
	o, err := NormalizeAccount(owner)
	if err != nil {
		return Tx{}, err
	}
	s, err := NormalizeAccount(spender)
	if err != nil {
		return Tx{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.commit(ctx, Commit{
		Tx:        w.newTx(TxApprove, t.Symbol, o, s, amount),
		Allowance: &AllowanceSet{Token: t.Symbol, Owner: o, Spender: s, Amount: amount},
	})
}

// Transfer moves amount of the token from one account to another.
func (w *Wallet) Transfer(ctx context.Context, symbol, from, to string, amount decimal.Decimal) (Tx, error) {
	t, err := resolve(symbol, amount, false)
	if err != nil {
		return Tx{}, err
	}
	f, err := NormalizeAccount(from)
	if err != nil {
		return Tx{}, err
	}
	r, err := NormalizeAccount(to)
	if err != nil {
		return Tx{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	bal, err := w.ledger.Balance(ctx, t.Symbol, f)
	if err != nil {
		return Tx{}, err
	}
	if bal.LessThan(amount) {
		return Tx{}, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, t.Format(bal), t.Format(amount))
	}

	return w.commit(ctx, Commit{
		Tx: w.newTx(TxTransfer, t.Symbol, f, r, amount),
		Postings: []Posting{
			{Token: t.Symbol, Account: f, Delta: amount.Neg()},
			{Token: t.Symbol, Account: r, Delta: amount},
		},
	})
}

// SwapNOOTForFarmCoins sells amount NOOT to the swap contract at SwapRate.
// The account must first approve the swap contract for at least amount.
func (w *Wallet) SwapNOOTForFarmCoins(ctx context.Context, account string, amount decimal.Decimal) (Tx, error) {
	noot, err := resolve(SymbolNOOT, amount, false)
	if err != nil {
		return Tx{}, err
	}
	farm, _ := LookupToken(SymbolFARM)
	out := amount.Mul(SwapRate).Truncate(farm.Decimals)
	if !out.IsPositive() {
		return Tx{}, fmt.Errorf("%w: %s buys no farm coins", ErrInvalidAmount, noot.Format(amount))
	}
	acct, err := NormalizeAccount(account)
	if err != nil {
		return Tx{}, err
	}
	swap := strings.ToLower(SwapContractAddress)

	w.mu.Lock()
	defer w.mu.Unlock()

	bal, err := w.ledger.Balance(ctx, noot.Symbol, acct)
	if err != nil {
		return Tx{}, err
	}
	if bal.LessThan(amount) {
		return Tx{}, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, noot.Format(bal), noot.Format(amount))
	}
	allowed, err := w.ledger.Allowance(ctx, noot.Symbol, acct, swap)
	if err != nil {
		return Tx{}, err
	}
	if allowed.LessThan(amount) {
		return Tx{}, fmt.Errorf("%w: approved %s, need %s", ErrInsufficientAllowance, noot.Format(allowed), noot.Format(amount))
	}

	tx := w.newTx(TxSwap, noot.Symbol, acct, swap, amount)
	tx.OutToken = farm.Symbol
	tx.OutAmount = out

	return w.commit(ctx, Commit{
		Tx: tx,
		Postings: []Posting{
			{Token: noot.Symbol, Account: acct, Delta: amount.Neg()},
			{Token: noot.Symbol, Account: swap, Delta: amount},
			{Token: farm.Symbol, Account: acct, Delta: out},
		},
		Allowance: &AllowanceSet{Token: noot.Symbol, Owner: acct, Spender: swap, Amount: allowed.Sub(amount)},
	})
}

// NextClaim returns when account may next use the faucet. A zero time means
// now.
func (w *Wallet) NextClaim(ctx context.Context, account string) (time.Time, error) {
	acct, err := NormalizeAccount(account)
	if err != nil {
		return time.Time{}, err
	}
	last, ok, err := w.ledger.LastClaim(ctx, acct)
	if err != nil || !ok {
		return time.Time{}, err
	}
	next := last.Add(ClaimCooldown)
	if !w.now().Before(next) {
		return time.Time{}, nil
	}
	return next, nil
}

// ClaimTestNOOT mints FaucetAmount NOOT to account, at most once per
// ClaimCooldown.
func (w *Wallet) ClaimTestNOOT(ctx context.Context, account string) (Tx, error) {
	acct, err := NormalizeAccount(account)
	if err != nil {
		return Tx{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := w.NextClaim(ctx, acct)
	if err != nil {
		return Tx{}, err
	}
	if !next.IsZero() {
		wait := next.Sub(w.now()).Round(time.Minute)
		return Tx{}, fmt.Errorf("%w: try again in %s", ErrClaimCooldown, wait)
	}

	return w.commit(ctx, Commit{
		Tx:       w.newTx(TxClaim, SymbolNOOT, strings.ToLower(NOOTTokenAddress), acct, FaucetAmount),
		Postings: []Posting{{Token: SymbolNOOT, Account: acct, Delta: FaucetAmount}},
		Claim:    true,
	})
}

// History returns account's most recent transactions, newest first.
func (w *Wallet) History(ctx context.Context, account string, limit int) ([]Tx, error) {
	acct, err := NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return w.ledger.History(ctx, acct, limit)
}
