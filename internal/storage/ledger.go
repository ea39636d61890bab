package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nootfarm/noot-arcade/internal/wallet"
)

// Ledger stores the wallet state in the score database.
type Ledger struct {
	db *sql.DB
}

// Ledger returns the wallet ledger backed by this store.
func (s *Store) Ledger() *Ledger {
	return &Ledger{db: s.db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanDecimal(row *sql.Row) (decimal.Decimal, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func balance(ctx context.Context, q querier, token, account string) (decimal.Decimal, error) {
	d, err := scanDecimal(q.QueryRowContext(ctx,
		"SELECT amount FROM wallet_balances WHERE token = ? AND account = ?", token, account))
	if err != nil {
		return decimal.Zero, fmt.Errorf("storage: cannot read balance: %w", err)
	}
	return d, nil
}

// Balance returns account's balance of token; unknown accounts hold zero.
func (l *Ledger) Balance(ctx context.Context, token, account string) (decimal.Decimal, error) {
	return balance(ctx, l.db, token, account)
}

// Allowance returns what spender may move out of owner's token balance.
func (l *Ledger) Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	d, err := scanDecimal(l.db.QueryRowContext(ctx,
		"SELECT amount FROM wallet_allowances WHERE token = ? AND owner = ? AND spender = ?",
		token, owner, spender))
	if err != nil {
		return decimal.Zero, fmt.Errorf("storage: cannot read allowance: %w", err)
	}
	return d, nil
}

// LastClaim returns the time of account's latest faucet claim.
func (l *Ledger) LastClaim(ctx context.Context, account string) (time.Time, bool, error) {
	var raw string
	err := l.db.QueryRowContext(ctx,
		"SELECT claimed_at FROM wallet_claims WHERE account = ?", account).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage: cannot read last claim: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage: bad claim time %q: %w", raw, err)
	}
	return t, true, nil
}

// Commit applies every change of c in one transaction.
func (l *Ledger) Commit(ctx context.Context, c wallet.Commit) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin ledger tx: %w", err)
	}
	if err := applyCommit(ctx, tx, c); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit ledger tx: %w", err)
	}
	return nil
}

func applyCommit(ctx context.Context, tx *sql.Tx, c wallet.Commit) error {
	for _, p := range c.Postings {
		cur, err := balance(ctx, tx, p.Token, p.Account)
		if err != nil {
			return err
		}
		next := cur.Add(p.Delta)
		if next.IsNegative() {
			return fmt.Errorf("storage: posting would overdraw %s %s: %w", p.Account, p.Token, wallet.ErrInsufficientBalance)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wallet_balances (token, account, amount) VALUES (?, ?, ?)
			 ON CONFLICT(token, account) DO UPDATE SET amount = excluded.amount`,
			p.Token, p.Account, next.String()); err != nil {
			return fmt.Errorf("storage: cannot write balance: %w", err)
		}
	}

	if a := c.Allowance; a != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wallet_allowances (token, owner, spender, amount) VALUES (?, ?, ?, ?)
			 ON CONFLICT(token, owner, spender) DO UPDATE SET amount = excluded.amount`,
			a.Token, a.Owner, a.Spender, a.Amount.String()); err != nil {
			return fmt.Errorf("storage: cannot write allowance: %w", err)
		}
	}

	stamp := c.Tx.Time.UTC().Format(time.RFC3339Nano)
	if c.Claim {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wallet_claims (account, claimed_at) VALUES (?, ?)
			 ON CONFLICT(account) DO UPDATE SET claimed_at = excluded.claimed_at`,
			c.Tx.To, stamp); err != nil {
			return fmt.Errorf("storage: cannot write claim: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_txs (hash, kind, token, from_account, to_account, amount, out_token, out_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Tx.Hash, string(c.Tx.Kind), c.Tx.Token, c.Tx.From, c.Tx.To,
		c.Tx.Amount.String(), c.Tx.OutToken, c.Tx.OutAmount.String(), stamp); err != nil {
		return fmt.Errorf("storage: cannot record tx: %w", err)
	}
	return nil
}

// History returns transactions sent or received by account, newest first.
func (l *Ledger) History(ctx context.Context, account string, limit int) ([]wallet.Tx, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT hash, kind, token, from_account, to_account, amount, out_token, out_amount, created_at
		 FROM wallet_txs
		 WHERE from_account = ? OR to_account = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		account, account, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query wallet history: %w", err)
	}
	defer rows.Close()

	var txs []wallet.Tx
	for rows.Next() {
		var t wallet.Tx
		var kind, amount, out, stamp string
		if err := rows.Scan(&t.Hash, &kind, &t.Token, &t.From, &t.To, &amount, &t.OutToken, &out, &stamp); err != nil {
			return nil, fmt.Errorf("storage: cannot scan tx row: %w", err)
		}
		t.Kind = wallet.TxKind(kind)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("storage: bad tx amount %q: %w", amount, err)
		}
		if t.OutAmount, err = decimal.NewFromString(out); err != nil {
			return nil, fmt.Errorf("storage: bad tx amount %q: %w", out, err)
		}
		if t.Time, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
			return nil, fmt.Errorf("storage: bad tx time %q: %w", stamp, err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

var _ wallet.Ledger = (*Ledger)(nil)
