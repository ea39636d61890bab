package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/registry"
	"github.com/nootfarm/noot-arcade/internal/wallet"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreStateRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, found, err := store.LoadState("slotMachineState"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	if err := store.SaveState("slotMachineState", []byte(`{"balance":10}`)); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}
	if err := store.SaveState("slotMachineState", []byte(`{"balance":20}`)); err != nil {
		t.Fatalf("SaveState() overwrite failed: %v", err)
	}

	got, found, err := store.LoadState("slotMachineState")
	if err != nil || !found {
		t.Fatalf("LoadState: found=%v err=%v", found, err)
	}
	if string(got) != `{"balance":20}` {
		t.Errorf("LoadState = %s", got)
	}

	if err := store.DeleteState("slotMachineState"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.LoadState("slotMachineState"); found {
		t.Error("key should be gone after delete")
	}
}

func TestScopedKey(t *testing.T) {
	if got := ScopedKey("alice", "slotMachineState"); got != "alice/slotMachineState" {
		t.Errorf("ScopedKey = %q", got)
	}
	if got := ScopedKey("", "slotMachineState"); got != "slotMachineState" {
		t.Errorf("unscoped key = %q", got)
	}
}

func TestScopedStateIsolatesUsers(t *testing.T) {
	store := openTestStore(t)
	alice, bob := Scope(store, "alice"), Scope(store, "bob")

	if err := alice.SaveState("slotMachineState", []byte(`{"balance":5}`)); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := bob.LoadState("slotMachineState"); found {
		t.Error("bob should not see alice's state")
	}
	if _, found, _ := store.LoadState("alice/slotMachineState"); !found {
		t.Error("alice's state should live under her scoped key")
	}
}

// progressGame saves under "progress" and reports it verbatim.
type progressGame struct{}

func (progressGame) ID() string                           { return "zz-storage-progress" }
func (progressGame) Title() string                        { return "Progress" }
func (progressGame) Reset(core.RuntimeConfig)             {}
func (progressGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (progressGame) Render(*core.Screen)                  {}
func (progressGame) State() core.GameState                { return core.GameState{} }
func (progressGame) BindState(registry.StateStore)        {}
func (progressGame) StateKey() string                     { return "progress" }

func (progressGame) DescribeProgress(data []byte) ([]registry.Stat, error) {
	return []registry.Stat{{Label: "Saved", Value: string(data)}}, nil
}

func TestResetProgress(t *testing.T) {
	if !registry.Exists("zz-storage-progress") {
		registry.Register("zz-storage-progress", func() registry.Game { return progressGame{} })
	}
	store := openTestStore(t)

	if err := Scope(store, "alice").SaveState("progress", []byte("alice")); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveState("progress", []byte("local")); err != nil {
		t.Fatal(err)
	}

	removed, err := store.ResetProgress("zz-storage-progress", "alice")
	if err != nil || !removed {
		t.Fatalf("ResetProgress = %v, %v", removed, err)
	}
	if _, found, _ := store.LoadState("alice/progress"); found {
		t.Error("alice's progress should be gone")
	}
	if _, found, _ := store.LoadState("progress"); !found {
		t.Error("local progress must survive a scoped reset")
	}

	removed, err = store.ResetProgress("zz-storage-progress", "alice")
	if err != nil || removed {
		t.Errorf("second reset = %v, %v; want nothing removed", removed, err)
	}
	if _, err := store.ResetProgress("zz-missing", ""); err == nil {
		t.Error("unknown game should fail")
	}
}

func TestLedgerCommitAndHistory(t *testing.T) {
	store := openTestStore(t)
	ledger := store.Ledger()
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	amount := decimal.RequireFromString("12.5")
	err := ledger.Commit(ctx, wallet.Commit{
		Tx: wallet.Tx{Hash: "0x1", Kind: wallet.TxClaim, Token: "NOOT", From: "faucet", To: "alice", Amount: amount, Time: now},
		Postings: []wallet.Posting{
			{Token: "NOOT", Account: "alice", Delta: amount},
		},
		Allowance: &wallet.AllowanceSet{Token: "NOOT", Owner: "alice", Spender: "swap", Amount: decimal.NewFromInt(5)},
		Claim:     true,
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	bal, err := ledger.Balance(ctx, "NOOT", "alice")
	if err != nil || !bal.Equal(amount) {
		t.Errorf("balance = %s err=%v", bal, err)
	}
	allowed, err := ledger.Allowance(ctx, "NOOT", "alice", "swap")
	if err != nil || !allowed.Equal(decimal.NewFromInt(5)) {
		t.Errorf("allowance = %s err=%v", allowed, err)
	}
	last, ok, err := ledger.LastClaim(ctx, "alice")
	if err != nil || !ok || !last.Equal(now) {
		t.Errorf("last claim = %v ok=%v err=%v", last, ok, err)
	}

	txs, err := ledger.History(ctx, "alice", 10)
	if err != nil || len(txs) != 1 {
		t.Fatalf("history = %v err=%v", txs, err)
	}
	if txs[0].Hash != "0x1" || txs[0].Kind != wallet.TxClaim || !txs[0].Amount.Equal(amount) {
		t.Errorf("tx = %+v", txs[0])
	}
}

func TestLedgerCommitIsAtomic(t *testing.T) {
	store := openTestStore(t)
	ledger := store.Ledger()
	ctx := context.Background()

	err := ledger.Commit(ctx, wallet.Commit{
		Tx: wallet.Tx{Hash: "0x2", Kind: wallet.TxTransfer, Token: "NOOT", From: "bob", To: "carol", Amount: decimal.NewFromInt(1), Time: time.Now()},
		Postings: []wallet.Posting{
			{Token: "NOOT", Account: "carol", Delta: decimal.NewFromInt(1)},
			{Token: "NOOT", Account: "bob", Delta: decimal.NewFromInt(-1)},
		},
	})
	if !errors.Is(err, wallet.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want overdraw", err)
	}

	bal, _ := ledger.Balance(ctx, "NOOT", "carol")
	if !bal.IsZero() {
		t.Error("failed commit must not credit the receiver")
	}
	if txs, _ := ledger.History(ctx, "bob", 10); len(txs) != 0 {
		t.Error("failed commit must not record a tx")
	}
}
