package main

import (
	"context"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nootfarm/noot-arcade/internal/storage"
	"github.com/nootfarm/noot-arcade/internal/wallet"
)

var (
	flagAccount      string
	flagHistoryLimit int
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage test NOOT and farm coins",
	Long: fmt.Sprintf(`Inspect and move tokens in the local ledger.

NOOT mirrors the testnet token (chain %d). Farm coins are bought from the
swap contract at %s FARM per NOOT, after approving the contract to spend
your NOOT. The faucet grants %s NOOT once a day.

Examples:
  arcade wallet balance --account alice
  arcade wallet claim --account alice
  arcade wallet approve 50 --account alice
  arcade wallet swap 10 --account alice
  arcade wallet transfer bob 25 --account alice
  arcade wallet history --account alice`,
		wallet.ChainID, wallet.SwapRate, wallet.FaucetAmount),
}

func init() {
	walletCmd.PersistentFlags().StringVar(&flagAccount, "account", defaultAccount(), "Account to act as")
	walletHistoryCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of transactions to show")

	walletCmd.AddCommand(walletBalanceCmd)
	walletCmd.AddCommand(walletClaimCmd)
	walletCmd.AddCommand(walletApproveCmd)
	walletCmd.AddCommand(walletSwapCmd)
	walletCmd.AddCommand(walletTransferCmd)
	walletCmd.AddCommand(walletHistoryCmd)
}

// defaultAccount is the OS user name, matching the account SSH players get.
func defaultAccount() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}

// withWallet opens the ledger, runs fn, and closes the store.
func withWallet(fn func(ctx context.Context, w *wallet.Wallet) error) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return fn(ctx, wallet.New(store.Ledger()))
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show token balances, allowance and faucet status",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withWallet(func(ctx context.Context, w *wallet.Wallet) error {
			fmt.Printf("Account %s\n\n", flagAccount)
			for _, t := range wallet.Tokens() {
				bal, err := w.BalanceOf(ctx, t.Symbol, flagAccount)
				if err != nil {
					return err
				}
				fmt.Printf("  %-11s %s\n", t.Name, t.Format(bal))
			}

			allowed, err := w.Allowance(ctx, wallet.SymbolNOOT, flagAccount, wallet.SwapContractAddress)
			if err != nil {
				return err
			}
			fmt.Printf("  %-11s %s NOOT\n", "Approved", allowed)

			next, err := w.NextClaim(ctx, flagAccount)
			if err != nil {
				return err
			}
			if next.IsZero() {
				fmt.Printf("  %-11s ready\n", "Faucet")
			} else {
				fmt.Printf("  %-11s in %s\n", "Faucet", formatWait(time.Until(next)))
			}
			return nil
		})
	},
}

var walletClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim test NOOT from the faucet",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withWallet(func(ctx context.Context, w *wallet.Wallet) error {
			tx, err := w.ClaimTestNOOT(ctx, flagAccount)
			if err != nil {
				return err
			}
			fmt.Printf("Claimed %s NOOT\ntx %s\n", tx.Amount, tx.Hash)
			return nil
		})
	},
}

var walletApproveCmd = &cobra.Command{
	Use:   "approve <amount>",
	Short: "Allow the swap contract to spend NOOT",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return withWallet(func(ctx context.Context, w *wallet.Wallet) error {
			tx, err := w.Approve(ctx, wallet.SymbolNOOT, flagAccount, wallet.SwapContractAddress, amount)
			if err != nil {
				return err
			}
			fmt.Printf("Approved %s NOOT for %s\ntx %s\n", tx.Amount, wallet.SwapContractAddress, tx.Hash)
			return nil
		})
	},
}

var walletSwapCmd = &cobra.Command{
	Use:   "swap <noot>",
	Short: "Swap NOOT for farm coins",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return withWallet(func(ctx context.Context, w *wallet.Wallet) error {
			tx, err := w.SwapNOOTForFarmCoins(ctx, flagAccount, amount)
			if err != nil {
				return err
			}
			fmt.Printf("Swapped %s NOOT for %s farm coins\ntx %s\n", tx.Amount, tx.OutAmount, tx.Hash)
			return nil
		})
	},
}

var walletTransferCmd = &cobra.Command{
	Use:   "transfer <to> <amount> [token]",
	Short: "Send tokens to another account",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(_ *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		symbol := wallet.SymbolNOOT
		if len(args) == 3 {
			symbol = args[2]
		}
		return withWallet(func(ctx context.Context, w *wallet.Wallet) error {
			tx, err := w.Transfer(ctx, symbol, flagAccount, args[0], amount)
			if err != nil {
				return err
			}
			fmt.Printf("Sent %s %s to %s\ntx %s\n", tx.Amount, tx.Token, tx.To, tx.Hash)
			return nil
		})
	},
}

var walletHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transactions",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withWallet(func(ctx context.Context, w *wallet.Wallet) error {
			txs, err := w.History(ctx, flagAccount, flagHistoryLimit)
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				fmt.Println("No transactions yet.")
				return nil
			}

			fmt.Printf("  %-16s  %-8s  %-28s  %s\n", "When", "Kind", "Amount", "Tx")
			fmt.Printf("  %-16s  %-8s  %-28s  %s\n", "----", "----", "------", "--")
			for _, tx := range txs {
				amount := fmt.Sprintf("%s %s", tx.Amount, tx.Token)
				if tx.Kind == wallet.TxSwap {
					amount += fmt.Sprintf(" > %s %s", tx.OutAmount, tx.OutToken)
				}
				fmt.Printf("  %-16s  %-8s  %-28s  %s\n",
					tx.Time.Local().Format("2006-01-02 15:04"), tx.Kind, amount, tx.Hash)
			}
			return nil
		})
	},
}

// formatWait renders a cooldown for humans.
func formatWait(d time.Duration) string {
	return strings.TrimSuffix(d.Round(time.Minute).String(), "0s")
}
