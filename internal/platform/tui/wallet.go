package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/nootfarm/noot-arcade/internal/wallet"
)

const (
	walletHistoryLimit = 50
	walletOpTimeout    = 5 * time.Second
)

var (
	// walletApproveAmount is what the approve key allows the swap contract
	// to spend.
	walletApproveAmount = decimal.NewFromInt(100)
	// walletSwapAmount is the NOOT sold per swap key press.
	walletSwapAmount = decimal.NewFromInt(10)
)

// WalletKeyMap defines the key bindings for the wallet screen.
type WalletKeyMap struct {
	Claim   key.Binding
	Approve key.Binding
	Swap    key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WalletKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Claim, k.Approve, k.Swap, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k WalletKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Claim, k.Approve, k.Swap, k.Refresh},
		{k.Up, k.Down, k.Back, k.Quit},
	}
}

// DefaultWalletKeyMap returns default key bindings.
func DefaultWalletKeyMap() WalletKeyMap {
	return WalletKeyMap{
		Claim: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "claim test NOOT"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve "+walletApproveAmount.String()),
		),
		Swap: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "swap "+walletSwapAmount.String()+" NOOT"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// walletSnapshot is everything the screen shows about one account.
type walletSnapshot struct {
	balances  map[string]decimal.Decimal
	allowance decimal.Decimal
	nextClaim time.Time
	history   []wallet.Tx
}

type walletLoadedMsg struct {
	snap walletSnapshot
	err  error
}

type walletOpMsg struct {
	status string
	err    error
}

// WalletModel is the Bubble Tea model for the NOOT wallet screen.
type WalletModel struct {
	wallet     *wallet.Wallet
	account    string
	snap       walletSnapshot
	status     string
	failed     bool
	busy       bool
	table      table.Model
	help       help.Model
	keys       WalletKeyMap
	width      int
	height     int
	standalone bool
	quitting   bool
	goingBack  bool
}

// NewWalletModel creates a wallet screen for account.
func NewWalletModel(w *wallet.Wallet, account string, width, height int) WalletModel {
	if a, err := wallet.NormalizeAccount(account); err == nil {
		account = a
	}
	m := WalletModel{
		wallet:  w,
		account: account,
		help:    help.New(),
		keys:    DefaultWalletKeyMap(),
		width:   width,
		height:  height,
		busy:    true,
	}
	m.table = m.createTable()
	return m
}

func (m *WalletModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Kind", Width: 9},
		{Title: "Amount", Width: 18},
		{Title: "Tx", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-14, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *WalletModel) updateTableRows() {
	rows := make([]table.Row, len(m.snap.history))
	for i, tx := range m.snap.history {
		rows[i] = table.Row{
			tx.Time.Local().Format("Jan 02 15:04"),
			string(tx.Kind),
			m.describeAmount(tx),
			shortHash(tx.Hash),
		}
	}
	m.table.SetRows(rows)
}

// describeAmount signs the amount from the account's point of view.
func (m WalletModel) describeAmount(tx wallet.Tx) string {
	switch {
	case tx.Kind == wallet.TxSwap:
		return fmt.Sprintf("-%s > +%s %s", tx.Amount, tx.OutAmount, tx.OutToken)
	case tx.Kind == wallet.TxApprove:
		return fmt.Sprintf("%s %s", tx.Amount, tx.Token)
	case tx.From == m.account:
		return fmt.Sprintf("-%s %s", tx.Amount, tx.Token)
	default:
		return fmt.Sprintf("+%s %s", tx.Amount, tx.Token)
	}
}

func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:8] + ".." + h[len(h)-4:]
}

// Init loads the account.
func (m WalletModel) Init() tea.Cmd {
	return m.load()
}

func (m WalletModel) load() tea.Cmd {
	w, account := m.wallet, m.account
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), walletOpTimeout)
		defer cancel()

		snap := walletSnapshot{balances: make(map[string]decimal.Decimal)}
		for _, t := range wallet.Tokens() {
			bal, err := w.BalanceOf(ctx, t.Symbol, account)
			if err != nil {
				return walletLoadedMsg{err: err}
			}
			snap.balances[t.Symbol] = bal
		}
		var err error
		if snap.allowance, err = w.Allowance(ctx, wallet.SymbolNOOT, account, wallet.SwapContractAddress); err != nil {
			return walletLoadedMsg{err: err}
		}
		if snap.nextClaim, err = w.NextClaim(ctx, account); err != nil {
			return walletLoadedMsg{err: err}
		}
		snap.history, err = w.History(ctx, account, walletHistoryLimit)
		return walletLoadedMsg{snap: snap, err: err}
	}
}

// run executes one wallet operation off the UI loop.
func (m WalletModel) run(op func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), walletOpTimeout)
		defer cancel()
		status, err := op(ctx)
		return walletOpMsg{status: status, err: err}
	}
}

// Update handles messages for the wallet screen.
func (m WalletModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case walletLoadedMsg:
		m.busy = false
		if msg.err != nil {
			log.Warn("wallet: load failed", "account", m.account, "err", msg.err)
			m.status, m.failed = msg.err.Error(), true
			return m, nil
		}
		m.snap = msg.snap
		m.updateTableRows()
		return m, nil

	case walletOpMsg:
		if msg.err != nil {
			m.busy = false
			m.status, m.failed = msg.err.Error(), true
			return m, nil
		}
		m.status, m.failed = msg.status, false
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, exitCmd(m.standalone)

		case m.busy:
			return m, nil

		case key.Matches(msg, m.keys.Claim):
			m.busy = true
			return m, m.run(func(ctx context.Context) (string, error) {
				tx, err := m.wallet.ClaimTestNOOT(ctx, m.account)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Claimed %s NOOT (%s)", tx.Amount, shortHash(tx.Hash)), nil
			})

		case key.Matches(msg, m.keys.Approve):
			m.busy = true
			return m, m.run(func(ctx context.Context) (string, error) {
				if _, err := m.wallet.Approve(ctx, wallet.SymbolNOOT, m.account, wallet.SwapContractAddress, walletApproveAmount); err != nil {
					return "", err
				}
				return fmt.Sprintf("Swap contract may spend %s NOOT", walletApproveAmount), nil
			})

		case key.Matches(msg, m.keys.Swap):
			m.busy = true
			return m, m.run(func(ctx context.Context) (string, error) {
				tx, err := m.wallet.SwapNOOTForFarmCoins(ctx, m.account, walletSwapAmount)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Swapped %s NOOT for %s farm coins", tx.Amount, tx.OutAmount), nil
			})

		case key.Matches(msg, m.keys.Refresh):
			m.busy = true
			return m, m.load()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// View renders the wallet screen.
func (m WalletModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString(titleStyle.Render(centerText("NOOT WALLET", m.width)))
	b.WriteString("\n")
	b.WriteString(dim.Render(centerText(fmt.Sprintf("%s  |  chain %d", m.account, wallet.ChainID), m.width)))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var summary strings.Builder
	for _, t := range wallet.Tokens() {
		bal := m.snap.balances[t.Symbol]
		fmt.Fprintf(&summary, "%-11s %s\n", t.Name, t.Format(bal))
	}
	fmt.Fprintf(&summary, "%-11s %s NOOT\n", "Approved", m.snap.allowance)
	if m.snap.nextClaim.IsZero() {
		summary.WriteString("Faucet      ready")
	} else {
		fmt.Fprintf(&summary, "Faucet      in %s", time.Until(m.snap.nextClaim).Round(time.Minute))
	}
	b.WriteString(box.Render(summary.String()))
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(dim.Render("working..."))
	case m.status != "":
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		if m.failed {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		}
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")

	if len(m.snap.history) == 0 {
		b.WriteString(dim.Italic(true).Render("No transactions yet. Press c to claim test NOOT."))
	} else {
		b.WriteString(box.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m WalletModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m WalletModel) IsQuitting() bool {
	return m.quitting
}

// RunWallet runs the wallet screen in the local terminal.
// Returns true if user wants to go back to menu, false if quitting.
func RunWallet(w *wallet.Wallet, account string, width, height int) (goBack bool, err error) {
	model := NewWalletModel(w, account, width, height)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := final.(WalletModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
