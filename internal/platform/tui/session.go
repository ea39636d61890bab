package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/registry"
	"github.com/nootfarm/noot-arcade/internal/storage"
	"github.com/nootfarm/noot-arcade/internal/wallet"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScoreboard
	viewWallet
)

// SessionModel manages the full arcade session flow: menu, games, the
// scoreboard and the wallet. This is the top-level model for SSH sessions.
type SessionModel struct {
	id         string
	store      *storage.Store
	state      registry.StateStore
	wallet     *wallet.Wallet
	config     core.RuntimeConfig
	username   string
	view       sessionView
	menu       MenuModel
	game       *Model
	scoreboard ScoreboardModel
	walletView WalletModel
	quitting   bool
}

// NewSessionModel creates a session for username. store and w may be nil,
// in which case scores, saved state and the wallet are unavailable.
func NewSessionModel(store *storage.Store, w *wallet.Wallet, cfg core.RuntimeConfig, username string) SessionModel {
	m := SessionModel{
		id:       uuid.NewString(),
		store:    store,
		wallet:   w,
		config:   cfg,
		username: username,
		menu:     NewMenuModel(store, cfg),
	}
	if store != nil {
		m.state = storage.Scope(store, username)
	}
	return m
}

// ID returns the unique session id.
func (m SessionModel) ID() string {
	return m.id
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	case viewWallet:
		return m.updateWallet(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.game = nil
	m.menu = NewMenuModel(m.store, m.config)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.view = viewScoreboard
		m.scoreboard = NewScoreboardModel(m.store, m.state, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()

	case m.menu.WantsWallet():
		if m.wallet == nil {
			m.menu.openWallet = false
			return m, cmd
		}
		m.view = viewWallet
		m.walletView = NewWalletModel(m.wallet, m.username, m.config.ScreenW, m.config.ScreenH)
		return m, m.walletView.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			log.Error("session: cannot create game", "session", m.id, "err", err)
			return m.toMenu()
		}
		m.config = m.menu.Config()
		gm := NewModel(game, m.store, m.state, m.config)
		m.game = &gm
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = &gm
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateWallet(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.walletView.Update(msg)
	if wv, ok := next.(WalletModel); ok {
		m.walletView = wv
	}

	if m.walletView.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.walletView.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScoreboard:
		return m.scoreboard.View()
	case viewWallet:
		return m.walletView.View()
	}
	return m.menu.View()
}
