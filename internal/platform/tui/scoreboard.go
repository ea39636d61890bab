package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nootfarm/noot-arcade/internal/registry"
	"github.com/nootfarm/noot-arcade/internal/storage"
)

// Scoreboard layout
const (
	minWidthForSidebar = 80
	sidebarWidth       = 20
	maxScores          = 100
)

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("→/tab", "next game")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev game")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows ranked runs per game and, for games that save
// between runs, the player's stored progress.
type ScoreboardModel struct {
	games    []registry.GameInfo
	cursor   int
	store    *storage.Store
	state    registry.StateStore // Where saving games keep progress
	scores   []storage.ScoreEntry
	stats    *storage.GameStats
	progress []registry.Stat
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int

	quitting   bool
	goingBack  bool
	standalone bool
}

// NewScoreboardModel creates a scoreboard over store. state is where saved
// progress is read from; SSH sessions pass their per-user view. Either may
// be nil.
func NewScoreboardModel(store *storage.Store, state registry.StateStore, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		state:  state,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthForSidebar
}

// newTable sizes the score table to what is left after the sidebar and the
// progress panel.
func (m ScoreboardModel) newTable() table.Model {
	avail := m.width - 6
	if m.wide() {
		avail -= sidebarWidth + 4
	}
	dateW := min(max(avail-20, 12), 20)

	rows := m.height - 9 - len(m.progress)
	if len(m.progress) > 0 {
		rows -= 2
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 12},
			{Title: "Played", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(rows, 3)),
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

// load refreshes scores, aggregate stats and saved progress for the
// selected game.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.progress = nil, nil, nil
	if len(m.games) == 0 {
		return
	}
	game := m.games[m.cursor]

	if m.store != nil {
		scores, err := m.store.TopScores(game.ID, maxScores)
		if err != nil {
			log.Warn("scoreboard: load scores failed", "game", game.ID, "err", err)
		}
		m.scores = scores
		if stats, err := m.store.GetGameStats(game.ID); err == nil && stats.GamesCount > 0 {
			m.stats = stats
		}
	}

	if game.Saves && m.state != nil {
		progress, _, err := registry.Progress(game.ID, m.state)
		if err != nil {
			log.Warn("scoreboard: load progress failed", "game", game.ID, "err", err)
		}
		m.progress = progress
	}

	m.table = m.newTable()
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{fmt.Sprintf("#%d", i+1), fmt.Sprint(s.Score), s.CreatedAt.Format("Jan 02 15:04")}
	}
	m.table.SetRows(rows)
}

func (m *ScoreboardModel) selectGame(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.games)) % len(m.games)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, exitCmd(m.standalone)
		case key.Matches(msg, m.keys.NextGame):
			m.selectGame(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.selectGame(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "SCOREBOARD"
	if len(m.games) > 0 {
		title += " - " + m.games[m.cursor].Title
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(centerText(title, m.width)))
	b.WriteString("\n")
	if m.stats != nil {
		line := fmt.Sprintf("%d runs  |  best %d  |  avg %.0f  |  last played %s",
			m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.LastPlayed.Format("Jan 02 15:04"))
		b.WriteString(dimStyle.Render(centerText(line, m.width)))
	}
	b.WriteString("\n\n")

	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderMain()))
	} else {
		b.WriteString(centerText(m.renderSelector(), m.width))
		b.WriteString("\n\n")
		b.WriteString(m.renderMain())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderSidebar() string {
	var b strings.Builder
	for i, g := range m.games {
		name := g.Title
		if g.Saves {
			name += " *"
		}
		if len(name) > sidebarWidth-4 {
			name = name[:sidebarWidth-5] + "."
		}
		if i == m.cursor {
			b.WriteString(labelStyle.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("\n* saves progress"))
	return panelStyle.Width(sidebarWidth).Render(b.String())
}

// renderSelector is the narrow-terminal stand-in for the sidebar.
func (m ScoreboardModel) renderSelector() string {
	if len(m.games) == 0 {
		return ""
	}
	return fmt.Sprintf("< %s  (%d/%d) >", m.games[m.cursor].Title, m.cursor+1, len(m.games))
}

// renderMain stacks the saved-progress panel above the ranked runs.
func (m ScoreboardModel) renderMain() string {
	var parts []string
	if len(m.progress) > 0 {
		parts = append(parts, panelStyle.Render(renderStats("Saved progress", m.progress)))
	}

	switch {
	case len(m.scores) > 0:
		parts = append(parts, panelStyle.Render(m.table.View()))
	case len(m.games) > 0 && m.games[m.cursor].Saves:
		parts = append(parts, dimStyle.Italic(true).Padding(1, 2).Render(
			"This game keeps your progress between runs.\nIt is ranked only when a run ends."))
	default:
		parts = append(parts, dimStyle.Italic(true).Padding(1, 2).Render(
			"No runs recorded yet.\nPlay a game to set a high score!"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStats lays out labeled lines with the labels padded to one column.
func renderStats(heading string, stats []registry.Stat) string {
	labelW := 0
	for _, st := range stats {
		labelW = max(labelW, len(st.Label))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(heading))
	for _, st := range stats {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, st.Label)))
		b.WriteString("  ")
		b.WriteString(st.Value)
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen on its own. Saved progress is
// read from store directly. Returns true if user wants to go back to menu.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	var state registry.StateStore
	if store != nil {
		state = store
	}
	model := NewScoreboardModel(store, state, width, height)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
