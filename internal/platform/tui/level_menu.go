package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nootfarm/noot-arcade/internal/core"
)

// LevelSelectModel lets users pick the level a run starts on.
// Entry 0 is "start from the beginning"; the rest map to levels[i-1].
type LevelSelectModel struct {
	title      string
	levels     []string
	cursor     int
	width      int
	height     int
	keyMapper  *KeyMapper
	standalone bool
	chosen     bool
	quitting   bool
	back       bool
}

// NewLevelSelectModel creates a selector listing the given level labels.
func NewLevelSelectModel(title string, levels []string, width, height int) LevelSelectModel {
	return LevelSelectModel{
		title:     title,
		levels:    levels,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LevelSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.levels) {
			m.cursor++
		}
	case MenuActionSelect:
		m.chosen = true
		return m, exitCmd(m.standalone)
	case MenuActionBack:
		m.back = true
		return m, exitCmd(m.standalone)
	}
	return m, nil
}

// View renders the level list.
func (m LevelSelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")

	rows := make([]string, 0, len(m.levels)+1)
	rows = append(rows, "Start from the beginning")
	for i, name := range m.levels {
		rows = append(rows, fmt.Sprintf("%2d. %s", i+1, name))
	}

	// Keep the cursor visible on short terminals
	visible := max(m.height-8, 3)
	first := 0
	if m.cursor >= visible {
		first = m.cursor - visible + 1
	}
	for i := first; i < len(rows) && i < first+visible; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+rows[i], m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// Selected returns the chosen level index (0-based) and whether a choice was
// made.
func (m LevelSelectModel) Selected() (int, bool) {
	if !m.chosen {
		return 0, false
	}
	return max(m.cursor-1, 0), true
}

// IsQuitting returns true if user wants to quit.
func (m LevelSelectModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelSelectModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector shows the selector in the local terminal. ok is false when
// the user backed out or quit.
func RunLevelSelector(title string, levels []string, cfg core.RuntimeConfig) (level int, ok bool, err error) {
	model := NewLevelSelectModel(title, levels, cfg.ScreenW, cfg.ScreenH)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return 0, false, err
	}

	m, isModel := final.(LevelSelectModel)
	if !isModel || m.IsQuitting() || m.WantsBack() {
		return 0, false, nil
	}
	level, ok = m.Selected()
	return level, ok, nil
}
