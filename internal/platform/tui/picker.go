package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/levels"
)

// RandomRowID is the table ID of the random board entry.
const RandomRowID = "random"

// LevelSelection holds the player's choice from the level picker.
type LevelSelection struct {
	Random  bool
	LevelID string // Empty for random
}

// PickerKeyMap defines the key bindings for the level picker.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Random key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Random, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Random, k.Quit},
	}
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Random: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "random board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LevelPickerModel lists the campaign levels plus a random board entry.
type LevelPickerModel struct {
	levels   []levels.Level
	table    table.Model
	help     help.Model
	keys     PickerKeyMap
	width    int
	height   int
	selected *LevelSelection
	quitting bool
}

// NewLevelPickerModel creates a picker over the given levels. The cursor
// starts on the level whose ID matches current, if any.
func NewLevelPickerModel(lvls []levels.Level, current string, width, height int) LevelPickerModel {
	h := help.New()
	h.Width = width

	m := LevelPickerModel{
		levels: lvls,
		help:   h,
		keys:   DefaultPickerKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows())
	for i, lvl := range lvls {
		if lvl.ID == current {
			m.table.SetCursor(i)
		}
	}
	return m
}

// createTable creates the level table sized to the window.
func (m *LevelPickerModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "ID", Width: 8},
		{Title: "Name", Width: 20},
		{Title: "Rows", Width: 5},
		{Title: "Pieces", Width: 7},
	}

	// Give the name column whatever room is left
	if extra := m.width - 4 - 54; extra > 0 {
		columns[2].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
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

// rows returns one row per level and a final random board row.
func (m LevelPickerModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.levels)+1)
	for i, lvl := range m.levels {
		r, _ := lvl.Size()
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			lvl.ID,
			lvl.Name,
			fmt.Sprintf("%d", r),
			fmt.Sprintf("%d", lvl.Pieces()),
		})
	}
	rows = append(rows, table.Row{"*", RandomRowID, "Random board", "-", "-"})
	return rows
}

// Init initializes the picker.
func (m LevelPickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m LevelPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Random):
			m.selected = &LevelSelection{Random: true}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			m.selected = m.selectionAt(m.table.Cursor())
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.table.SetRows(m.rows())
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selectionAt maps a table cursor to a selection.
func (m LevelPickerModel) selectionAt(i int) *LevelSelection {
	if i < 0 || i >= len(m.levels) {
		return &LevelSelection{Random: true}
	}
	return &LevelSelection{LevelID: m.levels[i].ID}
}

// View renders the picker.
func (m LevelPickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("BOBBLE - SELECT LEVEL", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.table.View()), m.width))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Selected returns the player's choice, or nil if they quit.
func (m LevelPickerModel) Selected() *LevelSelection {
	return m.selected
}

// centerText centers every line of s in the given width.
func centerText(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// RunLevelPicker shows the level picker. Returns nil if the player quit.
func RunLevelPicker(lvls []levels.Level, current string, cfg core.RuntimeConfig) (*LevelSelection, error) {
	model := NewLevelPickerModel(lvls, current, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(LevelPickerModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
