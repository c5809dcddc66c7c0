package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bobble/internal/audio"
	"github.com/vovakirdan/tui-bobble/internal/config"
	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/registry"
	"github.com/vovakirdan/tui-bobble/internal/storage"
)

// VolumeStep is the change applied by one volume key press.
const VolumeStep = 10

// footerHeight is the line reserved below the game for volume and help.
const footerHeight = 1

// Mixer is the output volume control, normally an *audio.Manager.
type Mixer interface {
	Volume() int
	SetVolume(v int)
}

// VolumeStore persists the volume preference, normally a *storage.Store.
type VolumeStore interface {
	SetVolume(v int) (int, error)
}

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for a game session.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	mixer      Mixer
	store      VolumeStore
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	volume     int
	logger     *log.Logger
	quitting   bool
	back       bool
}

// NewModel creates a model for the given game. The mixer and store may be
// nil; volume keys then only change the displayed value.
func NewModel(game registry.Game, mixer Mixer, store VolumeStore, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	volume := storage.DefaultVolume
	if mixer != nil {
		volume = mixer.Volume()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		mixer:      mixer,
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		volume:     volume,
		logger:     log.Default(),
	}
}

// gameHeight is the screen height left to the game above the footer.
func gameHeight(h int) int {
	return max(h-footerHeight, 1)
}

// gameConfig is the runtime config the game sees.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init starts the tick loop. The game is reset by Run before the program
// starts so the first frame already shows the board.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.back = true
		return m, tea.Quit
	case action == core.ActionVolumeUp:
		m.changeVolume(VolumeStep)
	case action == core.ActionVolumeDown:
		m.changeVolume(-VolumeStep)
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// changeVolume applies and persists a volume change.
func (m *Model) changeVolume(delta int) {
	v := storage.ClampVolume(m.volume + delta)
	if v == m.volume {
		return
	}
	m.volume = v
	if m.mixer != nil {
		m.mixer.SetVolume(v)
	}
	if m.store != nil {
		if _, err := m.store.SetVolume(v); err != nil {
			m.logger.Warn("cannot save volume", "volume", v, "err", err)
		}
	}
	m.logger.Debug("volume changed", "volume", v)
}

// handleResize processes window resize events. The game lays itself out on
// every render, so the session keeps running.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Has(core.EventGameOver) || result.Has(core.EventLevelClear) {
		m.logger.Info("session update", "game", m.game.ID(), "level", m.gameState.Level,
			"score", m.gameState.Score, "won", m.gameState.Won, "over", m.gameState.GameOver)
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := config.UserPath("screenshots")
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot dir", "dir", dir, "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// footer renders the volume and the key help.
func (m Model) footer() string {
	vol := fmt.Sprintf("Vol %d%% ", m.volume)
	if m.volume == 0 {
		vol = "Muted "
	}
	return footerStyle.Render(vol) + m.help.ShortHelpView(m.keyMapper.Keys().ShortHelp())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.game.Render(m.screen)
	if m.help.ShowAll {
		return lipgloss.JoinVertical(lipgloss.Left, RenderScreen(m.screen), m.help.FullHelpView(m.keyMapper.Keys().FullHelp()))
	}
	return RenderScreen(m.screen) + "\n" + m.footer()
}

// WantsBack reports whether the session ended with the back key.
func (m Model) WantsBack() bool {
	return m.back
}

// Run plays a game until the player quits or goes back to the level picker.
// The manager and store may be nil.
func Run(game registry.Game, manager *audio.Manager, store *storage.Store, cfg core.RuntimeConfig) (back bool, err error) {
	var mixer Mixer
	if manager != nil {
		mixer = manager
		if su, ok := game.(registry.SoundUser); ok {
			su.SetSound(manager)
		}
	}
	var vs VolumeStore
	if store != nil {
		vs = store
	}

	model := NewModel(game, mixer, vs, cfg)
	game.Reset(model.gameConfig())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	finalModel, err := p.Run()
	if manager != nil {
		manager.SetMusic(false)
	}
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.WantsBack(), nil
}
