// Package bobble implements the bubble shooter driver: the state machine
// that fires pieces into the lattice, resolves their landing, clears matches
// and drops the ceiling. It renders into a core.Screen and knows nothing
// about the terminal.
package bobble

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bobble/internal/config"
	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/levels"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/resolver"
	"github.com/vovakirdan/tui-bobble/internal/registry"
)

// Score awards.
const (
	PointsPerClear = 10 // Each piece of a removed cluster
	PointsPerFall  = 20 // Each floating piece dropped
)

// defaultAimLift is how far above the emitter the initial aim point sits.
const defaultAimLift = 120

// GameMode selects where boards come from.
type GameMode int

const (
	ModeCampaign GameMode = iota // Bundled and user levels in ID order
	ModeRandom                   // Randomly filled boards, endless
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// levelsDir is the user level directory layered over the bundled levels
var levelsDir string

// startLevel is the campaign level ID to begin with
var startLevel string

var pkgLogger *log.Logger

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Empty means none.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetLevelsDir sets the user level directory.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetStartLevel selects the first campaign level by ID.
func SetStartLevel(id string) {
	startLevel = id
}

// SetLogger sets the logger used by games created afterwards.
func SetLogger(l *log.Logger) {
	pkgLogger = l
}

// Game implements the bubble shooter.
type Game struct {
	mode GameMode

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.BobbleConfig
	difficulty *config.DifficultyManager
	logger     *log.Logger
	sound      core.SoundSink

	// Geometry
	lat      lattice.Lattice
	res      resolver.Resolver
	bounds   resolver.Bounds
	fieldW   float64
	shooterX float64
	shooterY float64
	dangerY  float64

	// Levels
	campaign   []levels.Level
	levelIndex int
	level      levels.Level
	palette    levels.Palette

	// Session state
	board           *lattice.Board
	rng             *rand.Rand
	phase           core.Phase
	pausedFrom      core.Phase
	score           int
	best            int
	levelStartScore int
	tick            int
	shotsUsed       int
	shotsSinceDrop  int
	dropOffsetY     float64
	moving          *resolver.Piece
	travel          float64
	snapMisses      int
	next            lattice.Piece
	aimX, aimY      float64

	events []core.Event
	view   layout // Last render layout, for pointer mapping
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign, sound: core.NopSound{}}
}

// NewRandom creates an endless game on randomly filled boards.
func NewRandom() *Game {
	return &Game{mode: ModeRandom, sound: core.NopSound{}}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeRandom {
		return "bobble_random"
	}
	return "bobble"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeRandom {
		return "Bobble (Random)"
	}
	return "Bobble"
}

// SetSound installs the sound sink. Nil selects silence.
func (g *Game) SetSound(sink core.SoundSink) {
	if sink == nil {
		sink = core.NopSound{}
	}
	g.sound = sink
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.runtime = runtime
	g.logger = pkgLogger
	if g.logger == nil {
		g.logger = log.Default()
	}
	if g.sound == nil {
		g.sound = core.NopSound{}
	}

	// Load game config
	cfg, err := config.LoadBobble(configPath)
	if err != nil {
		g.logger.Warn("using default config", "err", err)
		cfg = config.DefaultBobbleConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyBobblePreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.setupGeometry()
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.score = 0
	g.tick = 0

	loader := levels.NewLoader(levelsDir, g.logger)
	g.levelIndex = 0
	g.campaign = nil
	if g.mode == ModeCampaign {
		g.campaign, err = loader.LoadAll()
		if err != nil || len(g.campaign) == 0 {
			g.logger.Error("no campaign levels, falling back to random boards", "err", err)
		}
		for i, lvl := range g.campaign {
			if lvl.ID == startLevel {
				g.levelIndex = i
			}
		}
	}
	if len(g.campaign) == 0 {
		p, err := loader.Palette(levels.DefaultPalette)
		if err != nil {
			g.logger.Error("cannot load default palette", "err", err)
		}
		g.level = levels.RandomLevel(p)
	}

	g.startLevel(g.levelIndex)
}

// setupGeometry derives the lattice and field coordinates from the config.
func (g *Game) setupGeometry() {
	geo := g.cfg.Geometry
	g.lat = lattice.New(lattice.Geometry{
		Cols:       geo.Cols,
		Radius:     geo.Radius,
		LeftMargin: geo.LeftMargin,
		TopMargin:  geo.TopMargin,
		Inset:      geo.Inset,
	})
	g.res = resolver.New(g.lat, g.cfg.Play.ContactEpsilon)
	g.fieldW = geo.FieldWidth()
	g.bounds = resolver.Bounds{Left: geo.LeftMargin, Right: g.fieldW - geo.RightMargin}
	g.shooterX = g.fieldW / 2
	g.shooterY = geo.FieldHeight - geo.BottomMargin
	g.dangerY = geo.FieldHeight - geo.BottomMargin
}

// startLevel builds the board for a campaign index, or a fresh random board.
func (g *Game) startLevel(index int) {
	g.board = lattice.NewBoard(g.cfg.Geometry.BoardRows, g.cfg.Geometry.Cols)

	if len(g.campaign) > 0 {
		g.levelIndex = index
		g.level = g.campaign[index]
		if err := g.level.Build(g.board); err != nil {
			g.logger.Error("level does not fit the board, using a random fill", "level", g.level.ID, "err", err)
			g.board = lattice.NewBoard(g.cfg.Geometry.BoardRows, g.cfg.Geometry.Cols)
			g.randomFill()
		}
	} else {
		g.randomFill()
	}
	g.palette = g.level.Palette

	g.levelStartScore = g.score
	g.shotsUsed = 0
	g.shotsSinceDrop = 0
	g.dropOffsetY = 0
	g.moving = nil
	g.travel = 0
	g.snapMisses = 0
	g.aimX = g.shooterX
	g.aimY = g.shooterY - defaultAimLift
	g.phase = core.PhaseReady
	g.pausedFrom = ""
	g.next = g.nextPiece()
	g.sound.SetMusic(true)

	g.logger.Info("level started", "level", g.level.ID, "pieces", g.board.Count())
}

func (g *Game) randomFill() {
	levels.RandomFill(g.board, g.rng, g.cfg.Field.InitRows, g.cfg.Field.EmptyRate, g.level.Palette)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = g.events[:0]

	// Handle restart
	if in.Has(core.ActionRestart) && (g.phase == core.PhaseOver || g.phase == core.PhaseClear || g.phase == core.PhasePaused) {
		g.restart()
		return g.result()
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.togglePause()
	}

	switch g.phase {
	case core.PhasePaused, core.PhaseOver:
		return g.result()
	case core.PhaseClear:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionFire) {
			g.advanceLevel()
		}
		return g.result()
	}

	g.tick++
	g.updateAim(in)

	if g.phase == core.PhaseReady && in.Has(core.ActionFire) {
		g.fire()
	}
	if g.phase == core.PhaseFiring {
		g.stepShot()
	}

	g.checkEnd()
	return g.result()
}

func (g *Game) result() core.StepResult {
	var events []core.Event
	if len(g.events) > 0 {
		events = append(events, g.events...)
	}
	return core.StepResult{State: g.State(), Events: events}
}

func (g *Game) emit(e core.Event) {
	g.events = append(g.events, e)
}

func (g *Game) togglePause() {
	switch g.phase {
	case core.PhaseReady, core.PhaseFiring:
		g.pausedFrom = g.phase
		g.phase = core.PhasePaused
		g.sound.SetMusic(false)
	case core.PhasePaused:
		g.phase = g.pausedFrom
		if g.phase == "" {
			g.phase = core.PhaseReady
		}
		g.sound.SetMusic(true)
	}
}

// restart replays the current level from the score it started with. After
// the final campaign level the whole campaign restarts.
func (g *Game) restart() {
	if g.won() {
		g.score = 0
		g.startLevel(0)
		return
	}
	g.score = g.levelStartScore
	g.startLevel(g.levelIndex)
}

// advanceLevel moves past a cleared board. The score carries over.
func (g *Game) advanceLevel() {
	if len(g.campaign) == 0 {
		g.startLevel(0)
		return
	}
	if g.levelIndex+1 < len(g.campaign) {
		g.startLevel(g.levelIndex + 1)
	}
}

// won reports whether the last campaign level is cleared.
func (g *Game) won() bool {
	return g.phase == core.PhaseClear && len(g.campaign) > 0 && g.levelIndex == len(g.campaign)-1
}

// checkEnd detects loss and a cleared board.
func (g *Game) checkEnd() {
	if g.phase == core.PhasePaused || g.phase == core.PhaseOver || g.phase == core.PhaseClear {
		return
	}
	if g.isLost() {
		g.phase = core.PhaseOver
		g.moving = nil
		g.emit(core.EventGameOver)
		g.sound.SetMusic(false)
		g.sound.Play(core.SoundGameOver, 0)
		g.logger.Info("game over", "level", g.level.ID, "score", g.score, "shots", g.shotsUsed)
		return
	}
	if g.board.IsCleared() {
		g.phase = core.PhaseClear
		g.moving = nil
		g.emit(core.EventLevelClear)
		g.sound.SetMusic(false)
		g.sound.Play(core.SoundBoardClear, 0)
		g.logger.Info("level cleared", "level", g.level.ID, "score", g.score, "shots", g.shotsUsed)
	}
}

// isLost reports whether any piece reaches the danger line.
func (g *Game) isLost() bool {
	y, ok := g.lat.LowestCenterY(g.board, g.dropOffsetY)
	return ok && y+g.lat.Radius() >= g.dangerY
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.phase == core.PhaseOver || g.won(),
		Won:      g.won(),
		Paused:   g.phase == core.PhasePaused,
		Phase:    g.phase,
		Level:    g.level.ID,
	}
}

// Best returns the highest score reached by this game instance.
func (g *Game) Best() int {
	return max(g.best, g.score)
}

// ShotsUntilDrop returns how many more shots the ceiling holds for. A
// time-based difficulty can shorten the interval below the shots already
// taken, in which case the next shot drops it.
func (g *Game) ShotsUntilDrop() int {
	return max(g.dropInterval()-g.shotsSinceDrop, 0)
}

// Board returns a copy of the current board.
func (g *Game) Board() *lattice.Board {
	return g.board.Clone()
}

// Palette returns the palette of the current level.
func (g *Game) Palette() levels.Palette {
	return g.palette
}

// Register the games with the registry
func init() {
	registry.Register("bobble", func() registry.Game {
		return New()
	})
	registry.Register("bobble_random", func() registry.Game {
		return NewRandom()
	})
}
