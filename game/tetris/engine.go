// Package tetris implements the game rules and the state machine that
// drives a game from the tick counter and keyboard events.
package tetris

import "tetrisos/device/keyboard"

// State is the phase the engine is in.
type State uint8

// The engine states.
const (
	CreatePiece State = iota
	Descend
	RowFlash
	RowRemove
	GameOver
	Paused
)

// String implements fmt.Stringer for State.
func (s State) String() string {
	switch s {
	case CreatePiece:
		return "create-piece"
	case Descend:
		return "descend"
	case RowFlash:
		return "row-flash"
	case RowRemove:
		return "row-remove"
	case GameOver:
		return "game-over"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Outcome describes why a run ended.
type Outcome uint8

// The possible outcomes of a run.
const (
	// Restart means the player asked for a new game.
	Restart Outcome = iota

	// Quit means the player asked to halt the machine.
	Quit

	// Over means a new piece could not be spawned.
	Over
)

// String implements fmt.Stringer for Outcome.
func (o Outcome) String() string {
	switch o {
	case Restart:
		return "restart"
	case Quit:
		return "quit"
	default:
		return "game over"
	}
}

// Key bindings.
const (
	keyLeft    = 'a'
	keyRight   = 'd'
	keyRotate  = 'w'
	keyDrop    = 's'
	keyPause   = 'p'
	keyRestart = 'r'
	keyQuit    = 'q'
)

const (
	// flashInterval is the number of ticks between two flash toggles.
	flashInterval = 10

	// flashToggles is the number of toggles before rows are removed.
	flashToggles = 4
)

// Clock is the source of ticks.
type Clock interface {
	Ticks() uint64
}

// Keyboard is polled once per loop iteration for the latest key event.
type Keyboard interface {
	Read() keyboard.Event
}

// Config holds the per-game options.
type Config struct {
	// StartLevel is the level the game starts at.
	StartLevel uint32

	// ShowNext enables the preview of the next piece.
	ShowNext bool
}

// held tracks which keys are currently down.
type held struct {
	left, right, rotate, drop, pause, quit bool
}

func (h held) any() bool {
	return h.left || h.right || h.rotate || h.drop || h.pause
}

// Engine runs one game. It is owned by a single goroutine; only the clock
// and the keyboard are updated from interrupt context.
type Engine struct {
	clock  Clock
	keys   Keyboard
	screen Screen
	cfg    Config

	state   State
	grid    Grid
	preview [previewSize][previewSize]Token
	score   Score

	piece   Tetromino
	next    Kind
	hasNext bool

	pendingRows [MaxClearRows]int
	pendingN    int
	flashCount  int
	lastMove    uint64

	keysHeld held

	// latched is set once a key triggered an action and cleared once all
	// action keys are up, so that holding a key acts only once.
	latched bool

	// dropping is set while the drop key accelerates the current piece.
	dropping bool
}

// New returns an engine that draws on screen. Call Start to begin a game.
func New(clock Clock, keys Keyboard, screen Screen, cfg Config) *Engine {
	e := new(Engine)
	e.Setup(clock, keys, screen, cfg)
	return e
}

// Setup configures e in place. Any game in progress is discarded.
func (e *Engine) Setup(clock Clock, keys Keyboard, screen Screen, cfg Config) {
	*e = Engine{
		clock:  clock,
		keys:   keys,
		screen: screen,
		cfg:    cfg,
	}
}

// Config returns the options the engine was set up with.
func (e *Engine) Config() Config { return e.cfg }

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Score returns the current score.
func (e *Engine) Score() Score { return e.score }

// Start resets the game, draws the static parts of the screen and spawns
// the first piece.
func (e *Engine) Start() {
	e.grid.Reset()
	e.preview = [previewSize][previewSize]Token{}
	e.score = NewScore(e.cfg.StartLevel)
	e.hasNext = false
	e.pendingN = 0
	e.flashCount = 0
	e.keysHeld = held{}
	e.latched = false
	e.dropping = false

	e.drawStatic()
	e.drawLines()
	e.drawLevel()
	e.drawScore()

	now := e.clock.Ticks()
	e.piece = Spawn(KindFromTicks(now), SpawnOffset)
	e.grid.Place(e.piece, e.piece.Kind.Token())
	e.lastMove = now
	e.state = Descend
}

// Run advances the game once per idle period until it ends. After each
// step the screen is presented and idle is called to wait for the next
// interrupt.
func (e *Engine) Run(idle func()) Outcome {
	for {
		outcome, done := e.Step()
		if done && outcome == Restart {
			return outcome
		}

		e.screen.Present()
		if done {
			return outcome
		}

		idle()
	}
}

// Step performs one iteration of the game loop: it polls the keyboard,
// applies input, advances the state machine and draws the playfield into
// the screen buffer. It reports whether the run is over and why.
func (e *Engine) Step() (Outcome, bool) {
	if e.readInput() {
		return Restart, true
	}

	if !e.hasNext {
		e.next = KindFromTicks(e.clock.Ticks())
		e.hasNext = true
		e.drawPreview()
	}

	e.applyInput()

	now := e.clock.Ticks()
	elapsed := now - e.lastMove

	switch e.state {
	case CreatePiece:
		e.createPiece()
	case Descend:
		delay := uint64(e.score.FallDelay)
		if e.dropping {
			delay = DropFallDelay
		}
		if elapsed > delay {
			e.descend()
			e.lastMove = now
		}
	case RowFlash:
		if elapsed > flashInterval {
			e.flash()
			e.lastMove = now
		}
	case RowRemove:
		e.removeRows()
	case Paused:
		e.screen.PutString(panelLeft, pausedRow, "PAUSED", pausedAttr)
	}

	e.drawField()

	if e.state == GameOver {
		e.screen.PutString(panelLeft, overRow, "GAME OVER", overAttr)
		return Over, true
	}

	if e.keysHeld.quit {
		e.screen.PutString(panelLeft, haltedRow, "CPU HALTED", haltedAttr)
		return Quit, true
	}

	return 0, false
}

// readInput polls one key event and updates the held keys. It reports
// whether a restart was requested.
func (e *Engine) readInput() bool {
	ev := e.keys.Read()

	switch ev.Char {
	case keyLeft:
		e.keysHeld.left = ev.Pressed
	case keyRight:
		e.keysHeld.right = ev.Pressed
	case keyRotate:
		e.keysHeld.rotate = ev.Pressed
	case keyDrop:
		e.keysHeld.drop = ev.Pressed
	case keyQuit:
		e.keysHeld.quit = ev.Pressed
	case keyPause:
		e.keysHeld.pause = ev.Pressed
	case keyRestart:
		return ev.Pressed
	}

	return false
}

// applyInput turns held keys into actions. Actions fire once per press
// except for drop, which stays in effect while held.
func (e *Engine) applyInput() {
	if !e.keysHeld.any() {
		e.latched = false
	}
	if !e.keysHeld.drop {
		e.dropping = false
	}

	switch {
	case e.state == Descend && !e.latched && e.keysHeld.any():
		if e.keysHeld.left {
			e.grid.Move(&e.piece, Left)
		}
		if e.keysHeld.right {
			e.grid.Move(&e.piece, Right)
		}
		if e.keysHeld.drop {
			e.dropping = true
		}
		if e.keysHeld.rotate {
			e.grid.Rotate(&e.piece)
		}
		if e.keysHeld.pause {
			e.state = Paused
		}
		e.latched = true
	case e.state == Paused && !e.latched && e.keysHeld.pause:
		e.screen.PutString(panelLeft, pausedRow, "      ", pausedAttr)
		e.state = Descend
		e.latched = true
	}
}

// createPiece spawns the pending piece or ends the game if it does not fit.
func (e *Engine) createPiece() {
	candidate := Spawn(e.next, SpawnOffset)
	if !e.grid.Place(candidate, e.next.Token()) {
		e.state = GameOver
		return
	}

	e.piece = candidate
	e.hasNext = false
	e.dropping = false
	e.state = Descend
}

// descend moves the piece down one row. A piece that cannot move is locked
// and complete rows, if any, start flashing.
func (e *Engine) descend() {
	if e.grid.Move(&e.piece, Down) {
		return
	}

	e.pendingRows, e.pendingN = e.grid.CompleteRows()
	if e.pendingN > 0 {
		e.state = RowFlash
		return
	}
	e.state = CreatePiece
}

func (e *Engine) flash() {
	if e.flashCount < flashToggles {
		for _, y := range e.pendingRows[:e.pendingN] {
			e.grid.ToggleFlash(y)
		}
		e.flashCount++
		return
	}

	e.flashCount = 0
	e.state = RowRemove
}

// removeRows deletes the flashed rows top to bottom and updates the score.
func (e *Engine) removeRows() {
	for _, y := range e.pendingRows[:e.pendingN] {
		e.grid.RemoveRow(y)
	}

	leveledUp := e.score.Award(e.pendingN)
	e.pendingN = 0

	e.drawLines()
	e.drawScore()
	if leveledUp {
		e.drawLevel()
	}

	e.state = CreatePiece
}
