package game

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/blockfall/loop"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=State -trimprefix=State

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateGameOver
)

// Options configures a Session.
type Options struct {
	Config Config

	// Generator overrides the generator selected by Config.Randomizer.
	Generator Generator

	// Store persists the high score. A nil store keeps it in memory only.
	Store HighScoreStore

	Hooks  Hooks
	Clock  func() time.Time
	Logger *slog.Logger
}

// Session is one player's game: the board, the active piece and the scoring
// state, plus the Idle/Running/Paused/GameOver state machine. A session is
// not safe for concurrent use; every operation runs to completion on the
// goroutine that drives it.
type Session struct {
	cfg     Config
	board   *Board
	player  *Player
	store   HighScoreStore
	hooks   Hooks
	clock   func() time.Time
	log     *slog.Logger
	effects loop.Commands

	id           uuid.UUID
	state        State
	score        int
	level        int
	lines        int
	highScore    int
	dropInterval time.Duration
	dropCounter  time.Duration
	startedAt    time.Time
	duration     time.Duration
	last         *Result
}

func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		if gen, err = cfg.newGenerator(); err != nil {
			return nil, err
		}
	}

	s := &Session{
		cfg:          cfg,
		board:        NewBoard(cfg.Rows, cfg.Cols),
		player:       newPlayer(gen),
		store:        opts.Store,
		hooks:        opts.Hooks,
		clock:        opts.Clock,
		log:          opts.Logger,
		level:        1,
		dropInterval: initialInterval,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	if s.store != nil {
		high, ok, err := s.store.Get(cfg.HighScoreKey)
		switch {
		case err != nil:
			s.log.Warn("reading high score failed", "key", cfg.HighScoreKey, "error", err)
		case ok:
			s.highScore = high
		}
	}

	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }
func (s *Session) State() State { return s.state }
func (s *Session) Score() int { return s.score }
func (s *Session) Level() int { return s.level }
func (s *Session) Lines() int { return s.lines }
func (s *Session) HighScore() int { return s.highScore }
func (s *Session) DropInterval() time.Duration { return s.dropInterval }
func (s *Session) DropCounter() time.Duration { return s.dropCounter }
func (s *Session) Board() *Board { return s.board }

// Active returns a copy of the falling piece.
func (s *Session) Active() Piece { return s.player.Piece }

// Next returns the lookahead shape.
func (s *Session) Next() Shape { return s.player.Next() }

// Duration returns the play time of the current game, frozen once it ends.
func (s *Session) Duration() time.Duration {
	switch s.state {
	case StateIdle:
		return 0
	case StateGameOver:
		return s.duration
	default:
		return s.clock().Sub(s.startedAt)
	}
}

// LastResult returns the summary of the most recently finished game.
func (s *Session) LastResult() (Result, bool) {
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Start begins play from Idle, or starts a fresh game after GameOver. It is
// a no-op while Running or Paused.
func (s *Session) Start() {
	switch s.state {
	case StateIdle, StateGameOver:
		s.restart()
	}
}

// Reset abandons the current game, if any, and starts a fresh one unpaused.
func (s *Session) Reset() {
	s.restart()
}

// TogglePause switches between Running and Paused.
func (s *Session) TogglePause() {
	switch s.state {
	case StateRunning:
		s.state = StatePaused
	case StatePaused:
		s.state = StateRunning
	}
}

// Apply executes a player command. Commands other than pause are ignored
// unless the session is Running.
func (s *Session) Apply(cmd Command) {
	switch cmd {
	case CommandMoveLeft:
		s.Move(-1)
	case CommandMoveRight:
		s.Move(1)
	case CommandSoftDrop:
		s.SoftDrop()
	case CommandRotate:
		s.Rotate()
	case CommandHardDrop:
		s.HardDrop()
	case CommandTogglePause:
		s.TogglePause()
	}
}

// Move shifts the piece one column in dir (-1 or +1), leaving it in place
// when the target position collides.
func (s *Session) Move(dir int) {
	if s.state != StateRunning {
		return
	}
	p := &s.player.Piece
	p.X += dir
	if Collide(s.board, p) {
		p.X -= dir
	}
}

// Rotate turns the piece clockwise, or leaves it untouched when the rotated
// shape collides. No wall kicks are attempted.
func (s *Session) Rotate() {
	if s.state != StateRunning {
		return
	}
	p := &s.player.Piece
	p.Shape.rotate()
	if Collide(s.board, p) {
		p.Shape.unrotate()
	}
}

// SoftDrop moves the piece down one row, locking it in when it cannot move.
// The drop timer restarts either way.
func (s *Session) SoftDrop() {
	if s.state != StateRunning {
		return
	}
	p := &s.player.Piece
	p.Y++
	if Collide(s.board, p) {
		p.Y--
		s.lockIn()
	}
	s.dropCounter = 0
	s.effects.Flush()
}

// HardDrop drops the piece as far as it goes and locks it in immediately.
func (s *Session) HardDrop() {
	if s.state != StateRunning {
		return
	}
	p := &s.player.Piece
	for !Collide(s.board, p) {
		p.Y++
	}
	p.Y--
	s.lockIn()
	s.effects.Flush()
}

// Advance accrues elapsed play time and performs the automatic soft drop once
// the accumulator exceeds the drop interval.
func (s *Session) Advance(dt time.Duration) {
	if s.state != StateRunning {
		return
	}
	s.dropCounter += dt
	if s.dropCounter > s.dropInterval {
		s.SoftDrop()
	}
}

func (s *Session) lockIn() {
	merge(s.board, &s.player.Piece)
	s.dropCounter = 0
	s.spawn()

	lines, points := sweep(s.board, s.level)
	if lines == 0 {
		return
	}
	s.award(lines, points)

	// Rows above a cleared line shift down and may now overlap the piece
	// that was just spawned.
	if s.state == StateRunning && Collide(s.board, &s.player.Piece) {
		s.topOut()
	}
}

// award books the result of a sweep: score, line count, and at most one
// level per sweep.
func (s *Session) award(lines, points int) {
	s.score += points
	s.lines += lines
	if s.lines >= s.level*linesPerLevel {
		s.level++
		s.dropInterval = DropInterval(s.level)
		if s.hooks.OnLevelUp != nil {
			level := s.level
			s.effects.Defer(func() { s.hooks.OnLevelUp(level) })
		}
	}
	if s.hooks.OnLinesCleared != nil {
		s.effects.Defer(func() { s.hooks.OnLinesCleared(lines) })
	}
	s.recordHighScore()
}

// spawn brings in the next piece. A piece that collides where it spawns ends
// the game.
func (s *Session) spawn() {
	s.player.reset(s.board.Width())
	if Collide(s.board, &s.player.Piece) {
		s.topOut()
	}
}

func (s *Session) topOut() {
	s.state = StateGameOver
	s.effects.Defer(s.finish)
}

// finish runs once per game, after the operation that ended it, so the
// result reflects the final score.
func (s *Session) finish() {
	now := s.clock()
	s.duration = now.Sub(s.startedAt)
	result := Result{
		SessionID: s.id,
		Score:     s.score,
		Level:     s.level,
		Lines:     s.lines,
		Duration:  s.duration,
		EndedAt:   now,
	}
	s.last = &result

	s.log.Info("game over",
		"session", s.id,
		"score", s.score,
		"level", s.level,
		"lines", s.lines,
		"duration", s.duration)

	if s.hooks.OnGameOver != nil {
		s.hooks.OnGameOver(result)
	}
}

func (s *Session) recordHighScore() {
	if s.score <= s.highScore {
		return
	}
	s.highScore = s.score
	if s.store == nil {
		return
	}
	if err := s.store.Set(s.cfg.HighScoreKey, s.highScore); err != nil {
		s.log.Warn("saving high score failed", "key", s.cfg.HighScoreKey, "error", err)
	}
}

func (s *Session) restart() {
	s.board.clear()
	s.id = uuid.New()
	s.state = StateRunning
	s.score = 0
	s.level = 1
	s.lines = 0
	s.dropInterval = initialInterval
	s.dropCounter = 0
	s.startedAt = s.clock()
	s.duration = 0

	if s.hooks.OnStart != nil {
		id := s.id
		s.effects.Defer(func() { s.hooks.OnStart(id) })
	}
	s.spawn()
	s.effects.Flush()
}
