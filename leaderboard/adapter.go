package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/plus3/blockfall/game"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Phase -trimprefix=Phase

// Phase is where the adapter is in the name-entry flow of the last game.
type Phase int

const (
	// PhaseIdle means there is nothing to submit.
	PhaseIdle Phase = iota
	// PhaseChecking means the standings are being fetched to decide
	// eligibility.
	PhaseChecking
	// PhaseEligible means the game qualifies and a name may be submitted.
	PhaseEligible
	PhaseNotQualified
	PhaseSubmitting
	PhaseSubmitted
	// PhaseUnavailable means eligibility could not be determined.
	PhaseUnavailable
)

// Status is a snapshot of the adapter for display.
type Status struct {
	Phase     Phase
	Result    *game.Result
	Message   string
	Err       error
	Standings []Entry

	// Player holds the lifetime totals of the last player looked up, nil
	// until a lookup succeeds or when that player has no games yet.
	Player *PlayerStats
}

type outcomeKind int

const (
	outcomeCheck outcomeKind = iota
	outcomeSubmit
	outcomeRefresh
	outcomeLive
	outcomeStats
)

// outcome is the result of one network exchange, tagged with the session
// it was started for.
type outcome struct {
	kind     outcomeKind
	session  uuid.UUID
	entries  []Entry
	response *SubmitResponse
	stats    *PlayerStats
	name     string
	err      error
}

// Adapter drives score submission for a game session. Network calls run on
// their own goroutines and report back through a channel; nothing they
// return takes effect until Poll is called on the goroutine that owns the
// session. Outcomes belonging to a session other than the current one are
// dropped, so a reset mid-request cannot leak an old game's response into
// the new one.
//
// All methods except the network goroutines are meant to be called from
// that single owning goroutine.
type Adapter struct {
	svc      Service
	log      *slog.Logger
	outcomes chan outcome

	session   uuid.UUID
	result    *game.Result
	phase     Phase
	message   string
	err       error
	standings []Entry
	player    string
	stats     *PlayerStats
}

func NewAdapter(svc Service, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		svc:      svc,
		log:      logger.With("component", "leaderboard"),
		outcomes: make(chan outcome, 16),
	}
}

// SessionReset forgets the previous game. Responses still in flight for it
// are discarded when they arrive.
func (a *Adapter) SessionReset(id uuid.UUID) {
	a.session = id
	a.result = nil
	a.phase = PhaseIdle
	a.message = ""
	a.err = nil
}

// GameOver records the finished game and, when it scored, starts fetching
// the standings to decide whether it qualifies for name entry.
func (a *Adapter) GameOver(ctx context.Context, result game.Result) {
	a.SessionReset(result.SessionID)
	snapshot := result
	a.result = &snapshot
	if result.Score <= 0 {
		return
	}

	a.phase = PhaseChecking
	a.fetch(ctx, outcomeCheck, result.SessionID)
}

// Submit sends the finished game under name. The name is validated before
// any network call is made.
func (a *Adapter) Submit(ctx context.Context, name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}

	switch a.phase {
	case PhaseSubmitting:
		return ErrSubmitInFlight
	case PhaseEligible:
	default:
		return ErrNoPrompt
	}

	a.phase = PhaseSubmitting
	a.err = nil
	sub := NewSubmission(name, *a.result)
	session := a.session
	go func() {
		resp, err := a.svc.Submit(ctx, sub)
		a.deliver(ctx, outcome{kind: outcomeSubmit, session: session, name: sub.PlayerName, response: resp, err: err})
	}()
	return nil
}

// Refresh fetches the standings for display.
func (a *Adapter) Refresh(ctx context.Context) {
	a.fetch(ctx, outcomeRefresh, a.session)
}

// LookupPlayer fetches the lifetime totals for name. Only the most recent
// lookup is kept; answers for an earlier name are dropped.
func (a *Adapter) LookupPlayer(ctx context.Context, name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	a.player = name
	go func() {
		stats, err := a.svc.PlayerStats(ctx, name)
		a.deliver(ctx, outcome{kind: outcomeStats, name: name, stats: stats, err: err})
	}()
	return nil
}

// Follow streams live standings from the feed at url until ctx ends.
// Updates are applied by Poll like every other outcome.
func (a *Adapter) Follow(ctx context.Context, url string) {
	go func() {
		err := Subscribe(ctx, url, func(entries []Entry) {
			a.deliver(ctx, outcome{kind: outcomeLive, entries: entries})
		})
		if err != nil {
			a.log.Warn("standings feed closed", "error", err)
		}
	}()
}

// Poll applies every outcome that has arrived and reports whether anything
// changed.
func (a *Adapter) Poll() bool {
	changed := false
	for {
		select {
		case o := <-a.outcomes:
			if a.apply(o) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (a *Adapter) Status() Status {
	return Status{
		Phase:     a.phase,
		Result:    a.result,
		Message:   a.message,
		Err:       a.err,
		Standings: a.standings,
		Player:    a.stats,
	}
}

func (a *Adapter) fetch(ctx context.Context, kind outcomeKind, session uuid.UUID) {
	go func() {
		entries, err := a.svc.Leaderboard(ctx)
		a.deliver(ctx, outcome{kind: kind, session: session, entries: entries, err: err})
	}()
}

func (a *Adapter) deliver(ctx context.Context, o outcome) {
	select {
	case a.outcomes <- o:
	case <-ctx.Done():
	}
}

func (a *Adapter) apply(o outcome) bool {
	switch o.kind {
	case outcomeLive:
		a.standings = o.entries
		return true
	case outcomeStats:
		return a.applyStats(o)
	}
	if o.session != a.session {
		a.log.Debug("discarding stale response", "session", o.session)
		return false
	}

	switch o.kind {
	case outcomeCheck:
		if a.phase != PhaseChecking {
			return false
		}
		if o.err != nil {
			a.log.Warn("standings check failed", "error", o.err)
			a.phase = PhaseUnavailable
			a.err = o.err
			return true
		}
		a.standings = o.entries
		if Qualifies(o.entries, a.result.Score) {
			a.phase = PhaseEligible
		} else {
			a.phase = PhaseNotQualified
		}

	case outcomeSubmit:
		if a.phase != PhaseSubmitting {
			return false
		}
		if o.err != nil {
			a.log.Warn("score submission failed", "error", o.err)
			a.phase = PhaseEligible
			a.err = o.err
			return true
		}
		a.phase = PhaseSubmitted
		a.message = o.response.Message
		a.log.Info("score submitted", "session", o.session, "rank", o.response.Rank)
		a.Refresh(context.Background())
		if err := a.LookupPlayer(context.Background(), o.name); err != nil {
			a.log.Debug("skipping player lookup", "error", err)
		}

	case outcomeRefresh:
		if o.err != nil {
			a.log.Warn("standings refresh failed", "error", o.err)
			a.err = o.err
			return true
		}
		a.standings = o.entries
	}
	return true
}

func (a *Adapter) applyStats(o outcome) bool {
	if o.name != a.player {
		return false
	}
	var apiErr *APIError
	switch {
	case errors.As(o.err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		a.stats = nil
	case o.err != nil:
		a.log.Warn("player lookup failed", "player", o.name, "error", o.err)
		return false
	default:
		a.stats = o.stats
	}
	return true
}
