package settle

import (
	"github.com/optionforge/optiond/internal/core/asset"
	"github.com/optionforge/optiond/internal/core/ledger"
)

func mulDivChecked(a, b, den uint64) (uint64, bool) {
	return asset.MulDiv(a, b, den)
}

// savepoint captures everything an operation may touch. The books are small
// keyed maps, so a deep copy per operation is the whole rollback story:
// restore on failure, discard on commit.
type savepoint struct {
	underlying ledger.BookState
	strike     ledger.BookState
	tokens     ledger.TokenState
	positions  map[string]Position
	strikePaid uint64
	withdrawn  bool
}

func (e *Engine) savepointLocked() savepoint {
	positions := make(map[string]Position, len(e.positions))
	for k, v := range e.positions {
		positions[k] = v
	}
	return savepoint{
		underlying: e.underlying.State(),
		strike:     e.strike.State(),
		tokens:     e.tokens.State(),
		positions:  positions,
		strikePaid: e.strikePaid,
		withdrawn:  e.withdrawn,
	}
}

func (e *Engine) restoreLocked(sp savepoint) {
	e.underlying.Restore(sp.underlying)
	e.strike.Restore(sp.strike)
	e.tokens.Restore(sp.tokens)
	e.positions = sp.positions
	e.strikePaid = sp.strikePaid
	e.withdrawn = sp.withdrawn
}

// State is the serializable engine state persisted between runs.
type State struct {
	Underlying ledger.BookState    `codec:"underlying"`
	Strike     ledger.BookState    `codec:"strike"`
	Tokens     ledger.TokenState   `codec:"tokens"`
	Positions  map[string]Position `codec:"positions"`
	StrikePaid uint64              `codec:"strike_paid"`
	Withdrawn  bool                `codec:"withdrawn"`
}

// ExportState returns a deep copy of all engine-owned state.
func (e *Engine) ExportState() *State {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := make(map[string]Position, len(e.positions))
	for k, v := range e.positions {
		positions[k] = v
	}
	return &State{
		Underlying: e.underlying.State(),
		Strike:     e.strike.State(),
		Tokens:     e.tokens.State(),
		Positions:  positions,
		StrikePaid: e.strikePaid,
		Withdrawn:  e.withdrawn,
	}
}

// RestoreState replaces all engine-owned state, typically at daemon boot
// from a persisted snapshot.
func (e *Engine) RestoreState(s *State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.underlying.Restore(s.Underlying)
	e.strike.Restore(s.Strike)
	e.tokens.Restore(s.Tokens)
	e.positions = make(map[string]Position, len(s.Positions))
	for k, v := range s.Positions {
		e.positions[k] = v
	}
	e.strikePaid = s.StrikePaid
	e.withdrawn = s.Withdrawn
}
