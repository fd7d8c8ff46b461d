// Package settle implements the collateralized settlement engine: sellers
// lock strike collateral to mint option tokens, holders exercise them before
// expiration, and sellers withdraw their pro-rata remainder afterwards.
//
// Every public operation runs to completion under one lock against a
// savepoint, so a failure commits nothing. External collaborators only ever
// trigger operations; they never reach the books directly.
package settle

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/optionforge/optiond/internal/core/ledger"
	"github.com/optionforge/optiond/internal/core/series"
	"github.com/optionforge/optiond/internal/events"
)

// Position is one seller's collateral accounting: what they contributed and
// are owed back pro rata after expiration. Puts lock strike only, so
// UnderlyingContributed stays zero; the field is part of the persisted
// position layout for series kinds that lock underlying collateral.
type Position struct {
	UnderlyingContributed uint64 `codec:"underlying_contributed" json:"underlying_contributed"`
	StrikeContributed     uint64 `codec:"strike_contributed" json:"strike_contributed"`
}

// Engine orchestrates mint, exercise, and withdraw for one option series.
// It exclusively owns the seller positions and the option token supply; the
// asset books are mutated only through transfers it initiates.
type Engine struct {
	mu sync.Mutex

	series     *series.Series
	underlying *ledger.Book
	strike     *ledger.Book
	tokens     *ledger.TokenBook

	positions map[string]Position

	// strikePaid is the cumulative strike paid out on exercise; with the
	// pooled strike balance it closes the conservation identity against the
	// sum of seller contributions.
	strikePaid uint64

	// withdrawn flips once the first withdrawal commits; the conservation
	// identity is only defined before that point.
	withdrawn bool

	addr    string
	now     func() time.Time
	pub     events.Publisher
	pending []func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock. Fixtures use it to cross expiration
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPublisher sets the event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.pub = p }
}

// WithAddress sets the engine's own account on the asset books.
func WithAddress(addr string) Option {
	return func(e *Engine) { e.addr = addr }
}

// New creates an Engine for the given series over the two asset books.
func New(s *series.Series, underlying, strike *ledger.Book, opts ...Option) *Engine {
	e := &Engine{
		series:     s,
		underlying: underlying,
		strike:     strike,
		tokens:     ledger.NewTokenBook(optionSymbol(s)),
		positions:  make(map[string]Position),
		addr:       "settlement-engine",
		now:        time.Now,
		pub:        events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func optionSymbol(s *series.Series) string {
	return fmt.Sprintf("POD%s:%s", s.Kind(), s.Underlying().Symbol)
}

// Series returns the engine's option series.
func (e *Engine) Series() *series.Series { return e.series }

// Address returns the engine's account on the asset books. Sellers approve
// this account before minting, holders before exercising.
func (e *Engine) Address() string { return e.addr }

// Tokens returns the option token book.
func (e *Engine) Tokens() *ledger.TokenBook { return e.tokens }

// Underlying returns the underlying asset book.
func (e *Engine) Underlying() *ledger.Book { return e.underlying }

// Strike returns the strike asset book.
func (e *Engine) Strike() *ledger.Book { return e.strike }

// StrikeToTransfer reports the strike asset a mint or exercise of amount
// settles, after truncation. Amounts whose strike owed truncates below one
// whole strike unit fail with ErrAmountTooLow, matching what Mint and
// Exercise enforce, so collaborators can pre-validate with it.
func (e *Engine) StrikeToTransfer(amount uint64) (uint64, error) {
	out, ok := e.series.StrikeToTransfer(amount)
	if !ok {
		return 0, ErrAmountOverflow
	}
	if out < e.series.MinStrikeTransfer() {
		return 0, ErrAmountTooLow
	}
	return out, nil
}

// Position returns seller's outstanding position.
func (e *Engine) Position(seller string) (Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.positions[seller]
	return p, ok
}

// TotalLocked returns the strike collateral currently pooled in the engine.
func (e *Engine) TotalLocked() uint64 {
	return e.strike.BalanceOf(e.addr)
}

// PooledUnderlying returns the underlying currently pooled in the engine.
func (e *Engine) PooledUnderlying() uint64 {
	return e.underlying.BalanceOf(e.addr)
}

// Mint locks seller collateral and credits option tokens to owner.
func (e *Engine) Mint(seller string, amount uint64, owner string) error {
	return e.run(func() error {
		return e.mintLocked(seller, amount, owner)
	})
}

// Exercise burns amount option tokens from holder, pulls the underlying in,
// and pays the strike out of the pooled collateral at the fixed price.
func (e *Engine) Exercise(holder string, amount uint64) error {
	return e.run(func() error {
		return e.exerciseLocked(holder, amount)
	})
}

// Withdraw pays seller their proportional share of both pools after
// expiration and zeroes their position. Returns the amounts paid.
func (e *Engine) Withdraw(seller string) (underlyingOut, strikeOut uint64, err error) {
	err = e.run(func() error {
		var inner error
		underlyingOut, strikeOut, inner = e.withdrawLocked(seller)
		return inner
	})
	return underlyingOut, strikeOut, err
}

// Txn exposes the engine's operations inside an Atomically block.
type Txn struct {
	e *Engine
}

// Mint is Engine.Mint within the enclosing atomic block.
func (tx *Txn) Mint(seller string, amount uint64, owner string) error {
	return tx.e.mintLocked(seller, amount, owner)
}

// Exercise is Engine.Exercise within the enclosing atomic block.
func (tx *Txn) Exercise(holder string, amount uint64) error {
	return tx.e.exerciseLocked(holder, amount)
}

// Tokens returns the option token book for in-block transfers.
func (tx *Txn) Tokens() *ledger.TokenBook { return tx.e.tokens }

// Atomically runs fn as one all-or-nothing unit: if fn returns an error,
// every mutation it made through the Txn (or to the books) is rolled back
// and no event is emitted. The execution router uses this to couple a mint
// with an external venue call.
func (e *Engine) Atomically(fn func(tx *Txn) error) error {
	return e.run(func() error {
		return fn(&Txn{e: e})
	})
}

// run executes fn under the engine lock against a savepoint. On error the
// savepoint is restored; on success the conservation identity is checked and
// pending events flush.
func (e *Engine) run(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sp := e.savepointLocked()
	e.pending = nil

	if err := fn(); err != nil {
		e.restoreLocked(sp)
		e.pending = nil
		return err
	}

	if err := e.checkInvariantLocked(); err != nil {
		e.restoreLocked(sp)
		e.pending = nil
		// A broken conservation identity is a bug in the engine, never a
		// runtime condition to report to the caller.
		panic(err)
	}

	for _, emit := range e.pending {
		emit()
	}
	e.pending = nil
	return nil
}

func (e *Engine) mintLocked(seller string, amount uint64, owner string) error {
	if e.series.StateAt(e.now()) != series.Trading {
		return ErrNotTrading
	}

	strikeToTransfer, ok := e.series.StrikeToTransfer(amount)
	if !ok {
		return ErrAmountOverflow
	}
	// below one whole strike unit the amount rounds to zero value owed
	if strikeToTransfer < e.series.MinStrikeTransfer() {
		return ErrAmountTooLow
	}

	if e.strike.BalanceOf(seller) < strikeToTransfer {
		return ledger.ErrInsufficientBalance
	}
	if e.strike.Allowance(seller, e.addr) < strikeToTransfer {
		return ledger.ErrInsufficientAllowance
	}
	if amount > math.MaxUint64-e.tokens.TotalSupply() {
		return ErrAmountOverflow
	}
	if strikeToTransfer > math.MaxUint64-e.positions[seller].StrikeContributed {
		return ErrAmountOverflow
	}

	if err := e.strike.TransferFrom(seller, e.addr, e.addr, strikeToTransfer); err != nil {
		return err
	}
	if err := e.tokens.Mint(owner, amount); err != nil {
		return err
	}

	pos := e.positions[seller]
	pos.StrikeContributed += strikeToTransfer
	e.positions[seller] = pos

	ev := &events.MintEvent{
		Seller:       seller,
		Owner:        owner,
		Amount:       amount,
		StrikeLocked: strikeToTransfer,
		Time:         e.now(),
	}
	e.pending = append(e.pending, func() { e.pub.PublishMint(ev) })
	return nil
}

func (e *Engine) exerciseLocked(holder string, amount uint64) error {
	if e.series.StateAt(e.now()) != series.Trading {
		return ErrNotTrading
	}

	strikeOut, ok := e.series.StrikeToTransfer(amount)
	if !ok {
		return ErrAmountOverflow
	}
	if strikeOut < e.series.MinStrikeTransfer() {
		return ErrAmountTooLow
	}

	if e.tokens.BalanceOf(holder) < amount {
		return ErrInsufficientOptionBalance
	}
	if e.underlying.BalanceOf(holder) < amount {
		return ErrInsufficientUnderlyingBalance
	}
	if e.underlying.Allowance(holder, e.addr) < amount {
		return ledger.ErrInsufficientAllowance
	}
	if strikeOut > math.MaxUint64-e.strikePaid {
		return ErrAmountOverflow
	}

	if err := e.tokens.Burn(holder, amount); err != nil {
		return err
	}
	if err := e.underlying.TransferFrom(holder, e.addr, e.addr, amount); err != nil {
		return err
	}
	// The payout comes from the shared pool; no seller is debited here.
	// Sellers absorb exercise proportionally at withdrawal.
	if err := e.strike.Transfer(e.addr, holder, strikeOut); err != nil {
		return err
	}
	e.strikePaid += strikeOut

	ev := &events.ExerciseEvent{
		Holder:       holder,
		Amount:       amount,
		UnderlyingIn: amount,
		StrikeOut:    strikeOut,
		Time:         e.now(),
	}
	e.pending = append(e.pending, func() { e.pub.PublishExercise(ev) })
	return nil
}

func (e *Engine) withdrawLocked(seller string) (uint64, uint64, error) {
	if e.series.StateAt(e.now()) != series.Expired {
		return 0, 0, ErrNotExpired
	}

	pos, ok := e.positions[seller]
	if !ok || pos.StrikeContributed == 0 {
		return 0, 0, ErrNothingToWithdraw
	}

	// Share ratio is taken against the sum of positions still outstanding
	// at this moment, so withdrawal order shifts payouts by truncation
	// dust. That matches the reference accounting; the dust stays in the
	// pool and is bounded by one smallest unit per seller.
	var totalOutstanding uint64
	for _, p := range e.positions {
		totalOutstanding += p.StrikeContributed
	}

	poolUnderlying := e.underlying.BalanceOf(e.addr)
	poolStrike := e.strike.BalanceOf(e.addr)

	underlyingOut, ok := mulDivChecked(poolUnderlying, pos.StrikeContributed, totalOutstanding)
	if !ok {
		return 0, 0, ErrAmountOverflow
	}
	strikeOut, ok := mulDivChecked(poolStrike, pos.StrikeContributed, totalOutstanding)
	if !ok {
		return 0, 0, ErrAmountOverflow
	}

	delete(e.positions, seller)
	e.withdrawn = true

	if underlyingOut > 0 {
		if err := e.underlying.Transfer(e.addr, seller, underlyingOut); err != nil {
			return 0, 0, err
		}
	}
	if strikeOut > 0 {
		if err := e.strike.Transfer(e.addr, seller, strikeOut); err != nil {
			return 0, 0, err
		}
	}

	ev := &events.WithdrawEvent{
		Seller:        seller,
		UnderlyingOut: underlyingOut,
		StrikeOut:     strikeOut,
		Time:          e.now(),
	}
	e.pending = append(e.pending, func() { e.pub.PublishWithdraw(ev) })
	return underlyingOut, strikeOut, nil
}

// checkInvariantLocked verifies conservation: before any withdrawal, the sum
// of seller contributions equals the pooled strike plus all strike paid on
// exercise.
func (e *Engine) checkInvariantLocked() error {
	if e.withdrawn {
		return nil
	}
	var contributed uint64
	for _, p := range e.positions {
		contributed += p.StrikeContributed
	}
	pooled := e.strike.BalanceOf(e.addr)
	if contributed != pooled+e.strikePaid {
		return fmt.Errorf("collateral conservation broken: contributed=%d pooled=%d paid=%d",
			contributed, pooled, e.strikePaid)
	}
	return nil
}
