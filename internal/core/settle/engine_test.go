package settle

import (
	"errors"
	"testing"
	"time"

	"github.com/optionforge/optiond/internal/core/asset"
	"github.com/optionforge/optiond/internal/core/ledger"
	"github.com/optionforge/optiond/internal/core/series"
	"github.com/optionforge/optiond/internal/events"
)

// fakeClock lets tests cross expiration without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	engine     *Engine
	underlying *ledger.Book
	strike     *ledger.Book
	clock      *fakeClock
	recorder   *events.Recorder
	expiration time.Time
}

// scenarioA: WBTC underlying (8 decimals), aUSDC strike (6 decimals),
// strike price 5000e6 scaled by 6.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureDecimals(t, 8)
}

func newFixtureDecimals(t *testing.T, underlyingDecimals uint8) *fixture {
	t.Helper()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expiration := start.Add(24 * time.Hour)
	clock := &fakeClock{t: start}

	wbtc := asset.MustNew("WBTC", underlyingDecimals)
	ausdc := asset.MustNew("aUSDC", 6)

	s, err := series.New(wbtc, ausdc, 5_000_000_000, 6, expiration, start)
	if err != nil {
		t.Fatal(err)
	}

	underlying := ledger.NewBook(wbtc)
	strike := ledger.NewBook(ausdc)
	rec := &events.Recorder{}

	engine := New(s, underlying, strike,
		WithClock(clock.now),
		WithPublisher(rec),
	)
	return &fixture{
		engine:     engine,
		underlying: underlying,
		strike:     strike,
		clock:      clock,
		recorder:   rec,
		expiration: expiration,
	}
}

// fund gives seller strike tokens and approves the engine for them.
func (f *fixture) fundSeller(t *testing.T, seller string, amount uint64) {
	t.Helper()
	f.strike.Deposit(seller, amount)
	if err := f.strike.Approve(seller, f.engine.Address(), amount); err != nil {
		t.Fatal(err)
	}
}

// fundHolder gives holder underlying and approves the engine for it.
func (f *fixture) fundHolder(t *testing.T, holder string, amount uint64) {
	t.Helper()
	f.underlying.Deposit(holder, amount)
	if err := f.underlying.Approve(holder, f.engine.Address(), amount); err != nil {
		t.Fatal(err)
	}
}

const (
	oneOption  = 100_000_000   // 1 whole option unit at 8 decimals
	fullStrike = 5_000_000_000 // strike owed for one whole unit
)

func TestMintScenarioA(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)

	if err := f.engine.Mint("alice", oneOption, "alice"); err != nil {
		t.Fatal(err)
	}

	if got := f.engine.Tokens().BalanceOf("alice"); got != oneOption {
		t.Errorf("option balance = %d, want %d", got, oneOption)
	}
	if got := f.strike.BalanceOf("alice"); got != 0 {
		t.Errorf("seller strike balance = %d, want 0", got)
	}
	if got := f.engine.TotalLocked(); got != fullStrike {
		t.Errorf("locked strike = %d, want %d", got, fullStrike)
	}
	pos, ok := f.engine.Position("alice")
	if !ok || pos.StrikeContributed != fullStrike {
		t.Errorf("position = %+v,%v, want strikeContributed=%d", pos, ok, fullStrike)
	}
	// puts lock strike only
	if pos.UnderlyingContributed != 0 {
		t.Errorf("underlyingContributed = %d, want 0", pos.UnderlyingContributed)
	}
	if len(f.recorder.Mints) != 1 {
		t.Fatalf("mint events = %d, want 1", len(f.recorder.Mints))
	}
	if ev := f.recorder.Mints[0]; ev.Seller != "alice" || ev.Amount != oneOption || ev.StrikeLocked != fullStrike {
		t.Errorf("mint event = %+v", ev)
	}
}

func TestMintToDifferentOwner(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)

	if err := f.engine.Mint("alice", oneOption, "bob"); err != nil {
		t.Fatal(err)
	}
	if got := f.engine.Tokens().BalanceOf("bob"); got != oneOption {
		t.Errorf("owner balance = %d, want %d", got, oneOption)
	}
	if got := f.engine.Tokens().BalanceOf("alice"); got != 0 {
		t.Errorf("seller balance = %d, want 0", got)
	}
	// collateral accounting stays with the seller regardless of owner
	pos, _ := f.engine.Position("alice")
	if pos.StrikeContributed != fullStrike {
		t.Errorf("seller position = %+v", pos)
	}
}

func TestMintValidation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, f *fixture)
		amount  uint64
		wantErr error
	}{
		{
			name:    "single raw unit rounds to zero strike",
			setup:   func(t *testing.T, f *fixture) { f.fundSeller(t, "alice", fullStrike) },
			amount:  1,
			wantErr: ErrAmountTooLow,
		},
		{
			name:    "zero amount",
			setup:   func(t *testing.T, f *fixture) { f.fundSeller(t, "alice", fullStrike) },
			amount:  0,
			wantErr: ErrAmountTooLow,
		},
		{
			name:    "unfunded seller",
			setup:   func(t *testing.T, f *fixture) {},
			amount:  oneOption,
			wantErr: ledger.ErrInsufficientBalance,
		},
		{
			name: "funded but not approved",
			setup: func(t *testing.T, f *fixture) {
				f.strike.Deposit("alice", fullStrike)
			},
			amount:  oneOption,
			wantErr: ledger.ErrInsufficientAllowance,
		},
		{
			name: "after expiration",
			setup: func(t *testing.T, f *fixture) {
				f.fundSeller(t, "alice", fullStrike)
				f.clock.advance(25 * time.Hour)
			},
			amount:  oneOption,
			wantErr: ErrNotTrading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)

			err := f.engine.Mint("alice", tt.amount, "alice")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			// failed mint commits nothing
			if got := f.engine.Tokens().TotalSupply(); got != 0 {
				t.Errorf("supply = %d after failed mint", got)
			}
			if got := f.engine.TotalLocked(); got != 0 {
				t.Errorf("locked = %d after failed mint", got)
			}
			if len(f.recorder.Mints) != 0 {
				t.Error("failed mint emitted an event")
			}
		})
	}
}

// TestMintMinimumFloor pins the smallest mintable amount: strike owed must
// reach one whole strike unit. At strike price 5000e6 over 8 underlying
// decimals that is 20000 raw units.
func TestMintMinimumFloor(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)

	if err := f.engine.Mint("alice", 19_999, "alice"); !errors.Is(err, ErrAmountTooLow) {
		t.Fatalf("below floor: err = %v, want ErrAmountTooLow", err)
	}
	if got := f.engine.Tokens().TotalSupply(); got != 0 {
		t.Fatalf("supply = %d after rejected mint", got)
	}

	if err := f.engine.Mint("alice", 20_000, "alice"); err != nil {
		t.Fatalf("at floor: err = %v", err)
	}
	// 20000 * 5000e6 / 1e8 = one whole aUSDC unit
	if got := f.engine.TotalLocked(); got != 1_000_000 {
		t.Errorf("locked = %d, want 1000000", got)
	}
}

// TestMintSupplyOverflow wraps the token supply across two mints near the
// uint64 ceiling and expects the second to fail cleanly.
func TestMintSupplyOverflow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}

	weth := asset.MustNew("WETH", 18)
	ausdc := asset.MustNew("aUSDC", 6)
	s, err := series.New(weth, ausdc, 1_000_000, 6, start.Add(24*time.Hour), start)
	if err != nil {
		t.Fatal(err)
	}

	underlying := ledger.NewBook(weth)
	strike := ledger.NewBook(ausdc)
	engine := New(s, underlying, strike, WithClock(clock.now))

	// each mint of 1e19 raw units owes 1e7 strike
	const amount = 10_000_000_000_000_000_000
	strike.Deposit("alice", 20_000_000)
	if err := strike.Approve("alice", engine.Address(), 20_000_000); err != nil {
		t.Fatal(err)
	}

	if err := engine.Mint("alice", amount, "alice"); err != nil {
		t.Fatal(err)
	}
	if got := engine.Tokens().TotalSupply(); got != amount {
		t.Fatalf("supply = %d, want %d", got, uint64(amount))
	}

	if err := engine.Mint("alice", amount, "alice"); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("second mint err = %v, want ErrAmountOverflow", err)
	}
	// the rejected mint commits nothing
	if got := engine.Tokens().TotalSupply(); got != amount {
		t.Errorf("supply = %d after rejected mint, want %d", got, uint64(amount))
	}
	if got := engine.TotalLocked(); got != 10_000_000 {
		t.Errorf("locked = %d after rejected mint, want 10000000", got)
	}
	pos, _ := engine.Position("alice")
	if pos.StrikeContributed != 10_000_000 {
		t.Errorf("strikeContributed = %d after rejected mint, want 10000000", pos.StrikeContributed)
	}
}

func TestMintAccumulates(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", 3*fullStrike)

	if err := f.engine.Mint("alice", oneOption, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Mint("alice", 2*oneOption, "alice"); err != nil {
		t.Fatal(err)
	}

	pos, _ := f.engine.Position("alice")
	if pos.StrikeContributed != 3*fullStrike {
		t.Errorf("strikeContributed = %d, want %d", pos.StrikeContributed, 3*uint64(fullStrike))
	}
	if got := f.engine.Tokens().TotalSupply(); got != 3*oneOption {
		t.Errorf("supply = %d, want %d", got, 3*uint64(oneOption))
	}
}

func TestExerciseDeliversFixedStrike(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)
	if err := f.engine.Mint("alice", oneOption, "bob"); err != nil {
		t.Fatal(err)
	}
	f.fundHolder(t, "bob", oneOption)

	if err := f.engine.Exercise("bob", oneOption); err != nil {
		t.Fatal(err)
	}

	if got := f.strike.BalanceOf("bob"); got != fullStrike {
		t.Errorf("holder strike after exercise = %d, want %d", got, fullStrike)
	}
	if got := f.underlying.BalanceOf("bob"); got != 0 {
		t.Errorf("holder underlying after exercise = %d, want 0", got)
	}
	if got := f.engine.PooledUnderlying(); got != oneOption {
		t.Errorf("pooled underlying = %d, want %d", got, oneOption)
	}
	if got := f.engine.Tokens().BalanceOf("bob"); got != 0 {
		t.Errorf("tokens not burned: %d", got)
	}
	if got := f.engine.TotalLocked(); got != 0 {
		t.Errorf("pooled strike = %d, want 0", got)
	}
	if len(f.recorder.Exercises) != 1 {
		t.Fatalf("exercise events = %d, want 1", len(f.recorder.Exercises))
	}
	if ev := f.recorder.Exercises[0]; ev.StrikeOut != fullStrike || ev.UnderlyingIn != oneOption {
		t.Errorf("exercise event = %+v", ev)
	}
}

func TestExerciseAt18Decimals(t *testing.T) {
	f := newFixtureDecimals(t, 18)

	const amount = 1_000_000_000_000_000_000 // one whole 18-decimal unit
	// strikeToTransfer = 1e18 * 5000e6 / 1e18 = 5000e6
	f.strike.Deposit("alice", fullStrike)
	f.strike.Approve("alice", f.engine.Address(), fullStrike)
	if err := f.engine.Mint("alice", amount, "bob"); err != nil {
		t.Fatal(err)
	}

	f.underlying.Deposit("bob", amount)
	f.underlying.Approve("bob", f.engine.Address(), amount)
	if err := f.engine.Exercise("bob", amount); err != nil {
		t.Fatal(err)
	}
	if got := f.strike.BalanceOf("bob"); got != fullStrike {
		t.Errorf("strike delivered = %d, want %d", got, fullStrike)
	}
}

func TestExerciseValidation(t *testing.T) {
	mintOne := func(t *testing.T, f *fixture) {
		f.fundSeller(t, "alice", fullStrike)
		if err := f.engine.Mint("alice", oneOption, "bob"); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		setup   func(t *testing.T, f *fixture)
		holder  string
		amount  uint64
		wantErr error
	}{
		{
			name:    "holder without tokens",
			setup:   mintOne,
			holder:  "carol",
			amount:  oneOption,
			wantErr: ErrInsufficientOptionBalance,
		},
		{
			name: "holder without underlying",
			setup: func(t *testing.T, f *fixture) {
				mintOne(t, f)
			},
			holder:  "bob",
			amount:  oneOption,
			wantErr: ErrInsufficientUnderlyingBalance,
		},
		{
			name: "holder without allowance",
			setup: func(t *testing.T, f *fixture) {
				mintOne(t, f)
				f.underlying.Deposit("bob", oneOption)
			},
			holder:  "bob",
			amount:  oneOption,
			wantErr: ledger.ErrInsufficientAllowance,
		},
		{
			name: "after expiration",
			setup: func(t *testing.T, f *fixture) {
				mintOne(t, f)
				f.fundHolder(t, "bob", oneOption)
				f.clock.advance(25 * time.Hour)
			},
			holder:  "bob",
			amount:  oneOption,
			wantErr: ErrNotTrading,
		},
		{
			name: "dust amount",
			setup: func(t *testing.T, f *fixture) {
				mintOne(t, f)
				f.fundHolder(t, "bob", oneOption)
			},
			holder:  "bob",
			amount:  1,
			wantErr: ErrAmountTooLow,
		},
		{
			name: "just below one whole strike unit",
			setup: func(t *testing.T, f *fixture) {
				mintOne(t, f)
				f.fundHolder(t, "bob", oneOption)
			},
			holder:  "bob",
			amount:  19_999,
			wantErr: ErrAmountTooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)

			lockedBefore := f.engine.TotalLocked()
			supplyBefore := f.engine.Tokens().TotalSupply()

			err := f.engine.Exercise(tt.holder, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := f.engine.TotalLocked(); got != lockedBefore {
				t.Errorf("locked changed on failed exercise: %d -> %d", lockedBefore, got)
			}
			if got := f.engine.Tokens().TotalSupply(); got != supplyBefore {
				t.Errorf("supply changed on failed exercise: %d -> %d", supplyBefore, got)
			}
		})
	}
}

func TestStateGateBoundary(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", 2*fullStrike)
	if err := f.engine.Mint("alice", oneOption, "alice"); err != nil {
		t.Fatal(err)
	}

	// exactly at expiration the trading window is closed
	f.clock.t = f.expiration

	if err := f.engine.Mint("alice", oneOption, "alice"); !errors.Is(err, ErrNotTrading) {
		t.Errorf("mint at expiration: err = %v, want ErrNotTrading", err)
	}
	if err := f.engine.Exercise("alice", oneOption); !errors.Is(err, ErrNotTrading) {
		t.Errorf("exercise at expiration: err = %v, want ErrNotTrading", err)
	}
	if _, _, err := f.engine.Withdraw("alice"); err != nil {
		t.Errorf("withdraw at expiration: err = %v, want nil", err)
	}
}

func TestWithdrawBeforeExpiry(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)
	if err := f.engine.Mint("alice", oneOption, "alice"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := f.engine.Withdraw("alice"); !errors.Is(err, ErrNotExpired) {
		t.Fatalf("err = %v, want ErrNotExpired", err)
	}
}

func TestWithdrawProportionality(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", 2*fullStrike)
	f.fundSeller(t, "bob", fullStrike)

	if err := f.engine.Mint("alice", 2*oneOption, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Mint("bob", oneOption, "bob"); err != nil {
		t.Fatal(err)
	}

	f.clock.advance(25 * time.Hour)

	_, aliceStrike, err := f.engine.Withdraw("alice")
	if err != nil {
		t.Fatal(err)
	}
	_, bobStrike, err := f.engine.Withdraw("bob")
	if err != nil {
		t.Fatal(err)
	}

	// 2:1 contributions pay out 2:1, within one smallest unit of rounding
	if diff := int64(aliceStrike) - 2*int64(bobStrike); diff < -1 || diff > 1 {
		t.Errorf("alice=%d bob=%d: not 2:1 within rounding", aliceStrike, bobStrike)
	}
	// pool drained to at most one unit of dust per seller
	if got := f.engine.TotalLocked(); got > 2 {
		t.Errorf("residual pool = %d, want <= 2", got)
	}
}

func TestWithdrawIdempotent(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)
	f.fundSeller(t, "bob", fullStrike)
	if err := f.engine.Mint("alice", oneOption, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Mint("bob", oneOption, "bob"); err != nil {
		t.Fatal(err)
	}

	f.clock.advance(25 * time.Hour)

	if _, _, err := f.engine.Withdraw("alice"); err != nil {
		t.Fatal(err)
	}
	poolAfter := f.engine.TotalLocked()

	_, _, err := f.engine.Withdraw("alice")
	if !errors.Is(err, ErrNothingToWithdraw) {
		t.Fatalf("second withdraw err = %v, want ErrNothingToWithdraw", err)
	}
	if got := f.engine.TotalLocked(); got != poolAfter {
		t.Errorf("second withdraw moved pool: %d -> %d", poolAfter, got)
	}

	// a seller who never minted has nothing either
	if _, _, err := f.engine.Withdraw("mallory"); !errors.Is(err, ErrNothingToWithdraw) {
		t.Errorf("stranger withdraw err = %v, want ErrNothingToWithdraw", err)
	}
}

func TestWithdrawAfterExercise(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", 2*fullStrike)
	f.fundSeller(t, "bob", fullStrike)
	if err := f.engine.Mint("alice", 2*oneOption, "carol"); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Mint("bob", oneOption, "carol"); err != nil {
		t.Fatal(err)
	}

	// carol exercises one of her three options
	f.fundHolder(t, "carol", oneOption)
	if err := f.engine.Exercise("carol", oneOption); err != nil {
		t.Fatal(err)
	}

	f.clock.advance(25 * time.Hour)

	aliceU, aliceS, err := f.engine.Withdraw("alice")
	if err != nil {
		t.Fatal(err)
	}
	bobU, bobS, err := f.engine.Withdraw("bob")
	if err != nil {
		t.Fatal(err)
	}

	// pools at expiry: underlying 1e8 (from exercise), strike 10000e6.
	// alice holds 2/3 of contributions, bob 1/3.
	if aliceU != 66_666_666 {
		t.Errorf("alice underlying = %d, want 66666666", aliceU)
	}
	if aliceS != 6_666_666_666 {
		t.Errorf("alice strike = %d, want 6666666666", aliceS)
	}
	// bob, withdrawing last, sweeps what remains of his share plus dust
	if bobU != 33_333_334 {
		t.Errorf("bob underlying = %d, want 33333334", bobU)
	}
	if bobS != 3_333_333_334 {
		t.Errorf("bob strike = %d, want 3333333334", bobS)
	}

	// both pools fully drained: dust went to the last withdrawer
	if got := f.engine.PooledUnderlying(); got != 0 {
		t.Errorf("residual underlying = %d", got)
	}
	if got := f.engine.TotalLocked(); got != 0 {
		t.Errorf("residual strike = %d", got)
	}
}

// TestConservation walks a mint/exercise sequence and checks that seller
// contributions always equal pooled strike plus strike paid on exercise.
func TestConservation(t *testing.T) {
	f := newFixture(t)

	sellers := []struct {
		name   string
		amount uint64
	}{
		{"alice", oneOption},
		{"bob", 3 * oneOption},
		{"alice", 2 * oneOption},
		{"carol", oneOption / 2},
	}

	var paid uint64
	check := func() {
		t.Helper()
		var contributed uint64
		for _, s := range []string{"alice", "bob", "carol"} {
			pos, _ := f.engine.Position(s)
			contributed += pos.StrikeContributed
		}
		if contributed != f.engine.TotalLocked()+paid {
			t.Fatalf("conservation broken: contributed=%d pool=%d paid=%d",
				contributed, f.engine.TotalLocked(), paid)
		}
	}

	for _, s := range sellers {
		strikeNeeded, err := f.engine.StrikeToTransfer(s.amount)
		if err != nil {
			t.Fatal(err)
		}
		f.fundSeller(t, s.name, strikeNeeded)
		if err := f.engine.Mint(s.name, s.amount, "dave"); err != nil {
			t.Fatal(err)
		}
		check()
	}

	// dave exercises in two slices
	for _, amount := range []uint64{oneOption, 2 * oneOption} {
		f.fundHolder(t, "dave", amount)
		if err := f.engine.Exercise("dave", amount); err != nil {
			t.Fatal(err)
		}
		out, err := f.engine.StrikeToTransfer(amount)
		if err != nil {
			t.Fatal(err)
		}
		paid += out
		check()
	}
}

func TestAtomicallyRollsBack(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)

	venueDown := errors.New("venue rejected")
	err := f.engine.Atomically(func(tx *Txn) error {
		if err := tx.Mint("alice", oneOption, "alice"); err != nil {
			return err
		}
		return venueDown
	})
	if !errors.Is(err, venueDown) {
		t.Fatalf("err = %v, want venue error", err)
	}

	// the mint inside the failed block left no trace
	if got := f.engine.Tokens().TotalSupply(); got != 0 {
		t.Errorf("supply = %d, want 0", got)
	}
	if got := f.engine.TotalLocked(); got != 0 {
		t.Errorf("locked = %d, want 0", got)
	}
	if got := f.strike.BalanceOf("alice"); got != fullStrike {
		t.Errorf("seller balance = %d, want %d", got, fullStrike)
	}
	if got := f.strike.Allowance("alice", f.engine.Address()); got != fullStrike {
		t.Errorf("allowance = %d, want %d", got, fullStrike)
	}
	if len(f.recorder.Mints) != 0 {
		t.Error("rolled back mint emitted an event")
	}
}

func TestStateExportRestore(t *testing.T) {
	f := newFixture(t)
	f.fundSeller(t, "alice", fullStrike)
	if err := f.engine.Mint("alice", oneOption, "alice"); err != nil {
		t.Fatal(err)
	}

	state := f.engine.ExportState()

	// a fresh engine restored from the snapshot carries the same books
	g := newFixture(t)
	g.engine.RestoreState(state)

	if got := g.engine.Tokens().BalanceOf("alice"); got != oneOption {
		t.Errorf("restored option balance = %d, want %d", got, oneOption)
	}
	if got := g.engine.TotalLocked(); got != fullStrike {
		t.Errorf("restored locked = %d, want %d", got, fullStrike)
	}
	pos, ok := g.engine.Position("alice")
	if !ok || pos.StrikeContributed != fullStrike {
		t.Errorf("restored position = %+v,%v", pos, ok)
	}
}
