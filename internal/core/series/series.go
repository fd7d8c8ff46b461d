// Package series defines the immutable parameters of one option series and
// the time-gated trading state derived from them.
package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/optionforge/optiond/internal/core/asset"
)

// Kind is the option kind. Only puts are in scope.
type Kind uint8

const (
	// Put options give the holder the right to sell the underlying at the
	// strike price.
	Put Kind = iota
)

func (k Kind) String() string {
	if k == Put {
		return "PUT"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// State is the trading state of a series, derived from the clock. It is
// never stored: Trading flips to Expired exactly once, driven by wall-clock
// time against the fixed expiration.
type State uint8

const (
	// Trading means now is before expiration: mint and exercise are open.
	Trading State = iota
	// Expired means now is at or past expiration: only withdraw is open.
	Expired
)

func (s State) String() string {
	switch s {
	case Trading:
		return "trading"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

var (
	// ErrZeroStrike is returned for a series with a zero strike price.
	ErrZeroStrike = errors.New("strike price must be positive")

	// ErrPastExpiration is returned when a series is created already expired.
	ErrPastExpiration = errors.New("expiration must be in the future")
)

// Series holds the creation-time parameters of one option series. All
// fields are fixed at construction.
type Series struct {
	underlying asset.Asset
	strike     asset.Asset

	// strikePrice is the integer strike scaled by strikePriceDecimals:
	// how much strike asset one whole underlying unit settles for.
	strikePrice         uint64
	strikePriceDecimals uint8

	expiration time.Time
	kind       Kind
}

// New creates a Series. now anchors the expiration check so fixtures can
// construct series against a simulated clock.
func New(underlying, strike asset.Asset, strikePrice uint64, strikePriceDecimals uint8, expiration time.Time, now time.Time) (*Series, error) {
	if strikePrice == 0 {
		return nil, ErrZeroStrike
	}
	if strikePriceDecimals > asset.MaxDecimals {
		return nil, fmt.Errorf("strike price scale: %w", asset.ErrBadDecimals)
	}
	if !expiration.After(now) {
		return nil, ErrPastExpiration
	}
	return &Series{
		underlying:          underlying,
		strike:              strike,
		strikePrice:         strikePrice,
		strikePriceDecimals: strikePriceDecimals,
		expiration:          expiration,
		kind:                Put,
	}, nil
}

// Resume reconstructs an existing Series, typically at daemon restart.
// Unlike New it accepts an expiration already in the past so the
// withdrawal phase survives a restart.
func Resume(underlying, strike asset.Asset, strikePrice uint64, strikePriceDecimals uint8, expiration time.Time) (*Series, error) {
	if strikePrice == 0 {
		return nil, ErrZeroStrike
	}
	if strikePriceDecimals > asset.MaxDecimals {
		return nil, fmt.Errorf("strike price scale: %w", asset.ErrBadDecimals)
	}
	return &Series{
		underlying:          underlying,
		strike:              strike,
		strikePrice:         strikePrice,
		strikePriceDecimals: strikePriceDecimals,
		expiration:          expiration,
		kind:                Put,
	}, nil
}

// Underlying returns the underlying asset.
func (s *Series) Underlying() asset.Asset { return s.underlying }

// Strike returns the strike asset.
func (s *Series) Strike() asset.Asset { return s.strike }

// StrikePrice returns the scaled integer strike price.
func (s *Series) StrikePrice() uint64 { return s.strikePrice }

// StrikePriceDecimals returns the strike price decimal scale.
func (s *Series) StrikePriceDecimals() uint8 { return s.strikePriceDecimals }

// UnderlyingDecimals returns the underlying asset's decimal scale.
func (s *Series) UnderlyingDecimals() uint8 { return s.underlying.Decimals }

// StrikeDecimals returns the strike asset's decimal scale.
func (s *Series) StrikeDecimals() uint8 { return s.strike.Decimals }

// Expiration returns the expiration timestamp.
func (s *Series) Expiration() time.Time { return s.expiration }

// Kind returns the option kind.
func (s *Series) Kind() Kind { return s.kind }

// StateAt derives the trading state at the given instant. Recomputed at
// every engine entry point rather than cached, so the gate cannot go stale.
func (s *Series) StateAt(now time.Time) State {
	if now.Before(s.expiration) {
		return Trading
	}
	return Expired
}

// StrikeToTransfer converts an option token amount (underlying-scaled) into
// the strike asset owed for it: amount * strikePrice / 10^underlyingDecimals,
// truncating. ok is false when the product cannot settle in uint64.
func (s *Series) StrikeToTransfer(amount uint64) (uint64, bool) {
	return asset.MulDivPow10(amount, s.strikePrice, s.underlying.Decimals)
}

// MinStrikeTransfer returns the smallest strike amount a mint or exercise
// may settle: one whole unit of the strike asset. Strike owed below this
// truncates to zero whole units and the amount is rejected as too low.
func (s *Series) MinStrikeTransfer() uint64 {
	m := uint64(1)
	for i := uint8(0); i < s.strike.Decimals; i++ {
		m *= 10
	}
	return m
}

func (s *Series) String() string {
	return fmt.Sprintf("%s/%s %s strike=%d exp=%s",
		s.underlying.Symbol, s.strike.Symbol, s.kind, s.strikePrice,
		s.expiration.UTC().Format(time.RFC3339))
}
