// Package router adapts the settlement engine to an external liquidity
// venue: mint-then-sell and buy-then-deliver flows over an opaque
// price-quoting and execution service. The router is an ordinary client of
// the engine with no privileged access.
package router

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrExternalCall wraps venue failures. The operation that triggered
	// the call rolls back in full before this is returned.
	ErrExternalCall = errors.New("external venue call failed")

	// ErrDeadlineExceeded is returned when an execution request arrives
	// past its deadline. Deadlines are wall-clock cutoffs checked at
	// entry, never timeouts on in-flight work.
	ErrDeadlineExceeded = errors.New("execution deadline exceeded")

	// ErrPriceBelowMinimum is returned when a sell would clear under the
	// caller's minOutput.
	ErrPriceBelowMinimum = errors.New("sell output below minimum")

	// ErrPriceAboveMaximum is returned when a buy would clear over the
	// caller's maxInput.
	ErrPriceAboveMaximum = errors.New("buy input above maximum")
)

// IsExternalCall reports whether err originated in the external venue.
func IsExternalCall(err error) bool {
	return errors.Is(err, ErrExternalCall)
}

func wrapVenue(err error) error {
	return fmt.Errorf("%w: %v", ErrExternalCall, err)
}

// Venue is the opaque liquidity service the router executes against. Quote
// prices are decimals in strike-asset units per whole option unit; Sell and
// Buy settle the premium on the venue's own rails and report raw strike
// units moved.
type Venue interface {
	// Quote prices amount option tokens. Read-only.
	Quote(symbol string, amount uint64) (decimal.Decimal, error)

	// Sell takes delivery of amount option tokens and returns the premium
	// obtained, in raw strike units.
	Sell(symbol string, amount uint64) (uint64, error)

	// Buy sources amount option tokens and returns the premium charged,
	// in raw strike units.
	Buy(symbol string, amount uint64) (uint64, error)

	// Address is the venue's account on the option token book, where
	// sold tokens are delivered and bought tokens are taken from.
	Address() string
}
