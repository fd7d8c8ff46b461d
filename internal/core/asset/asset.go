// Package asset defines asset identity and the integer unit conversion
// between differently-scaled assets.
package asset

import (
	"errors"
	"fmt"
)

// MaxDecimals is the largest decimal scale an asset may carry.
const MaxDecimals = 18

// ErrBadDecimals is returned when an asset's decimal scale is out of range.
var ErrBadDecimals = errors.New("asset decimals must be in [0,18]")

// Asset identifies a fungible asset. It is identity metadata only and does
// not carry quantity or balance.
type Asset struct {
	Symbol   string
	Decimals uint8
}

// New creates an Asset, validating the decimal scale.
func New(symbol string, decimals uint8) (Asset, error) {
	if decimals > MaxDecimals {
		return Asset{}, fmt.Errorf("%s: %w", symbol, ErrBadDecimals)
	}
	return Asset{Symbol: symbol, Decimals: decimals}, nil
}

// MustNew is New but panics on invalid input. Intended for fixtures and
// package-level constants.
func MustNew(symbol string, decimals uint8) Asset {
	a, err := New(symbol, decimals)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Asset) String() string {
	return fmt.Sprintf("%s(%d)", a.Symbol, a.Decimals)
}
