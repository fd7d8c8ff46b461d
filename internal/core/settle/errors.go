package settle

import (
	"errors"

	"github.com/optionforge/optiond/internal/core/ledger"
)

var (
	// ErrNotTrading is returned when mint or exercise is attempted at or
	// past expiration.
	ErrNotTrading = errors.New("series is not trading")

	// ErrNotExpired is returned when withdraw is attempted before
	// expiration.
	ErrNotExpired = errors.New("series has not expired")

	// ErrAmountTooLow is returned when an amount converts to zero strike
	// owed: anything below one whole strike-per-underlying unit truncates
	// to nothing and must be rejected.
	ErrAmountTooLow = errors.New("amount too low: strike owed rounds to zero")

	// ErrAmountOverflow is returned when a conversion does not fit the
	// ledger's integer range.
	ErrAmountOverflow = errors.New("amount overflows settlement range")

	// ErrInsufficientOptionBalance is returned when a holder exercises more
	// option tokens than they hold.
	ErrInsufficientOptionBalance = errors.New("insufficient option token balance")

	// ErrInsufficientUnderlyingBalance is returned when an exercising
	// holder cannot deliver the underlying.
	ErrInsufficientUnderlyingBalance = errors.New("insufficient underlying balance")

	// ErrNothingToWithdraw is returned when a seller with no outstanding
	// position withdraws, including a second withdraw after a successful
	// one.
	ErrNothingToWithdraw = errors.New("nothing to withdraw")
)

// IsValidation reports whether err is the caller's fault: a bad amount or a
// closed time window. These are reported once and never retried.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNotTrading) ||
		errors.Is(err, ErrNotExpired) ||
		errors.Is(err, ErrAmountTooLow) ||
		errors.Is(err, ErrAmountOverflow) ||
		errors.Is(err, ledger.ErrBalanceOverflow) ||
		errors.Is(err, ErrNothingToWithdraw)
}

// IsInsufficientFunds reports whether err is a balance or allowance
// shortfall the caller can cure by topping up and retrying.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ledger.ErrInsufficientBalance) ||
		errors.Is(err, ledger.ErrInsufficientAllowance) ||
		errors.Is(err, ledger.ErrInsufficientTokenBalance) ||
		errors.Is(err, ErrInsufficientOptionBalance) ||
		errors.Is(err, ErrInsufficientUnderlyingBalance)
}
