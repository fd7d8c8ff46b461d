package ledger

import "errors"

var (
	// ErrInsufficientBalance is returned when an account balance does not
	// cover a transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when a delegated transfer exceeds
	// the spender's approved allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrZeroAccount is returned when an operation names an empty account.
	ErrZeroAccount = errors.New("account must not be empty")

	// ErrBalanceOverflow is returned when a credit would wrap a balance or
	// the token supply past the uint64 range.
	ErrBalanceOverflow = errors.New("balance overflow")
)
