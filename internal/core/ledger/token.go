package ledger

import (
	"errors"
	"math"
	"sync"
)

// ErrInsufficientTokenBalance is returned when a holder burns or transfers
// more option tokens than they hold.
var ErrInsufficientTokenBalance = errors.New("insufficient option token balance")

// TokenBook tracks the fungible option token: per-holder balances and total
// supply. Mint and Burn exist only for the settlement engine; holders may
// transfer freely because the token is a tradable receipt.
type TokenBook struct {
	mu       sync.RWMutex
	symbol   string
	balances map[string]uint64
	supply   uint64
}

// NewTokenBook creates an empty TokenBook.
func NewTokenBook(symbol string) *TokenBook {
	return &TokenBook{
		symbol:   symbol,
		balances: make(map[string]uint64),
	}
}

// Symbol returns the token symbol.
func (t *TokenBook) Symbol() string {
	return t.symbol
}

// BalanceOf returns the token balance of holder.
func (t *TokenBook) BalanceOf(holder string) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[holder]
}

// TotalSupply returns the outstanding token supply.
func (t *TokenBook) TotalSupply() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.supply
}

// Mint credits amount to holder and grows supply.
func (t *TokenBook) Mint(holder string, amount uint64) error {
	if holder == "" {
		return ErrZeroAccount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.supply > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	t.balances[holder] += amount
	t.supply += amount
	return nil
}

// Burn debits amount from holder and shrinks supply.
func (t *TokenBook) Burn(holder string, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	bal := t.balances[holder]
	if bal < amount {
		return ErrInsufficientTokenBalance
	}
	t.balances[holder] = bal - amount
	t.supply -= amount
	return nil
}

// Transfer moves tokens between holders without touching supply.
func (t *TokenBook) Transfer(from, to string, amount uint64) error {
	if from == "" || to == "" {
		return ErrZeroAccount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	bal := t.balances[from]
	if bal < amount {
		return ErrInsufficientTokenBalance
	}
	t.balances[from] = bal - amount
	t.balances[to] += amount
	return nil
}

// TokenState is the serializable state of a TokenBook.
type TokenState struct {
	Balances map[string]uint64 `codec:"balances"`
	Supply   uint64            `codec:"supply"`
}

// State returns a deep copy of the token book's mutable state.
func (t *TokenBook) State() TokenState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := TokenState{
		Balances: make(map[string]uint64, len(t.balances)),
		Supply:   t.supply,
	}
	for k, v := range t.balances {
		s.Balances[k] = v
	}
	return s
}

// Restore replaces the token book's mutable state.
func (t *TokenBook) Restore(s TokenState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances = make(map[string]uint64, len(s.Balances))
	for k, v := range s.Balances {
		t.balances[k] = v
	}
	t.supply = s.Supply
}
