// Package ledger provides the fungible asset ledgers the settlement engine
// settles against: a generic asset book with allowance-based delegated
// transfer, and the option token book whose supply only the engine mutates.
package ledger

import (
	"math"
	"sync"

	"github.com/optionforge/optiond/internal/core/asset"
)

// Ledger is the fungible-asset contract consumed by the settlement engine.
// Implementations must behave like a standard token ledger: transfers fail
// rather than overdraw, and delegated transfers spend allowance.
type Ledger interface {
	BalanceOf(owner string) uint64
	Transfer(from, to string, amount uint64) error
	TransferFrom(owner, spender, to string, amount uint64) error
	Approve(owner, spender string, amount uint64) error
	Allowance(owner, spender string) uint64
}

// Book is an in-memory Ledger for one asset.
type Book struct {
	mu         sync.RWMutex
	asset      asset.Asset
	balances   map[string]uint64
	allowances map[string]map[string]uint64
}

// NewBook creates an empty Book for the given asset.
func NewBook(a asset.Asset) *Book {
	return &Book{
		asset:      a,
		balances:   make(map[string]uint64),
		allowances: make(map[string]map[string]uint64),
	}
}

// Asset returns the asset this book accounts for.
func (b *Book) Asset() asset.Asset {
	return b.asset
}

// BalanceOf returns the balance of owner. Unknown accounts hold zero.
func (b *Book) BalanceOf(owner string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[owner]
}

// Deposit credits amount to owner, creating supply. Used to fund accounts
// from fixtures and at daemon boot; the engine itself never deposits.
func (b *Book) Deposit(owner string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[owner] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	b.balances[owner] += amount
	return nil
}

// Transfer moves amount from one account to another.
func (b *Book) Transfer(from, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transferLocked(from, to, amount)
}

// TransferFrom moves amount from owner to to, spending spender's allowance.
func (b *Book) TransferFrom(owner, spender, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	allowed := b.allowances[owner][spender]
	if allowed < amount {
		return ErrInsufficientAllowance
	}
	if err := b.transferLocked(owner, to, amount); err != nil {
		return err
	}
	b.allowances[owner][spender] = allowed - amount
	return nil
}

// Approve sets spender's allowance over owner's funds to amount.
func (b *Book) Approve(owner, spender string, amount uint64) error {
	if owner == "" || spender == "" {
		return ErrZeroAccount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.allowances[owner] == nil {
		b.allowances[owner] = make(map[string]uint64)
	}
	b.allowances[owner][spender] = amount
	return nil
}

// Allowance returns the remaining allowance spender holds over owner.
func (b *Book) Allowance(owner, spender string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.allowances[owner][spender]
}

func (b *Book) transferLocked(from, to string, amount uint64) error {
	if from == "" || to == "" {
		return ErrZeroAccount
	}
	bal := b.balances[from]
	if bal < amount {
		return ErrInsufficientBalance
	}
	if from != to && b.balances[to] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	b.balances[from] = bal - amount
	b.balances[to] += amount
	return nil
}

// BookState is the serializable state of a Book, used for engine savepoints
// and persisted snapshots.
type BookState struct {
	Balances   map[string]uint64            `codec:"balances"`
	Allowances map[string]map[string]uint64 `codec:"allowances"`
}

// State returns a deep copy of the book's mutable state.
func (b *Book) State() BookState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := BookState{
		Balances:   make(map[string]uint64, len(b.balances)),
		Allowances: make(map[string]map[string]uint64, len(b.allowances)),
	}
	for k, v := range b.balances {
		s.Balances[k] = v
	}
	for owner, spenders := range b.allowances {
		cp := make(map[string]uint64, len(spenders))
		for sp, v := range spenders {
			cp[sp] = v
		}
		s.Allowances[owner] = cp
	}
	return s
}

// Restore replaces the book's mutable state with a previously captured one.
func (b *Book) Restore(s BookState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances = make(map[string]uint64, len(s.Balances))
	for k, v := range s.Balances {
		b.balances[k] = v
	}
	b.allowances = make(map[string]map[string]uint64, len(s.Allowances))
	for owner, spenders := range s.Allowances {
		cp := make(map[string]uint64, len(spenders))
		for sp, v := range spenders {
			cp[sp] = v
		}
		b.allowances[owner] = cp
	}
}
