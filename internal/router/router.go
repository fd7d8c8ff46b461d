package router

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/optionforge/optiond/internal/core/settle"
)

const defaultQuoteCacheSize = 256

// quoteEntry is a cached venue quote with its expiry.
type quoteEntry struct {
	price   decimal.Decimal
	expires time.Time
}

// Router couples engine operations with venue executions so that a venue
// failure never leaves a partial mint or an undelivered buy behind.
type Router struct {
	engine   *settle.Engine
	venue    Venue
	now      func() time.Time
	quoteTTL time.Duration
	quotes   *lru.Cache[uint64, quoteEntry]
}

// Option configures a Router.
type Option func(*Router)

// WithClock replaces the wall clock used for deadlines and quote expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithQuoteTTL sets how long a venue quote may be served from cache.
func WithQuoteTTL(ttl time.Duration) Option {
	return func(r *Router) { r.quoteTTL = ttl }
}

// New creates a Router over the engine and venue.
func New(engine *settle.Engine, venue Venue, opts ...Option) (*Router, error) {
	cache, err := lru.New[uint64, quoteEntry](defaultQuoteCacheSize)
	if err != nil {
		return nil, err
	}
	r := &Router{
		engine:   engine,
		venue:    venue,
		now:      time.Now,
		quoteTTL: 3 * time.Second,
		quotes:   cache,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// QuotePrice returns the venue's price for amount option tokens, serving
// recent quotes from cache.
func (r *Router) QuotePrice(amount uint64) (decimal.Decimal, error) {
	if entry, ok := r.quotes.Get(amount); ok && r.now().Before(entry.expires) {
		return entry.price, nil
	}

	price, err := r.venue.Quote(r.engine.Tokens().Symbol(), amount)
	if err != nil {
		return decimal.Zero, wrapVenue(err)
	}
	r.quotes.Add(amount, quoteEntry{price: price, expires: r.now().Add(r.quoteTTL)})
	return price, nil
}

// ExecuteSell mints amount option tokens against seller's collateral and
// sells them to the venue in one atomic unit: if the venue rejects, or the
// premium clears under minOutput, the mint is rolled back entirely.
// Returns the premium obtained in raw strike units.
func (r *Router) ExecuteSell(seller string, amount, minOutput uint64, deadline time.Time) (uint64, error) {
	if r.now().After(deadline) {
		return 0, ErrDeadlineExceeded
	}

	var premium uint64
	err := r.engine.Atomically(func(tx *settle.Txn) error {
		if err := tx.Mint(seller, amount, seller); err != nil {
			return err
		}
		got, err := r.venue.Sell(tx.Tokens().Symbol(), amount)
		if err != nil {
			return wrapVenue(err)
		}
		if got < minOutput {
			return ErrPriceBelowMinimum
		}
		if err := tx.Tokens().Transfer(seller, r.venue.Address(), amount); err != nil {
			return err
		}
		premium = got
		return nil
	})
	if err != nil {
		return 0, err
	}
	return premium, nil
}

// ExecuteBuy buys amount option tokens from the venue and delivers them to
// buyer, atomically: a venue rejection, a premium over maxInput, or a venue
// short of inventory rolls the whole operation back. Returns the premium
// charged in raw strike units.
func (r *Router) ExecuteBuy(buyer string, amount, maxInput uint64, deadline time.Time) (uint64, error) {
	if r.now().After(deadline) {
		return 0, ErrDeadlineExceeded
	}

	var premium uint64
	err := r.engine.Atomically(func(tx *settle.Txn) error {
		cost, err := r.venue.Buy(tx.Tokens().Symbol(), amount)
		if err != nil {
			return wrapVenue(err)
		}
		if cost > maxInput {
			return ErrPriceAboveMaximum
		}
		if err := tx.Tokens().Transfer(r.venue.Address(), buyer, amount); err != nil {
			return err
		}
		premium = cost
		return nil
	})
	if err != nil {
		return 0, err
	}
	return premium, nil
}
