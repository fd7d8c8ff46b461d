package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/optionforge/optiond/internal/core/settle"
	"github.com/optionforge/optiond/internal/router"
	"github.com/optionforge/optiond/internal/storage"
)

// Handler dispatches JSON-RPC methods to the settlement engine and the
// execution router.
type Handler struct {
	engine  *settle.Engine
	router  *router.Router
	snaps   *storage.SnapshotStore
	now     func() time.Time
	methods map[string]func(json.RawMessage) (interface{}, error)
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRouter enables the execution methods (quote_price, execute_sell,
// execute_buy). Without it those methods report method-not-found.
func WithRouter(r *router.Router) HandlerOption {
	return func(h *Handler) { h.router = r }
}

// WithSnapshots persists engine state after every committed mutation.
func WithSnapshots(s *storage.SnapshotStore) HandlerOption {
	return func(h *Handler) { h.snaps = s }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler initializes a Handler and registers the available methods.
func NewHandler(engine *settle.Engine, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:  engine,
		now:     time.Now,
		methods: make(map[string]func(json.RawMessage) (interface{}, error)),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.methods["mint"] = h.handleMint
	h.methods["exercise"] = h.handleExercise
	h.methods["withdraw"] = h.handleWithdraw
	h.methods["strike_to_transfer"] = h.handleStrikeToTransfer
	h.methods["series_info"] = h.handleSeriesInfo
	h.methods["position"] = h.handlePosition
	if h.router != nil {
		h.methods["quote_price"] = h.handleQuotePrice
		h.methods["execute_sell"] = h.handleExecuteSell
		h.methods["execute_buy"] = h.handleExecuteBuy
	}

	return h
}

// Handle dispatches a JSON-RPC method to the registered handler.
func (h *Handler) Handle(method string, params json.RawMessage) (interface{}, *Error) {
	fn, ok := h.methods[method]
	if !ok {
		return nil, &Error{Code: codeMethodNotFound, Message: fmt.Sprintf("method %s not found", method)}
	}
	result, err := fn(params)
	if err != nil {
		return nil, toRPCError(err)
	}
	return result, nil
}

func decodeParams(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return &Error{Code: codeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Code: codeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}

func (e *Error) Error() string { return e.Message }

// toRPCError maps the settlement and router error taxonomy onto
// JSON-RPC error codes.
func toRPCError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	code := codeInternal
	switch {
	case settle.IsValidation(err):
		code = codeValidation
	case settle.IsInsufficientFunds(err):
		code = codeInsufficientFunds
	case router.IsExternalCall(err),
		errors.Is(err, router.ErrPriceBelowMinimum),
		errors.Is(err, router.ErrPriceAboveMaximum),
		errors.Is(err, router.ErrDeadlineExceeded):
		code = codeExternalExecution
	}
	return &Error{Code: code, Message: err.Error()}
}

// persist saves a snapshot of the committed state. Failures are logged
// rather than surfaced: the operation itself already committed.
func (h *Handler) persist() {
	if h.snaps == nil {
		return
	}
	if err := h.snaps.Save(context.Background(), h.engine.ExportState()); err != nil {
		log.Printf("rpc: snapshot save failed: %v", err)
	}
}

func (h *Handler) handleMint(raw json.RawMessage) (interface{}, error) {
	var p mintParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	owner := p.Owner
	if owner == "" {
		owner = p.Seller
	}
	locked, err := h.engine.StrikeToTransfer(p.Amount)
	if err != nil {
		return nil, err
	}
	if err := h.engine.Mint(p.Seller, p.Amount, owner); err != nil {
		return nil, err
	}
	h.persist()
	return mintResult{StrikeLocked: locked}, nil
}

func (h *Handler) handleExercise(raw json.RawMessage) (interface{}, error) {
	var p exerciseParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	out, err := h.engine.StrikeToTransfer(p.Amount)
	if err != nil {
		return nil, err
	}
	if err := h.engine.Exercise(p.Holder, p.Amount); err != nil {
		return nil, err
	}
	h.persist()
	return exerciseResult{UnderlyingIn: p.Amount, StrikeOut: out}, nil
}

func (h *Handler) handleWithdraw(raw json.RawMessage) (interface{}, error) {
	var p withdrawParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	underlyingOut, strikeOut, err := h.engine.Withdraw(p.Seller)
	if err != nil {
		return nil, err
	}
	h.persist()
	return withdrawResult{UnderlyingOut: underlyingOut, StrikeOut: strikeOut}, nil
}

func (h *Handler) handleStrikeToTransfer(raw json.RawMessage) (interface{}, error) {
	var p amountParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	out, err := h.engine.StrikeToTransfer(p.Amount)
	if err != nil {
		return nil, err
	}
	return strikeToTransferResult{StrikeToTransfer: out}, nil
}

func (h *Handler) handleSeriesInfo(raw json.RawMessage) (interface{}, error) {
	s := h.engine.Series()
	return seriesInfoResult{
		Underlying:          s.Underlying().Symbol,
		UnderlyingDecimals:  s.UnderlyingDecimals(),
		Strike:              s.Strike().Symbol,
		StrikeDecimals:      s.StrikeDecimals(),
		StrikePrice:         s.StrikePrice(),
		StrikePriceDecimals: s.StrikePriceDecimals(),
		Expiration:          s.Expiration().UTC().Format(time.RFC3339),
		State:               s.StateAt(h.now()).String(),
		TotalLocked:         h.engine.TotalLocked(),
		PooledUnderlying:    h.engine.PooledUnderlying(),
		TotalSupply:         h.engine.Tokens().TotalSupply(),
	}, nil
}

func (h *Handler) handlePosition(raw json.RawMessage) (interface{}, error) {
	var p positionParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	pos, _ := h.engine.Position(p.Seller)
	return positionResult{
		UnderlyingContributed: pos.UnderlyingContributed,
		StrikeContributed:     pos.StrikeContributed,
		OptionBalance:         h.engine.Tokens().BalanceOf(p.Seller),
	}, nil
}

func (h *Handler) handleQuotePrice(raw json.RawMessage) (interface{}, error) {
	var p amountParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	price, err := h.router.QuotePrice(p.Amount)
	if err != nil {
		return nil, err
	}
	return quoteResult{Price: price.String()}, nil
}

func (h *Handler) handleExecuteSell(raw json.RawMessage) (interface{}, error) {
	var p executeSellParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(p.Deadline)
	if err != nil {
		return nil, err
	}
	premium, err := h.router.ExecuteSell(p.Seller, p.Amount, p.MinOutput, deadline)
	if err != nil {
		return nil, err
	}
	h.persist()
	return executeSellResult{Premium: premium}, nil
}

func (h *Handler) handleExecuteBuy(raw json.RawMessage) (interface{}, error) {
	var p executeBuyParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(p.Deadline)
	if err != nil {
		return nil, err
	}
	cost, err := h.router.ExecuteBuy(p.Buyer, p.Amount, p.MaxInput, deadline)
	if err != nil {
		return nil, err
	}
	h.persist()
	return executeBuyResult{Cost: cost}, nil
}

func parseDeadline(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &Error{Code: codeInvalidParams, Message: "missing deadline"}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &Error{Code: codeInvalidParams, Message: fmt.Sprintf("invalid deadline: %v", err)}
	}
	return t, nil
}
