package rpc

import "encoding/json"

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error represents a JSON-RPC error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes. The -32000 range carries the settlement error
// taxonomy so clients can distinguish rejected requests from venue
// failures without parsing messages.
const (
	codeParse             = -32700
	codeMethodNotFound    = -32601
	codeInvalidParams     = -32602
	codeInternal          = -32603
	codeValidation        = -32000
	codeInsufficientFunds = -32001
	codeExternalExecution = -32002
)

type mintParams struct {
	Seller string `json:"seller"`
	Owner  string `json:"owner,omitempty"`
	Amount uint64 `json:"amount"`
}

type exerciseParams struct {
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
}

type withdrawParams struct {
	Seller string `json:"seller"`
}

type amountParams struct {
	Amount uint64 `json:"amount"`
}

type executeSellParams struct {
	Seller    string `json:"seller"`
	Amount    uint64 `json:"amount"`
	MinOutput uint64 `json:"min_output"`
	Deadline  string `json:"deadline"`
}

type executeBuyParams struct {
	Buyer    string `json:"buyer"`
	Amount   uint64 `json:"amount"`
	MaxInput uint64 `json:"max_input"`
	Deadline string `json:"deadline"`
}

type positionParams struct {
	Seller string `json:"seller"`
}

type mintResult struct {
	StrikeLocked uint64 `json:"strike_locked"`
}

type exerciseResult struct {
	UnderlyingIn uint64 `json:"underlying_in"`
	StrikeOut    uint64 `json:"strike_out"`
}

type withdrawResult struct {
	UnderlyingOut uint64 `json:"underlying_out"`
	StrikeOut     uint64 `json:"strike_out"`
}

type quoteResult struct {
	Price string `json:"price"`
}

type executeSellResult struct {
	Premium uint64 `json:"premium"`
}

type executeBuyResult struct {
	Cost uint64 `json:"cost"`
}

type strikeToTransferResult struct {
	StrikeToTransfer uint64 `json:"strike_to_transfer"`
}

type seriesInfoResult struct {
	Underlying          string `json:"underlying"`
	UnderlyingDecimals  uint8  `json:"underlying_decimals"`
	Strike              string `json:"strike"`
	StrikeDecimals      uint8  `json:"strike_decimals"`
	StrikePrice         uint64 `json:"strike_price"`
	StrikePriceDecimals uint8  `json:"strike_price_decimals"`
	Expiration          string `json:"expiration"`
	State               string `json:"state"`
	TotalLocked         uint64 `json:"total_locked"`
	PooledUnderlying    uint64 `json:"pooled_underlying"`
	TotalSupply         uint64 `json:"total_supply"`
}

type positionResult struct {
	UnderlyingContributed uint64 `json:"underlying_contributed"`
	StrikeContributed     uint64 `json:"strike_contributed"`
	OptionBalance         uint64 `json:"option_balance"`
}
