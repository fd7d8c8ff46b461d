package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPVenue is a Venue over a JSON HTTP service. Each call POSTs the symbol
// and amount to one endpoint under the base URL: /quote prices, /sell and
// /buy execute and settle the premium on the venue's side.
type HTTPVenue struct {
	baseURL string
	account string
	client  *http.Client
}

var _ Venue = (*HTTPVenue)(nil)

// NewHTTPVenue creates an HTTPVenue against baseURL. account is the venue's
// account on the option token book.
func NewHTTPVenue(baseURL, account string) *HTTPVenue {
	return &HTTPVenue{
		baseURL: strings.TrimRight(baseURL, "/"),
		account: account,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Address returns the venue's account on the option token book.
func (v *HTTPVenue) Address() string {
	return v.account
}

type venueRequest struct {
	Symbol string `json:"symbol"`
	Amount uint64 `json:"amount"`
}

type venueQuoteResponse struct {
	Price string `json:"price"`
}

type venueExecResponse struct {
	Premium uint64 `json:"premium"`
}

// Quote prices amount option tokens via POST /quote.
func (v *HTTPVenue) Quote(symbol string, amount uint64) (decimal.Decimal, error) {
	var resp venueQuoteResponse
	if err := v.post("/quote", venueRequest{Symbol: symbol, Amount: amount}, &resp); err != nil {
		return decimal.Zero, err
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("venue quote: bad price %q: %w", resp.Price, err)
	}
	return price, nil
}

// Sell delivers amount option tokens to the venue via POST /sell and
// returns the premium obtained.
func (v *HTTPVenue) Sell(symbol string, amount uint64) (uint64, error) {
	var resp venueExecResponse
	if err := v.post("/sell", venueRequest{Symbol: symbol, Amount: amount}, &resp); err != nil {
		return 0, err
	}
	return resp.Premium, nil
}

// Buy sources amount option tokens from the venue via POST /buy and
// returns the premium charged.
func (v *HTTPVenue) Buy(symbol string, amount uint64) (uint64, error) {
	var resp venueExecResponse
	if err := v.post("/buy", venueRequest{Symbol: symbol, Amount: amount}, &resp); err != nil {
		return 0, err
	}
	return resp.Premium, nil
}

func (v *HTTPVenue) post(path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("venue %s: failed to encode request: %w", path, err)
	}

	req, err := http.NewRequest(http.MethodPost, v.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("venue %s: failed to create request: %w", path, err)
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Content-Type", "application/json")

	res, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("venue %s: request failed: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("venue %s: unexpected status: %s", path, res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(respBody); err != nil {
		return fmt.Errorf("venue %s: failed to decode response: %w", path, err)
	}
	return nil
}
