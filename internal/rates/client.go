package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMalformedQuote = errors.New("malformed rate quote")

// FetchError aborts a refresh before anything is written.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("rate fetch %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("rate fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Quote is a Frankfurter style response: how many units of each currency
// one unit of Base buys.
type Quote struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Latest requests GET {baseURL}/latest?from=base&to=symbols.
func (c *Client) Latest(ctx context.Context, base string, symbols []string) (Quote, error) {
	query := url.Values{}
	query.Set("from", base)
	query.Set("to", strings.Join(symbols, ","))
	endpoint := c.baseURL + "/latest?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, &FetchError{Op: "request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, &FetchError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Quote{}, &FetchError{Op: "response", StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(body)))}
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return Quote{}, &FetchError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrMalformedQuote, err)}
	}
	if len(quote.Rates) == 0 {
		return Quote{}, &FetchError{Op: "decode", Err: fmt.Errorf("%w: no rates", ErrMalformedQuote)}
	}
	if quote.Base == "" {
		quote.Base = base
	}
	return quote, nil
}
