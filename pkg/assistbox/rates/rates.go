// Package rates provides the crypto_price and fiat_rate tools. Each is a
// single GET against a price provider; the wire shapes follow the CoinGecko
// simple-price and exchangerate latest-rates APIs respectively.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// Quote is the payload returned by crypto_price.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Currency  string  `json:"currency"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
}

// Rate is the payload returned by fiat_rate.
type Rate struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
	Date string  `json:"date,omitempty"`
}

type fiatResponse struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Client queries crypto and fiat price providers.
type Client struct {
	cryptoURL string
	fiatURL   string
	http      *http.Client
}

// New creates a Client for the given provider endpoints.
func New(cryptoURL, fiatURL string) *Client {
	return &Client{
		cryptoURL: cryptoURL,
		fiatURL:   fiatURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Tools returns the crypto_price and fiat_rate tools.
func (c *Client) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "crypto_price",
				Description: "Get the current price of a cryptocurrency, with its 24h change when the provider reports one.",
				Params: []toolbox.Param{
					{Name: "symbol", Type: toolbox.TypeString, Required: true, Description: "Coin identifier, e.g. \"bitcoin\" or \"BTC\""},
					{Name: "currency", Type: toolbox.TypeString, Default: "usd", Description: "Quote currency"},
				},
			},
			Handler: c.handleCrypto,
		},
		{
			Spec: toolbox.Spec{
				Name:        "fiat_rate",
				Description: "Get the exchange rate between two fiat currencies.",
				Params: []toolbox.Param{
					{Name: "from", Type: toolbox.TypeString, Required: true, Description: "Source currency code, e.g. \"USD\""},
					{Name: "to", Type: toolbox.TypeString, Required: true, Description: "Target currency code, e.g. \"JPY\""},
				},
			},
			Handler: c.handleFiat,
		},
	}
}

func (c *Client) handleCrypto(ctx context.Context, args toolbox.Args) (any, error) {
	symbol := strings.ToLower(args.String("symbol"))
	currency := strings.ToLower(args.String("currency"))

	q := url.Values{}
	q.Set("ids", symbol)
	q.Set("vs_currencies", currency)
	q.Set("include_24hr_change", "true")

	// The provider keys the response by coin id; an unknown id is simply
	// absent from the map rather than an HTTP error.
	var body map[string]map[string]float64
	if err := c.getJSON(ctx, c.cryptoURL+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("crypto_price: %w", err)
	}

	coin, ok := body[symbol]
	if !ok {
		return nil, fmt.Errorf("crypto_price: unknown symbol %q", args.String("symbol"))
	}

	price, ok := coin[currency]
	if !ok {
		return nil, fmt.Errorf("crypto_price: currency %q not supported", args.String("currency"))
	}

	return Quote{
		Symbol:    symbol,
		Currency:  currency,
		Price:     price,
		Change24h: coin[currency+"_24h_change"],
	}, nil
}

func (c *Client) handleFiat(ctx context.Context, args toolbox.Args) (any, error) {
	from := strings.ToUpper(args.String("from"))
	to := strings.ToUpper(args.String("to"))

	q := url.Values{}
	q.Set("base", from)
	q.Set("symbols", to)

	var body fiatResponse
	if err := c.getJSON(ctx, c.fiatURL+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("fiat_rate: %w", err)
	}

	rate, ok := body.Rates[to]
	if !ok {
		return nil, fmt.Errorf("fiat_rate: unknown currency %q", args.String("to"))
	}

	return Rate{From: from, To: to, Rate: rate, Date: body.Date}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
