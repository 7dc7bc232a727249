package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default upstream endpoints.
const (
	DefaultBTCUSDURL = "https://apiv2.bitcoinaverage.com/indices/global/ticker/BTCUSD"
	DefaultTRXBTCURL = "https://apiv2.bitcoinaverage.com/indices/tokens/ticker/TRXBTC"
)

// maxBody caps how much of an upstream response we read.
const maxBody = 1 << 20

// Source produces a fresh Quote.
type Source interface {
	Fetch(ctx context.Context) (Quote, error)
}

// Fetcher is the HTTP Source. It requests both tickers concurrently.
type Fetcher struct {
	client *http.Client
	btcURL string
	trxURL string
	now    func() time.Time
}

// NewFetcher returns a Fetcher for the two endpoints. Empty URLs fall back
// to the defaults; a nil client gets one with the given timeout.
func NewFetcher(client *http.Client, btcUSDURL, trxBTCURL string, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if btcUSDURL == "" {
		btcUSDURL = DefaultBTCUSDURL
	}
	if trxBTCURL == "" {
		trxBTCURL = DefaultTRXBTCURL
	}
	return &Fetcher{client: client, btcURL: btcUSDURL, trxURL: trxBTCURL, now: time.Now}
}

// tickerBody is the part of the upstream payload we use.
type tickerBody struct {
	Last *float64 `json:"last"`
}

// Fetch requests both tickers and fails if either fails.
func (f *Fetcher) Fetch(ctx context.Context) (Quote, error) {
	var btc, trx float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := f.last(gctx, f.btcURL)
		btc = v
		return err
	})
	g.Go(func() error {
		v, err := f.last(gctx, f.trxURL)
		trx = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	return Quote{BTCUSD: btc, TRXBTC: trx, FetchedAt: f.now().UTC()}, nil
}

func (f *Fetcher) last(ctx context.Context, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("ticker: build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ticker: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ticker: get %s: failed with status code %d", url, resp.StatusCode)
	}

	var body tickerBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body); err != nil {
		return 0, fmt.Errorf("ticker: decode %s: %w", url, err)
	}
	if body.Last == nil {
		return 0, fmt.Errorf("ticker: %s: response has no last price", url)
	}
	return *body.Last, nil
}
