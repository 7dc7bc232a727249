// Package ticker keeps the BTC/USD and TRX/BTC price quotes shown in the
// page header.
//
// Service is a read-through cache with a TTL; Refresher re-fetches on a cron
// schedule so most requests never wait on the upstream APIs. An optional
// Redis layer lets several processes share one quote.
package ticker

import (
	"strconv"
	"time"
)

// Quote is one snapshot of both tickers.
type Quote struct {
	BTCUSD    float64   `msgpack:"btc_usd" json:"btc_usd"`
	TRXBTC    float64   `msgpack:"trx_btc" json:"trx_btc"`
	FetchedAt time.Time `msgpack:"fetched_at" json:"fetched_at"`
}

// BTCTicker is the BTC/USD last price with four decimals.
func (q Quote) BTCTicker() string {
	return strconv.FormatFloat(q.BTCUSD, 'f', 4, 64)
}

// TRXTicker is the TRX price in USD (TRX/BTC × BTC/USD) with four decimals.
func (q Quote) TRXTicker() string {
	return strconv.FormatFloat(q.BTCUSD*q.TRXBTC, 'f', 4, 64)
}

// IsZero reports whether q was never filled.
func (q Quote) IsZero() bool { return q.FetchedAt.IsZero() }
