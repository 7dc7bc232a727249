package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Snapshotter is satisfied by *ticker.Service.
type Snapshotter interface {
	Snapshot() ticker.Quote
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client Pinger
	Prices Snapshotter
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, price cache and logger.
func NewHandler(client Pinger, prices Snapshotter, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Prices: prices,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string        `json:"status"`
	Database string        `json:"database"`
	Ticker   *tickerStatus `json:"ticker,omitempty"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type tickerStatus struct {
	Cached    bool       `json:"cached"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "ticker":{"cached":true,"fetched_at":"…"} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
//
// A missing price quote is informational only; pages degrade to 502 on their own.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Prices != nil {
		ts := &tickerStatus{}
		if q := h.Prices.Snapshot(); !q.IsZero() {
			at := q.FetchedAt
			ts.Cached = true
			ts.FetchedAt = &at
		}
		resp.Ticker = ts
	}

	_ = json.NewEncoder(w).Encode(resp)
}
