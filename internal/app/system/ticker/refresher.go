package ticker

import (
	"context"
	"fmt"

	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRefreshSpec re-fetches the tickers every five minutes.
const DefaultRefreshSpec = "@every 5m"

// Refresher wraps robfig/cron and keeps the Service warm.
type Refresher struct {
	cron *cron.Cron
	svc  *Service
	spec string
	log  *zap.Logger
}

// ValidateSpec reports whether spec is a usable schedule.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid ticker refresh spec %q: %w", spec, err)
	}
	return nil
}

// NewRefresher creates a Refresher firing on spec (DefaultRefreshSpec when empty).
func NewRefresher(svc *Service, spec string, logger *zap.Logger) *Refresher {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	return &Refresher{
		cron: cron.New(),
		svc:  svc,
		spec: spec,
		log:  logger,
	}
}

// Start registers the job and starts the scheduler. It also prefetches once
// immediately so the first page render finds a quote.
func (r *Refresher) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.spec, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	r.cron.Start()
	r.log.Info("ticker refresher started", zap.String("spec", r.spec))

	go r.run(ctx)
	return nil
}

// Stop shuts the scheduler down and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info("ticker refresher stopped")
}

func (r *Refresher) run(ctx context.Context) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), r.log, "ticker refresh")
	defer cancel()

	if err := r.svc.Refresh(ctx); err != nil {
		r.log.Warn("ticker refresh failed", zap.Error(err))
	}
}
