// internal/app/features/jobs/handler.go
package jobs

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/jobboard/internal/app/features/errors"
	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/dalemusser/jobboard/internal/app/system/views"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the job persistence the handlers need. jobstore.Store
// implements it against MongoDB.
type Store interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int) ([]models.Job, error)
	ListAll(ctx context.Context) ([]models.Job, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Job, error)
	ListBidOn(ctx context.Context, bidder primitive.ObjectID) ([]models.Job, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Job, error)
	Create(ctx context.Context, job models.Job) (models.Job, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
	AddBid(ctx context.Context, jobID primitive.ObjectID, bid models.Bid) (models.Bid, error)
	UpdateBid(ctx context.Context, jobID, bidID, bidder primitive.ObjectID, body, amount string) error
	DeleteBid(ctx context.Context, jobID, bidID, bidder primitive.ObjectID) error
	AcceptBid(ctx context.Context, jobID, bidID, owner primitive.ObjectID) error
}

// Prices supplies the header tickers.
type Prices interface {
	Current(ctx context.Context) (ticker.Quote, error)
}

// Handler is the feature-level entry point for jobs and bids.
type Handler struct {
	Store  Store
	Prices Prices
	Views  views.Renderer
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// Now anchors expiry computation and "expires in" text.
	Now func() time.Time
}

// NewHandler constructs a jobs Handler that renders through the template engine.
func NewHandler(store Store, prices Prices, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Prices: prices,
		Views:  views.Templates{},
		ErrLog: errLog,
		Log:    logger,
		Now:    time.Now,
	}
}
