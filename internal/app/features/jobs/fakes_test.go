package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same error contract as
// jobstore.Store.
type memStore struct {
	mu   sync.Mutex
	jobs []models.Job
	fail error
}

func (m *memStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	return int64(len(m.jobs)), nil
}

func (m *memStore) List(ctx context.Context, skip, limit int) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if skip >= len(m.jobs) || limit <= 0 {
		return []models.Job{}, nil
	}
	end := skip + limit
	if end > len(m.jobs) {
		end = len(m.jobs)
	}
	return append([]models.Job(nil), m.jobs[skip:end]...), nil
}

func (m *memStore) ListAll(ctx context.Context) ([]models.Job, error) {
	return m.filter(func(models.Job) bool { return true }), nil
}

func (m *memStore) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Job, error) {
	return m.filter(func(j models.Job) bool { return j.OwnerID == owner }), nil
}

func (m *memStore) ListBidOn(ctx context.Context, bidder primitive.ObjectID) ([]models.Job, error) {
	return m.filter(func(j models.Job) bool { return j.HasBidFrom(bidder) }), nil
}

func (m *memStore) filter(keep func(models.Job) bool) []models.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Job{}
	for _, j := range m.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

func (m *memStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j := m.find(id); j != nil {
		return *j, nil
	}
	return models.Job{}, jobstore.ErrNotFound
}

func (m *memStore) find(id primitive.ObjectID) *models.Job {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			return &m.jobs[i]
		}
	}
	return nil
}

func (m *memStore) Create(ctx context.Context, job models.Job) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return models.Job{}, m.fail
	}
	now := time.Now().UTC()
	job.ID = primitive.NewObjectID()
	job.TitleCI = text.Fold(job.Title)
	job.AwardStatus = models.JobOpen
	job.Bids = []models.Bid{}
	job.CreatedAt, job.UpdatedAt = now, now
	m.jobs = append(m.jobs, job)
	return job, nil
}

func (m *memStore) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.jobs {
		if j.ID != id {
			continue
		}
		if j.OwnerID != owner {
			return jobstore.ErrForbidden
		}
		m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
		return nil
	}
	return jobstore.ErrNotFound
}

func (m *memStore) AddBid(ctx context.Context, jobID primitive.ObjectID, bid models.Bid) (models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.find(jobID)
	switch {
	case j == nil:
		return models.Bid{}, jobstore.ErrNotFound
	case !j.IsOpen():
		return models.Bid{}, jobstore.ErrAlreadyAwarded
	case j.OwnerID == bid.BidderID:
		return models.Bid{}, jobstore.ErrSelfBid
	case j.HasBidFrom(bid.BidderID):
		return models.Bid{}, jobstore.ErrDuplicateBid
	}
	bid.ID = primitive.NewObjectID()
	bid.AwardStatus = models.BidAwaiting
	j.Bids = append(j.Bids, bid)
	return bid, nil
}

func (m *memStore) bidFor(jobID, bidID, bidder primitive.ObjectID) (*models.Job, *models.Bid, error) {
	j := m.find(jobID)
	if j == nil {
		return nil, nil, jobstore.ErrNotFound
	}
	b := j.FindBid(bidID)
	switch {
	case b == nil:
		return nil, nil, jobstore.ErrBidNotFound
	case b.BidderID != bidder:
		return nil, nil, jobstore.ErrForbidden
	case b.AwardStatus != models.BidAwaiting:
		return nil, nil, jobstore.ErrBidClosed
	}
	return j, b, nil
}

func (m *memStore) UpdateBid(ctx context.Context, jobID, bidID, bidder primitive.ObjectID, body, amount string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, b, err := m.bidFor(jobID, bidID, bidder)
	if err != nil {
		return err
	}
	b.Body, b.Amount = body, amount
	return nil
}

func (m *memStore) DeleteBid(ctx context.Context, jobID, bidID, bidder primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, _, err := m.bidFor(jobID, bidID, bidder)
	if err != nil {
		return err
	}
	kept := j.Bids[:0]
	for _, b := range j.Bids {
		if b.ID != bidID {
			kept = append(kept, b)
		}
	}
	j.Bids = kept
	return nil
}

func (m *memStore) AcceptBid(ctx context.Context, jobID, bidID, owner primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.find(jobID)
	switch {
	case j == nil:
		return jobstore.ErrNotFound
	case j.OwnerID != owner:
		return jobstore.ErrForbidden
	case !j.IsOpen():
		return jobstore.ErrAlreadyAwarded
	case j.FindBid(bidID) == nil:
		return jobstore.ErrBidNotFound
	}
	j.AwardStatus = models.JobAwarded
	j.AwardedBidID = &bidID
	for i := range j.Bids {
		if j.Bids[i].ID == bidID {
			j.Bids[i].AwardStatus = models.BidAccepted
		} else if j.Bids[i].AwardStatus == models.BidAwaiting {
			j.Bids[i].AwardStatus = models.BidRejected
		}
	}
	return nil
}

// seed adds n open jobs owned by owner, oldest first.
func (m *memStore) seed(owner primitive.ObjectID, n int) {
	for i := 0; i < n; i++ {
		_, _ = m.Create(context.Background(), models.Job{
			OwnerID:  owner,
			Title:    "Seeded job",
			Skills:   []string{"go"},
			WorkType: "remote",
			Budget:   "10",
		})
	}
}

type stubPrices struct {
	quote ticker.Quote
	err   error
}

func (p stubPrices) Current(ctx context.Context) (ticker.Quote, error) {
	return p.quote, p.err
}

var errStoreDown = errors.New("store down")
