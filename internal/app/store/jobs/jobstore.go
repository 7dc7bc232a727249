// internal/app/store/jobs/jobstore.go
package jobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound       = errors.New("job not found")
	ErrBidNotFound    = errors.New("bid not found")
	ErrForbidden      = errors.New("not allowed to modify this job or bid")
	ErrAlreadyAwarded = errors.New("job has already been awarded")
	ErrBidClosed      = errors.New("bid is no longer awaiting a decision")
	ErrSelfBid        = errors.New("cannot bid on your own job")
	ErrDuplicateBid   = errors.New("you already have a bid on this job")

	// errLostRace means a conditional update matched nothing although a
	// re-read shows no reason for it; a concurrent writer got there first.
	errLostRace = errors.New("job changed concurrently")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("jobs")}
}

// ParseID turns a path or form id into an ObjectID. Hex is accepted in
// either case. Anything malformed is ErrNotFound.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

// ParseBidID is ParseID for bid ids; malformed is ErrBidNotFound.
func ParseBidID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return primitive.NilObjectID, ErrBidNotFound
	}
	return id, nil
}

// Create inserts a new open job with no bids.
func (s *Store) Create(ctx context.Context, job models.Job) (models.Job, error) {
	now := time.Now().UTC()
	job.ID = primitive.NewObjectID()
	job.TitleCI = text.Fold(job.Title)
	job.AwardStatus = models.JobOpen
	job.AwardedBidID = nil
	job.AwardedAt = nil
	job.Bids = []models.Bid{}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	job.CreatedAt = now
	job.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, job); err != nil {
		return models.Job{}, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// GetByID loads one job.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Job, error) {
	var job models.Job
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Job{}, ErrNotFound
	}
	if err != nil {
		return models.Job{}, fmt.Errorf("find job: %w", err)
	}
	return job, nil
}

// Count returns the number of jobs on the board.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// List returns one page of jobs in creation order.
func (s *Store) List(ctx context.Context, skip, limit int) ([]models.Job, error) {
	if limit <= 0 {
		return []models.Job{}, nil
	}
	opts := options.Find().
		SetSort(creationOrder()).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	return s.find(ctx, bson.M{}, opts)
}

// ListAll returns every job in creation order.
func (s *Store) ListAll(ctx context.Context) ([]models.Job, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(creationOrder()))
}

// ListByOwner returns the jobs posted by owner.
func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Job, error) {
	return s.find(ctx, bson.M{"owner_id": owner}, options.Find().SetSort(creationOrder()))
}

// ListBidOn returns the jobs bidder has a bid on.
func (s *Store) ListBidOn(ctx context.Context, bidder primitive.ObjectID) ([]models.Job, error) {
	return s.find(ctx, bson.M{"bids.bidder_id": bidder}, options.Find().SetSort(creationOrder()))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Job, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := []models.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}

func creationOrder() bson.D {
	return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
}

// Delete removes a job owned by owner.
func (s *Store) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "owner_id": owner})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 1 {
		return nil
	}
	return s.explain(ctx, id, func(job *models.Job) error {
		return diagnoseDelete(job, owner)
	})
}

// AddBid appends an awaiting bid from bid.BidderID. The job must be open,
// not owned by the bidder, and not already carry a bid from them.
func (s *Store) AddBid(ctx context.Context, jobID primitive.ObjectID, bid models.Bid) (models.Bid, error) {
	now := time.Now().UTC()
	bid.ID = primitive.NewObjectID()
	bid.AwardStatus = models.BidAwaiting
	bid.CreatedAt = now
	bid.UpdatedAt = now

	filter := bson.M{
		"_id":            jobID,
		"award_status":   models.JobOpen,
		"owner_id":       bson.M{"$ne": bid.BidderID},
		"bids.bidder_id": bson.M{"$ne": bid.BidderID},
	}
	update := bson.M{
		"$push": bson.M{"bids": bid},
		"$set":  bson.M{"updated_at": now},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.Bid{}, fmt.Errorf("add bid: %w", err)
	}
	if res.MatchedCount == 1 {
		return bid, nil
	}
	return models.Bid{}, s.explain(ctx, jobID, func(job *models.Job) error {
		return diagnoseAddBid(job, bid.BidderID)
	})
}

// UpdateBid rewrites the body and amount of an awaiting bid owned by bidder.
func (s *Store) UpdateBid(ctx context.Context, jobID, bidID, bidder primitive.ObjectID, body, amount string) error {
	now := time.Now().UTC()
	filter := bson.M{
		"_id": jobID,
		"bids": bson.M{"$elemMatch": bson.M{
			"_id":          bidID,
			"bidder_id":    bidder,
			"award_status": models.BidAwaiting,
		}},
	}
	update := bson.M{"$set": bson.M{
		"bids.$[b].body":       body,
		"bids.$[b].amount":     amount,
		"bids.$[b].updated_at": now,
		"updated_at":           now,
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"b._id": bidID}},
	})

	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("update bid: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	return s.explain(ctx, jobID, func(job *models.Job) error {
		return diagnoseBidChange(job, bidID, bidder)
	})
}

// DeleteBid removes an awaiting bid owned by bidder.
func (s *Store) DeleteBid(ctx context.Context, jobID, bidID, bidder primitive.ObjectID) error {
	filter := bson.M{
		"_id": jobID,
		"bids": bson.M{"$elemMatch": bson.M{
			"_id":          bidID,
			"bidder_id":    bidder,
			"award_status": models.BidAwaiting,
		}},
	}
	update := bson.M{
		"$pull": bson.M{"bids": bson.M{"_id": bidID, "award_status": models.BidAwaiting}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	return s.explain(ctx, jobID, func(job *models.Job) error {
		return diagnoseBidChange(job, bidID, bidder)
	})
}

// AcceptBid awards the job to bidID in a single conditional update: the job
// becomes awarded, the chosen bid accepted, and every other awaiting bid
// rejected. Of two concurrent accepts exactly one matches.
func (s *Store) AcceptBid(ctx context.Context, jobID, bidID, owner primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":          jobID,
		"owner_id":     owner,
		"award_status": models.JobOpen,
		"bids._id":     bidID,
	}
	update := bson.M{"$set": bson.M{
		"award_status":               models.JobAwarded,
		"awarded_bid_id":             bidID,
		"awarded_at":                 now,
		"updated_at":                 now,
		"bids.$[win].award_status":   models.BidAccepted,
		"bids.$[win].updated_at":     now,
		"bids.$[other].award_status": models.BidRejected,
		"bids.$[other].updated_at":   now,
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"win._id": bidID},
			bson.M{"other._id": bson.M{"$ne": bidID}, "other.award_status": models.BidAwaiting},
		},
	})

	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("accept bid: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	return s.explain(ctx, jobID, func(job *models.Job) error {
		return diagnoseAccept(job, bidID, owner)
	})
}

// explain re-reads the job after a conditional write matched nothing and
// turns the reason into a sentinel error.
func (s *Store) explain(ctx context.Context, id primitive.ObjectID, diagnose func(*models.Job) error) error {
	job, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return diagnose(nil)
	}
	if err != nil {
		return err
	}
	return diagnose(&job)
}
