// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job is a work posting owned by one User. It lives in the jobs collection
// keyed by its own _id; OwnerID points back at the employer.
//
// Bids are embedded: a Bid never exists outside its Job, and keeping them in
// the same document lets an award be a single conditional update.
type Job struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerName string             `bson:"owner_name,omitempty" json:"owner_name,omitempty"`

	Title        string   `bson:"title" json:"title"`
	TitleCI      string   `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Description  string   `bson:"description" json:"description"`
	WorkType     string   `bson:"work_type" json:"work_type"`
	Budget       string   `bson:"budget" json:"budget"` // as entered; numeric or free text
	Skills       []string `bson:"skills" json:"skills"`
	Availability string   `bson:"availability" json:"availability"`

	// End is the posting expiry. Nil means the job never expires.
	// Expiry is informational only; it does not drive a status change.
	End *time.Time `bson:"end,omitempty" json:"end,omitempty"`

	AwardStatus  JobStatus           `bson:"award_status" json:"award_status"`
	AwardedBidID *primitive.ObjectID `bson:"awarded_bid_id,omitempty" json:"awarded_bid_id,omitempty"`
	AwardedAt    *time.Time          `bson:"awarded_at,omitempty" json:"awarded_at,omitempty"`

	Bids []Bid `bson:"bids" json:"bids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Bid is a proposal a User submits against a Job. BidderID is a reference,
// not ownership; the Job owns the Bid.
type Bid struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Body        string             `bson:"body" json:"body"`
	Amount      string             `bson:"amount" json:"amount"`
	BidderID    primitive.ObjectID `bson:"bidder_id" json:"bidder_id"`
	BidderName  string             `bson:"bidder_name,omitempty" json:"bidder_name,omitempty"`
	AwardStatus BidStatus          `bson:"award_status" json:"award_status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// FindBid returns the bid with the given id, or nil.
func (j *Job) FindBid(id primitive.ObjectID) *Bid {
	for i := range j.Bids {
		if j.Bids[i].ID == id {
			return &j.Bids[i]
		}
	}
	return nil
}

// HasBidFrom reports whether the user already has a bid on this job.
func (j *Job) HasBidFrom(userID primitive.ObjectID) bool {
	for _, b := range j.Bids {
		if b.BidderID == userID {
			return true
		}
	}
	return false
}

// IsOpen reports whether the job still accepts bids and can be awarded.
// A document without a recognized status is not open.
func (j *Job) IsOpen() bool {
	return CanJobTransition(j.AwardStatus, JobAwarded)
}
