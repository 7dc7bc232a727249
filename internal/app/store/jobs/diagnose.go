package jobstore

import (
	"github.com/dalemusser/jobboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The diagnose helpers run against a re-read job after a conditional update
// matched no document. A nil job means it does not exist.

func diagnoseDelete(job *models.Job, owner primitive.ObjectID) error {
	if job == nil {
		return ErrNotFound
	}
	if job.OwnerID != owner {
		return ErrForbidden
	}
	return errLostRace
}

func diagnoseAddBid(job *models.Job, bidder primitive.ObjectID) error {
	switch {
	case job == nil:
		return ErrNotFound
	case !models.CanJobTransition(job.AwardStatus, models.JobAwarded):
		return ErrAlreadyAwarded
	case job.OwnerID == bidder:
		return ErrSelfBid
	case job.HasBidFrom(bidder):
		return ErrDuplicateBid
	}
	return errLostRace
}

func diagnoseBidChange(job *models.Job, bidID, bidder primitive.ObjectID) error {
	if job == nil {
		return ErrNotFound
	}
	bid := job.FindBid(bidID)
	switch {
	case bid == nil:
		return ErrBidNotFound
	case bid.BidderID != bidder:
		return ErrForbidden
	case bid.AwardStatus.IsTerminal():
		return ErrBidClosed
	}
	return errLostRace
}

func diagnoseAccept(job *models.Job, bidID, owner primitive.ObjectID) error {
	switch {
	case job == nil:
		return ErrNotFound
	case job.OwnerID != owner:
		return ErrForbidden
	case !models.CanJobTransition(job.AwardStatus, models.JobAwarded):
		return ErrAlreadyAwarded
	}
	bid := job.FindBid(bidID)
	switch {
	case bid == nil:
		return ErrBidNotFound
	case !models.CanBidTransition(bid.AwardStatus, models.BidAccepted):
		return ErrBidClosed
	}
	return errLostRace
}
