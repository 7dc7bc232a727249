package models_test

import (
	"testing"

	"github.com/dalemusser/jobboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ── transitions ───────────────────────────────────────────────────────────

func TestCanJobTransition(t *testing.T) {
	if !models.CanJobTransition(models.JobOpen, models.JobAwarded) {
		t.Error("open → awarded should be allowed")
	}
	if models.CanJobTransition(models.JobAwarded, models.JobOpen) {
		t.Error("awarded → open should not be allowed")
	}
	if models.CanJobTransition(models.JobAwarded, models.JobAwarded) {
		t.Error("awarded → awarded should not be allowed (no re-award)")
	}
}

func TestCanBidTransition(t *testing.T) {
	cases := []struct {
		from, to models.BidStatus
		want     bool
	}{
		{models.BidAwaiting, models.BidAccepted, true},
		{models.BidAwaiting, models.BidRejected, true},
		{models.BidAccepted, models.BidRejected, false},
		{models.BidRejected, models.BidAccepted, false},
		{models.BidAccepted, models.BidAwaiting, false},
		{models.BidAwaiting, models.BidAwaiting, false},
	}
	for _, c := range cases {
		if got := models.CanBidTransition(c.from, c.to); got != c.want {
			t.Errorf("CanBidTransition(%s → %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestBidStatus_IsTerminal(t *testing.T) {
	if models.BidAwaiting.IsTerminal() {
		t.Error("awaiting should not be terminal")
	}
	if !models.BidAccepted.IsTerminal() || !models.BidRejected.IsTerminal() {
		t.Error("accepted and rejected should be terminal")
	}
}

// ── Job helpers ───────────────────────────────────────────────────────────

func TestJob_FindBidAndHasBidFrom(t *testing.T) {
	bidder := primitive.NewObjectID()
	b1 := models.Bid{ID: primitive.NewObjectID(), BidderID: bidder, AwardStatus: models.BidAwaiting}
	job := models.Job{Bids: []models.Bid{b1}}

	if got := job.FindBid(b1.ID); got == nil || got.ID != b1.ID {
		t.Errorf("FindBid(%s) = %v", b1.ID.Hex(), got)
	}
	if job.FindBid(primitive.NewObjectID()) != nil {
		t.Error("FindBid on unknown id should return nil")
	}
	if !job.HasBidFrom(bidder) {
		t.Error("HasBidFrom(bidder) should be true")
	}
	if job.HasBidFrom(primitive.NewObjectID()) {
		t.Error("HasBidFrom(stranger) should be false")
	}
}

func TestJob_IsOpen(t *testing.T) {
	if (&models.Job{}).IsOpen() {
		t.Error("a job without a status should not count as open")
	}
	if (&models.Job{AwardStatus: "closed"}).IsOpen() {
		t.Error("a job with an unknown status should not count as open")
	}
	if !(&models.Job{AwardStatus: models.JobOpen}).IsOpen() {
		t.Error("open job should be open")
	}
	if (&models.Job{AwardStatus: models.JobAwarded}).IsOpen() {
		t.Error("awarded job should not be open")
	}
}
