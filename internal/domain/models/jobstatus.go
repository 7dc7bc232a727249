// internal/domain/models/jobstatus.go
package models

// Award state machines.
//
// Job:
//
//	open ──► awarded
//
// Bid:
//
//	awaiting ──► accepted   (this bid was chosen)
//	    │
//	    └──────► rejected   (a sibling bid was chosen)
//
// awarded, accepted and rejected are terminal. A bid may only be edited or
// withdrawn while it is awaiting.

// JobStatus is a Job's award status.
type JobStatus string

// BidStatus is a Bid's award status.
type BidStatus string

const (
	JobOpen    JobStatus = "open"
	JobAwarded JobStatus = "awarded"

	BidAwaiting BidStatus = "awaiting"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen: {JobAwarded},
}

var bidTransitions = map[BidStatus][]BidStatus{
	BidAwaiting: {BidAccepted, BidRejected},
}

// CanJobTransition reports whether a job may move from → to.
func CanJobTransition(from, to JobStatus) bool {
	for _, s := range jobTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanBidTransition reports whether a bid may move from → to.
func CanBidTransition(from, to BidStatus) bool {
	for _, s := range bidTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BidStatus) IsTerminal() bool {
	return len(bidTransitions[s]) == 0
}
