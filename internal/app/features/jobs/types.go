// internal/app/features/jobs/types.go
package jobs

import (
	"html/template"
	"time"

	"github.com/dalemusser/jobboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/jobboard/internal/app/system/jobform"
	"github.com/dalemusser/jobboard/internal/app/system/paging"
	"github.com/dalemusser/jobboard/internal/app/system/viewdata"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/dustin/go-humanize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// jobRow is one job in a listing.
type jobRow struct {
	ID        string
	Title     string
	URL       string
	OwnerName string
	WorkType  string
	Budget    string
	Skills    []string
	BidCount  int
	Status    string
	Posted    string
	ExpiresIn string
}

type listData struct {
	viewdata.BaseVM

	Jobs   []jobRow
	Window paging.Window

	PrevURL string
	NextURL string
}

type projectsData struct {
	viewdata.BaseVM

	Scope string
	Jobs  []jobRow
}

type newJobData struct {
	viewdata.BaseVM

	Input  jobform.JobInput
	Errors map[string]string
}

// bidRow is one bid on the detail page.
type bidRow struct {
	ID         string
	Body       template.HTML
	RawBody    string
	Amount     string
	BidderName string
	Status     string
	IsMine     bool
	IsAccepted bool
	Editable   bool
}

type jobDetail struct {
	ID           string
	Title        string
	Description  template.HTML
	Budget       string
	WorkType     string
	Skills       []string
	Availability string
	OwnerName    string
	Status       string
	IsOpen       bool
	Posted       string
	Expires      string
	ExpiresIn    string
	Expired      bool
}

type showData struct {
	viewdata.BaseVM

	Job        jobDetail
	Bids       []bidRow
	PathSuffix string

	IsOwner bool
	CanBid  bool

	// Echoed bid form after a failed create or update.
	BidInput  jobform.BidInput
	EditBidID string
	BidErrors map[string]string
}

func statusLabel(s models.JobStatus) string {
	switch s {
	case models.JobOpen:
		return "Open"
	case models.JobAwarded:
		return "Awarded"
	}
	return "Closed"
}

func bidStatusLabel(s models.BidStatus) string {
	switch s {
	case models.BidAccepted:
		return "Accepted"
	case models.BidRejected:
		return "Rejected"
	}
	return "Awaiting"
}

func expiresIn(end *time.Time, now time.Time) string {
	if end == nil {
		return ""
	}
	return humanize.RelTime(*end, now, "ago", "from now")
}

func toRows(jobs []models.Job, now time.Time) []jobRow {
	rows := make([]jobRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, jobRow{
			ID:        j.ID.Hex(),
			Title:     j.Title,
			URL:       jobPath(j.ID, j.Title),
			OwnerName: j.OwnerName,
			WorkType:  j.WorkType,
			Budget:    j.Budget,
			Skills:    j.Skills,
			BidCount:  len(j.Bids),
			Status:    statusLabel(j.AwardStatus),
			Posted:    humanize.RelTime(j.CreatedAt, now, "ago", "from now"),
			ExpiresIn: expiresIn(j.End, now),
		})
	}
	return rows
}

func toDetail(j models.Job, now time.Time) jobDetail {
	d := jobDetail{
		ID:           j.ID.Hex(),
		Title:        j.Title,
		Description:  htmlsanitize.Render(j.Description),
		Budget:       j.Budget,
		WorkType:     j.WorkType,
		Skills:       j.Skills,
		Availability: j.Availability,
		OwnerName:    j.OwnerName,
		Status:       statusLabel(j.AwardStatus),
		IsOpen:       j.IsOpen(),
		Posted:       humanize.RelTime(j.CreatedAt, now, "ago", "from now"),
	}
	if j.End != nil {
		d.Expires = j.End.Format("Jan 2, 2006")
		d.ExpiresIn = expiresIn(j.End, now)
		d.Expired = j.End.Before(now)
	}
	return d
}

func toBidRows(j models.Job, viewer primitive.ObjectID) []bidRow {
	rows := make([]bidRow, 0, len(j.Bids))
	for _, b := range j.Bids {
		mine := viewer != primitive.NilObjectID && b.BidderID == viewer
		rows = append(rows, bidRow{
			ID:         b.ID.Hex(),
			Body:       htmlsanitize.Render(b.Body),
			RawBody:    b.Body,
			Amount:     b.Amount,
			BidderName: b.BidderName,
			Status:     bidStatusLabel(b.AwardStatus),
			IsMine:     mine,
			IsAccepted: b.AwardStatus == models.BidAccepted,
			Editable:   mine && !b.AwardStatus.IsTerminal(),
		})
	}
	return rows
}
