// internal/app/features/jobs/view.go
package jobs

import (
	"net/http"
	"net/url"

	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	"github.com/dalemusser/jobboard/internal/app/system/jobform"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeJob renders the detail page. The id is matched case-insensitively;
// the title segment is ignored.
//
// Routes: GET /job/{id}, GET /job/{id}/{title}
func (h *Handler) ServeJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "parse job id", err, "/jobs/1")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load job")
	defer cancel()

	job, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, "load job failed", err, "/jobs/1")
		return
	}

	h.renderJob(w, r, http.StatusOK, job, bidEcho{})
}

// bidEcho carries a rejected bid form back onto the detail page.
type bidEcho struct {
	Input  jobform.BidInput
	BidID  string
	Errors map[string]string
}

func (h *Handler) renderJob(w http.ResponseWriter, r *http.Request, status int, job models.Job, echo bidEcho) {
	base, ok := h.baseVM(w, r, job.Title, "/jobs/1")
	if !ok {
		return
	}

	viewer := primitive.NilObjectID
	if _, uid, err := currentUser(r); err == nil {
		viewer = uid
	}
	isOwner := viewer != primitive.NilObjectID && job.OwnerID == viewer

	data := showData{
		BaseVM:     base,
		Job:        toDetail(job, h.Now()),
		Bids:       toBidRows(job, viewer),
		PathSuffix: job.ID.Hex() + "/" + url.PathEscape(job.Title),
		IsOwner:    isOwner,
		CanBid: viewer != primitive.NilObjectID && !isOwner &&
			job.IsOpen() && !job.HasBidFrom(viewer),
		BidInput:  echo.Input,
		EditBidID: echo.BidID,
		BidErrors: echo.Errors,
	}

	h.Views.Render(w, r, status, "job_show", data)
}
