// internal/app/features/jobs/bids.go
package jobs

import (
	"net/http"

	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	"github.com/dalemusser/jobboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/jobboard/internal/app/system/jobform"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// bidRequest is what every bid route needs before touching the store.
type bidRequest struct {
	userName string
	userID   primitive.ObjectID
	jobID    primitive.ObjectID
	back     string
}

// prepareBid parses the form, the caller and the {id}/{title} path. It
// writes the error response itself and returns false on failure.
func (h *Handler) prepareBid(w http.ResponseWriter, r *http.Request, op string) (bidRequest, bool) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, op+": parse form failed", err, "Invalid form data.", "/jobs/1")
		return bidRequest{}, false
	}
	user, uid, err := currentUser(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, op+": no session user", err, userMessage(err), "/jobs/1")
		return bidRequest{}, false
	}
	jobID, err := jobstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, op+": bad job id", err, "/jobs/1")
		return bidRequest{}, false
	}
	return bidRequest{
		userName: user.Name,
		userID:   uid,
		jobID:    jobID,
		back:     jobPath(jobID, titleParam(r)),
	}, true
}

// HandleCreateBid appends an awaiting bid from the caller.
//
// Route: POST /create-bid/{id}/{title} (form fields body, amount)
func (h *Handler) HandleCreateBid(w http.ResponseWriter, r *http.Request) {
	req, ok := h.prepareBid(w, r, "create bid")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create bid")
	defer cancel()

	in := jobform.BidInputFromForm(r.PostForm)
	if res := jobform.ValidateBid(in); res.HasErrors() {
		h.rerenderWithBidErrors(w, r, req, bidEcho{Input: in, Errors: res.Fields()})
		return
	}

	bid, err := h.Store.AddBid(ctx, req.jobID, models.Bid{
		Body:       htmlsanitize.Clean(in.Body),
		Amount:     in.Amount,
		BidderID:   req.userID,
		BidderName: req.userName,
	})
	if err != nil {
		h.fail(w, r, "create bid failed", err, req.back)
		return
	}

	h.Log.Info("bid created",
		zap.String("job_id", req.jobID.Hex()),
		zap.String("bid_id", bid.ID.Hex()),
		zap.String("bidder_id", req.userID.Hex()))
	http.Redirect(w, r, req.back, http.StatusSeeOther)
}

// HandleUpdateBid rewrites the caller's awaiting bid.
//
// Route: POST /update-bid/{id}/{title} (form fields bId, body, amount)
func (h *Handler) HandleUpdateBid(w http.ResponseWriter, r *http.Request) {
	req, ok := h.prepareBid(w, r, "update bid")
	if !ok {
		return
	}
	bidID, err := jobstore.ParseBidID(r.PostForm.Get("bId"))
	if err != nil {
		h.fail(w, r, "update bid: bad bid id", err, req.back)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update bid")
	defer cancel()

	in := jobform.BidInputFromForm(r.PostForm)
	if res := jobform.ValidateBid(in); res.HasErrors() {
		h.rerenderWithBidErrors(w, r, req, bidEcho{Input: in, BidID: bidID.Hex(), Errors: res.Fields()})
		return
	}

	if err := h.Store.UpdateBid(ctx, req.jobID, bidID, req.userID, htmlsanitize.Clean(in.Body), in.Amount); err != nil {
		h.fail(w, r, "update bid failed", err, req.back)
		return
	}

	h.Log.Info("bid updated", zap.String("job_id", req.jobID.Hex()), zap.String("bid_id", bidID.Hex()))
	http.Redirect(w, r, req.back, http.StatusSeeOther)
}

// HandleDeleteBid withdraws the caller's awaiting bid.
//
// Route: POST /delete-bid/{id}/{title} (form field bId)
func (h *Handler) HandleDeleteBid(w http.ResponseWriter, r *http.Request) {
	req, ok := h.prepareBid(w, r, "delete bid")
	if !ok {
		return
	}
	bidID, err := jobstore.ParseBidID(r.PostForm.Get("bId"))
	if err != nil {
		h.fail(w, r, "delete bid: bad bid id", err, req.back)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete bid")
	defer cancel()

	if err := h.Store.DeleteBid(ctx, req.jobID, bidID, req.userID); err != nil {
		h.fail(w, r, "delete bid failed", err, req.back)
		return
	}

	h.Log.Info("bid deleted", zap.String("job_id", req.jobID.Hex()), zap.String("bid_id", bidID.Hex()))
	http.Redirect(w, r, req.back, http.StatusSeeOther)
}

// HandleAcceptBid awards the job to one bid. Only the job owner may accept,
// and only while the job is open; sibling bids are rejected in the same write.
//
// Route: POST /accept-bid/{id}/{title} (form field bId)
func (h *Handler) HandleAcceptBid(w http.ResponseWriter, r *http.Request) {
	req, ok := h.prepareBid(w, r, "accept bid")
	if !ok {
		return
	}
	bidID, err := jobstore.ParseBidID(r.PostForm.Get("bId"))
	if err != nil {
		h.fail(w, r, "accept bid: bad bid id", err, req.back)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "accept bid")
	defer cancel()

	if err := h.Store.AcceptBid(ctx, req.jobID, bidID, req.userID); err != nil {
		h.fail(w, r, "accept bid failed", err, req.back)
		return
	}

	h.Log.Info("job awarded",
		zap.String("job_id", req.jobID.Hex()),
		zap.String("bid_id", bidID.Hex()),
		zap.String("owner_id", req.userID.Hex()))
	http.Redirect(w, r, req.back, http.StatusSeeOther)
}

// rerenderWithBidErrors shows the detail page again with a 422 and the
// rejected bid form.
func (h *Handler) rerenderWithBidErrors(w http.ResponseWriter, r *http.Request, req bidRequest, echo bidEcho) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reload job")
	defer cancel()

	job, err := h.Store.GetByID(ctx, req.jobID)
	if err != nil {
		h.fail(w, r, "reload job failed", err, "/jobs/1")
		return
	}
	h.renderJob(w, r, http.StatusUnprocessableEntity, job, echo)
}
