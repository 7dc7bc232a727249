// internal/app/features/jobs/helpers.go
package jobs

import (
	"errors"
	"net/http"
	"net/url"

	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/dalemusser/jobboard/internal/app/system/paging"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNoSessionUser = errors.New("session user id is not a valid ObjectID")

// baseVM builds the shared view model including the tickers. When no quote
// can be obtained it writes a 502 and returns false.
func (h *Handler) baseVM(w http.ResponseWriter, r *http.Request, title, backURL string) (viewdata.BaseVM, bool) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "ticker quote")
	defer cancel()

	q, err := h.Prices.Current(ctx)
	if err != nil {
		h.ErrLog.LogUpstreamError(w, r, "ticker quote unavailable", err,
			"Price data is temporarily unavailable. Please try again shortly.", backURL)
		return viewdata.BaseVM{}, false
	}
	return viewdata.NewBaseVM(r, title, backURL).WithQuote(q), true
}

// currentUser returns the signed-in user and their ObjectID. The routes that
// call it sit behind RequireSignedIn.
func currentUser(r *http.Request) (*auth.SessionUser, primitive.ObjectID, error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return nil, primitive.NilObjectID, errNoSessionUser
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, primitive.NilObjectID, errNoSessionUser
	}
	return u, id, nil
}

// jobPath is the canonical detail URL. The title segment is cosmetic.
func jobPath(id primitive.ObjectID, title string) string {
	return "/job/" + id.Hex() + "/" + url.PathEscape(title)
}

// titleParam returns the decoded {title} path segment.
func titleParam(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// statusFor maps store and paging errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, jobstore.ErrNotFound),
		errors.Is(err, jobstore.ErrBidNotFound),
		errors.Is(err, paging.ErrNoSuchPage):
		return http.StatusNotFound
	case errors.Is(err, jobstore.ErrForbidden),
		errors.Is(err, jobstore.ErrSelfBid):
		return http.StatusForbidden
	case errors.Is(err, jobstore.ErrAlreadyAwarded),
		errors.Is(err, jobstore.ErrBidClosed),
		errors.Is(err, jobstore.ErrDuplicateBid):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, paging.ErrNoSuchPage):
		return "page does not exist"
	case errors.Is(err, jobstore.ErrNotFound):
		return "That job does not exist."
	case errors.Is(err, jobstore.ErrBidNotFound):
		return "That bid does not exist."
	case errors.Is(err, jobstore.ErrSelfBid):
		return "You cannot bid on your own job."
	case errors.Is(err, jobstore.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, jobstore.ErrAlreadyAwarded):
		return "This job has already been awarded."
	case errors.Is(err, jobstore.ErrBidClosed):
		return "This bid has been decided and can no longer be changed."
	case errors.Is(err, jobstore.ErrDuplicateBid):
		return "You already have a bid on this job."
	}
	return "Something went wrong. Please try again."
}

// fail writes the error page matching err.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error, backURL string) {
	msg := userMessage(err)
	switch statusFor(err) {
	case http.StatusNotFound:
		h.ErrLog.LogNotFound(w, r, op, err, msg, backURL)
	case http.StatusForbidden:
		h.ErrLog.LogForbidden(w, r, op, err, msg, backURL)
	case http.StatusConflict:
		h.ErrLog.LogConflict(w, r, op, err, msg, backURL)
	default:
		h.ErrLog.LogServerError(w, r, op, err, msg, backURL)
	}
}
