// internal/app/features/jobs/list.go
package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/jobboard/internal/app/system/paging"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

var errUnknownScope = errors.New("unknown projects scope")

// ServeList renders one page of the board, 40 jobs per page in posting order.
//
// Routes: GET /jobs, GET /jobs/{page}
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page, err := paging.ParsePage(chi.URLParam(r, "page"))
	if err != nil {
		h.fail(w, r, "parse page", err, "/jobs/1")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list jobs")
	defer cancel()

	total, err := h.Store.Count(ctx)
	if err != nil {
		h.fail(w, r, "count jobs failed", err, "/")
		return
	}
	win, err := paging.Compute(int(total), page)
	if err != nil {
		h.fail(w, r, "page out of range", err, "/jobs/1")
		return
	}
	jobs, err := h.Store.List(ctx, win.Skip, win.Limit)
	if err != nil {
		h.fail(w, r, "list jobs failed", err, "/")
		return
	}

	base, ok := h.baseVM(w, r, "Jobs", "/jobs/1")
	if !ok {
		return
	}

	data := listData{
		BaseVM: base,
		Jobs:   toRows(jobs, h.Now()),
		Window: win,
	}
	if win.HasPrev {
		data.PrevURL = "/jobs/" + strconv.Itoa(win.Page-1)
	}
	if win.HasNext {
		data.NextURL = "/jobs/" + strconv.Itoa(win.Page+1)
	}

	h.Views.Render(w, r, http.StatusOK, "jobs_index", data)
}

// ServeProjects lists jobs for the signed-in user: the whole board
// (scope=all, the default), their own postings (mine) or the jobs they have
// bid on (bids).
//
// Route: GET /projects
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	_, uid, err := currentUser(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: no session user", err, userMessage(err), "/")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list projects")
	defer cancel()

	scope := r.URL.Query().Get("scope")
	var jobs []models.Job
	switch scope {
	case "", "all":
		scope = "all"
		jobs, err = h.Store.ListAll(ctx)
	case "mine":
		jobs, err = h.Store.ListByOwner(ctx, uid)
	case "bids":
		jobs, err = h.Store.ListBidOn(ctx, uid)
	default:
		h.ErrLog.LogBadRequest(w, r, "projects: bad scope", errUnknownScope,
			"Unknown project filter.", "/projects")
		return
	}
	if err != nil {
		h.fail(w, r, "list projects failed", err, "/")
		return
	}

	base, ok := h.baseVM(w, r, "Projects", "/jobs/1")
	if !ok {
		return
	}

	h.Views.Render(w, r, http.StatusOK, "jobs_projects", projectsData{
		BaseVM: base,
		Scope:  scope,
		Jobs:   toRows(jobs, h.Now()),
	})
}
