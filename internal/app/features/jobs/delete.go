// internal/app/features/jobs/delete.go
package jobs

import (
	"net/http"

	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const myProjectsURL = "/projects?scope=mine"

// HandleDelete removes a job. Only its owner may delete it.
//
// Route: POST /delete-job (form field jobId)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", myProjectsURL)
		return
	}
	_, uid, err := currentUser(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete job: no session user", err, userMessage(err), myProjectsURL)
		return
	}

	jobID, err := jobstore.ParseID(r.PostForm.Get("jobId"))
	if err != nil {
		h.fail(w, r, "delete job: bad id", err, myProjectsURL)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete job")
	defer cancel()

	if err := h.Store.Delete(ctx, jobID, uid); err != nil {
		h.fail(w, r, "delete job failed", err, myProjectsURL)
		return
	}

	h.Log.Info("job deleted", zap.String("job_id", jobID.Hex()), zap.String("owner_id", uid.Hex()))
	http.Redirect(w, r, myProjectsURL, http.StatusSeeOther)
}
