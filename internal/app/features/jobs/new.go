// internal/app/features/jobs/new.go
package jobs

import (
	"net/http"

	"github.com/dalemusser/jobboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/jobboard/internal/app/system/jobform"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"go.uber.org/zap"
)

// ServeNew renders the empty "post a job" form.
//
// Route: GET /post-job
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderNew(w, r, http.StatusOK, jobform.JobInput{}, nil)
}

func (h *Handler) renderNew(w http.ResponseWriter, r *http.Request, status int, in jobform.JobInput, errs map[string]string) {
	base, ok := h.baseVM(w, r, "Post a job", "/jobs/1")
	if !ok {
		return
	}
	h.Views.Render(w, r, status, "job_new", newJobData{
		BaseVM: base,
		Input:  in,
		Errors: errs,
	})
}

// HandleCreate validates the form and stores a new open job owned by the
// caller. Invalid input re-renders the form with 422.
//
// Route: POST /post-job
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/post-job")
		return
	}
	user, uid, err := currentUser(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create job: no session user", err, userMessage(err), "/jobs/1")
		return
	}

	in := jobform.JobInputFromForm(r.PostForm)
	draft, res := jobform.ValidateJob(in, h.Now())
	if res.HasErrors() {
		h.renderNew(w, r, http.StatusUnprocessableEntity, in, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create job")
	defer cancel()

	job, err := h.Store.Create(ctx, models.Job{
		OwnerID:      uid,
		OwnerName:    user.Name,
		Title:        draft.Title,
		Description:  htmlsanitize.Clean(draft.Description),
		WorkType:     draft.WorkType,
		Budget:       draft.Budget,
		End:          draft.End,
		Skills:       draft.Skills,
		Availability: draft.Availability,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create job failed", err, "Unable to save the job.", "/post-job")
		return
	}

	h.Log.Info("job posted",
		zap.String("job_id", job.ID.Hex()),
		zap.String("owner_id", uid.Hex()))

	http.Redirect(w, r, "/jobs/1", http.StatusSeeOther)
}
