// internal/app/features/jobs/routes.go
package jobs

import (
	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the board's routes. They live at the site root, so
// bootstrap mounts this router at "/".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Public browsing
	r.Get("/jobs", h.ServeList)
	r.Get("/jobs/{page}", h.ServeList)
	r.Get("/job/{id}", h.ServeJob)
	r.Get("/job/{id}/{title}", h.ServeJob)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/projects", h.ServeProjects)

		// Jobs
		pr.Get("/post-job", h.ServeNew)
		pr.Post("/post-job", h.HandleCreate)
		pr.Post("/delete-job", h.HandleDelete)

		// Bids
		pr.Post("/create-bid/{id}/{title}", h.HandleCreateBid)
		pr.Post("/update-bid/{id}/{title}", h.HandleUpdateBid)
		pr.Post("/delete-bid/{id}/{title}", h.HandleDeleteBid)
		pr.Post("/accept-bid/{id}/{title}", h.HandleAcceptBid)
	})

	return r
}
