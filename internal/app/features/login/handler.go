// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/jobboard/internal/app/features/errors"
	userstore "github.com/dalemusser/jobboard/internal/app/store/users"
	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/dalemusser/jobboard/internal/app/system/ratelimit"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/app/system/viewdata"
	"github.com/dalemusser/jobboard/internal/app/system/views"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Accounts is the user storage login and signup need. userstore.Store
// implements it.
type Accounts interface {
	Authenticate(ctx context.Context, loginID, password string) (*models.User, error)
	Create(ctx context.Context, fullName, loginID, password string) (models.User, error)
}

type Handler struct {
	Accounts   Accounts
	SessionMgr *auth.SessionManager
	Views      views.Renderer
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// Limiter throttles password attempts; nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(accounts Accounts, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:   accounts,
		SessionMgr: sessionMgr,
		Views:      views.Templates{},
		ErrLog:     errLog,
		Log:        logger,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	LoginID   string // what the user typed
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Log in", "/jobs/1"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	loginID := strings.TrimSpace(r.PostForm.Get("login_id"))
	password := r.PostForm.Get("password")
	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusUnprocessableEntity, "Please enter your login ID and password.", loginID)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, loginID); !ok {
			h.Log.Warn("login rate limited",
				zap.String("login_id", loginID),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, loginID)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "authenticate")
	defer cancel()

	u, err := h.Accounts.Authenticate(ctx, loginID, password)
	switch {
	case errors.Is(err, userstore.ErrInvalidCredentials):
		h.Log.Info("login failed", zap.String("login_id", loginID))
		h.renderFormWithError(w, r, http.StatusUnauthorized, "Login ID or password is incorrect.", loginID)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "A server error occurred.", "/login")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetLoginID(loginID)
	}
	h.signInAndRedirect(w, r, u, r.PostForm.Get("return"))
}

// signInAndRedirect stores u in the session and sends the browser to the
// return URL when it is a safe local path, else to the board.
func (h *Handler) signInAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.LoginID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.", "/login")
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	dest := urlutil.SafeReturn(returnURL, "", "/jobs/1")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, loginID string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	h.Views.Render(w, r, status, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Log in", "/jobs/1"),
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: ret,
	})
}
