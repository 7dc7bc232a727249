// internal/app/features/login/signup.go
package login

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/jobboard/internal/app/store/users"
	"github.com/dalemusser/jobboard/internal/app/system/inputval"
	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"github.com/dalemusser/jobboard/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// signupInput is the signup form. Passwords are never echoed back.
type signupInput struct {
	FullName string `form:"full_name" validate:"required,max=200" label:"Full name"`
	LoginID  string `form:"login_id" validate:"required,min=3,max=100" label:"Login ID"`
	Password string `form:"password" validate:"required,min=8" label:"Password"`
	Confirm  string `form:"confirm" validate:"eqfield=Password" label:"Password confirmation"`
}

type signupFormData struct {
	viewdata.BaseVM
	FullName  string
	LoginID   string
	ReturnURL string
	Errors    map[string]string
}

// ServeSignup renders the empty account form.
//
// Route: GET /signup
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "signup", signupFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign up", "/jobs/1"),
		ReturnURL: query.Get(r, "return"),
	})
}

// HandleSignup creates the account and signs the new user in.
//
// Route: POST /signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	in := signupInput{
		FullName: strings.TrimSpace(r.PostForm.Get("full_name")),
		LoginID:  strings.TrimSpace(r.PostForm.Get("login_id")),
		Password: r.PostForm.Get("password"),
		Confirm:  r.PostForm.Get("confirm"),
	}
	res := inputval.Validate(in)
	if len(in.Password) > userstore.MaxPasswordBytes {
		res.Add("password", fmt.Sprintf("Password must be at most %d bytes.", userstore.MaxPasswordBytes))
	}
	if res.HasErrors() {
		h.renderSignup(w, r, http.StatusUnprocessableEntity, in, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create user")
	defer cancel()

	u, err := h.Accounts.Create(ctx, in.FullName, in.LoginID, in.Password)
	switch {
	case errors.Is(err, userstore.ErrPasswordTooLong):
		h.renderSignup(w, r, http.StatusUnprocessableEntity, in, map[string]string{
			"password": fmt.Sprintf("Password must be at most %d bytes.", userstore.MaxPasswordBytes),
		})
		return
	case errors.Is(err, userstore.ErrDuplicateLoginID):
		h.renderSignup(w, r, http.StatusConflict, in, map[string]string{
			"login_id": "That login ID is already taken.",
		})
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Unable to create the account.", "/signup")
		return
	}

	h.Log.Info("user signed up", zap.String("user_id", u.ID.Hex()))
	h.signInAndRedirect(w, r, &u, r.PostForm.Get("return"))
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, status int, in signupInput, errs map[string]string) {
	h.Views.Render(w, r, status, "signup", signupFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign up", "/jobs/1"),
		FullName:  in.FullName,
		LoginID:   in.LoginID,
		ReturnURL: strings.TrimSpace(r.PostForm.Get("return")),
		Errors:    errs,
	})
}
