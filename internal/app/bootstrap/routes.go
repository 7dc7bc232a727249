// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/jobboard/internal/app/features/errors"
	healthfeature "github.com/dalemusser/jobboard/internal/app/features/health"
	homefeature "github.com/dalemusser/jobboard/internal/app/features/home"
	jobsfeature "github.com/dalemusser/jobboard/internal/app/features/jobs"
	loginfeature "github.com/dalemusser/jobboard/internal/app/features/login"
	logoutfeature "github.com/dalemusser/jobboard/internal/app/features/logout"
	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	userstore "github.com/dalemusser/jobboard/internal/app/store/users"
	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const csrfKeyLen = 32

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine, installs
// CSRF and session middleware, and mounts the feature routers: the board
// itself at the site root, plus login, signup, logout and health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the account on each request, so a deleted user is signed out.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler(errLog)

	r := chi.NewRouter()

	// Set before mounting so sub-routers inherit them.
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	if !secure {
		r.Use(markPlaintext)
	}
	r.Use(csrfProtect(appCfg.CSRFKey, secure, errLog, logger))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Prices, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Get("/", homeHandler.ServeRoot)

	// Authentication
	loginHandler := loginfeature.NewHandler(userstore.New(deps.MongoDatabase), sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// The board: /jobs/{page}, /job/{id}/{title}, /projects and the job and bid actions.
	jobsHandler := jobsfeature.NewHandler(jobstore.New(deps.MongoDatabase), deps.Prices, errLog, logger)
	r.Mount("/", jobsfeature.Routes(jobsHandler, sessionMgr))

	return r, nil
}

// csrfProtect guards every unsafe method. Without a configured key (dev only,
// enforced by ValidateConfig) a per-process key is generated.
func csrfProtect(key string, secure bool, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) func(http.Handler) http.Handler {
	k := []byte(key)
	if len(k) == 0 {
		k = securecookie.GenerateRandomKey(csrfKeyLen)
		logger.Warn("csrf key is empty; generated an ephemeral key")
	}
	return csrf.Protect(k,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errLog.LogForbidden(w, r, "csrf check failed", csrf.FailureReason(r),
				"Your form has expired. Please go back, reload the page and try again.", "")
		})),
	)
}

// markPlaintext tells gorilla/csrf the request arrived over plain HTTP, so
// the HTTPS-only referer check is skipped in local development.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
