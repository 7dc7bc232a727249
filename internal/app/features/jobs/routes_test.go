package jobs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/dalemusser/jobboard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, hs *harness) http.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("routes-test-session-key-32-chars!!", "", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return Routes(hs.h, sm)
}

func TestRoutes_PublicPages(t *testing.T) {
	hs := newHarness(t)
	hs.store.seed(primitive.NewObjectID(), 45)
	router := newRouter(t, hs)
	job := hs.store.jobs[44]

	for _, path := range []string{"/jobs", "/jobs/2", "/job/" + job.ID.Hex(), "/job/" + job.ID.Hex() + "/Seeded%20job"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}

	if got := len(hs.views.Calls[1].Data.(listData).Jobs); got != 5 {
		t.Errorf("/jobs/2 listed %d jobs, want 5", got)
	}
}

func TestRoutes_SignedInOnly(t *testing.T) {
	hs := newHarness(t)
	router := newRouter(t, hs)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/projects"},
		{http.MethodGet, "/post-job"},
		{http.MethodPost, "/post-job"},
		{http.MethodPost, "/delete-job"},
		{http.MethodPost, "/create-bid/abc/title"},
		{http.MethodPost, "/accept-bid/abc/title"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s %s = %d, want 303", tc.method, tc.path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return=") {
			t.Errorf("%s %s redirected to %q", tc.method, tc.path, loc)
		}
	}
	if len(hs.views.Calls) != 0 {
		t.Error("no page should render for anonymous callers")
	}
}

func TestRoutes_SignedInReachesHandler(t *testing.T) {
	hs := newHarness(t)
	router := newRouter(t, hs)
	u := testutil.NewTestUser("Ann", "ann")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/post-job", u))
	if rec.Code != http.StatusOK || hs.views.Last().Name != "job_new" {
		t.Errorf("GET /post-job = %d (%q)", rec.Code, hs.views.Last().Name)
	}
}
