package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// TestPassword is the password of every fixture user.
const TestPassword = "correct horse battery"

// CreateUser inserts a user whose password is TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		LoginID:      loginID,
		LoginIDCI:    text.Fold(loginID),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create fixture user: %v", err)
	}
	return u
}

// CreateJob inserts an open job owned by owner with no bids.
func (f *Fixtures) CreateJob(ctx context.Context, owner models.User, title string) models.Job {
	f.t.Helper()

	now := time.Now().UTC()
	job := models.Job{
		ID:           primitive.NewObjectID(),
		OwnerID:      owner.ID,
		OwnerName:    owner.FullName,
		Title:        title,
		TitleCI:      text.Fold(title),
		Description:  "Fixture job description",
		WorkType:     "remote",
		Budget:       "100",
		Skills:       []string{"go"},
		Availability: "full-time",
		AwardStatus:  models.JobOpen,
		Bids:         []models.Bid{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("jobs").InsertOne(ctx, job); err != nil {
		f.t.Fatalf("failed to create fixture job: %v", err)
	}
	return job
}
