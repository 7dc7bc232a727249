package userstore_test

import (
	"errors"
	"strings"
	"testing"

	userstore "github.com/dalemusser/jobboard/internal/app/store/users"
	"github.com/dalemusser/jobboard/internal/app/system/indexes"
	"github.com/dalemusser/jobboard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) (*userstore.Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return userstore.New(db).WithCost(bcrypt.MinCost), db
}

func TestStore_Create(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "  Ada Lovelace ", "Ada", "secret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if u.FullName != "Ada Lovelace" {
		t.Errorf("FullName = %q, want trimmed", u.FullName)
	}
	if u.LoginIDCI != "ada" {
		t.Errorf("LoginIDCI = %q, want ada", u.LoginIDCI)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret" {
		t.Error("expected a bcrypt hash")
	}
}

func TestStore_Create_DuplicateLoginID(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Ada", "ada", "pw"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Other Ada", "ADA", "pw"); !errors.Is(err, userstore.ErrDuplicateLoginID) {
		t.Errorf("expected ErrDuplicateLoginID, got %v", err)
	}
}

func TestStore_Create_EmptyPassword(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Ada", "ada", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestStore_Create_PasswordTooLong(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, "Ada", "ada", strings.Repeat("a", userstore.MaxPasswordBytes+1))
	if !errors.Is(err, userstore.ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := store.Create(ctx, "Ada", "ada", strings.Repeat("a", userstore.MaxPasswordBytes)); err != nil {
		t.Errorf("a %d byte password should be accepted: %v", userstore.MaxPasswordBytes, err)
	}
}

func TestStore_Authenticate(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "Ada", "ada", "secret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.Authenticate(ctx, "ADA", "secret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("authenticated %s, want %s", u.ID.Hex(), created.ID.Hex())
	}

	if _, err := store.Authenticate(ctx, "ada", "wrong"); !errors.Is(err, userstore.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody", "secret"); !errors.Is(err, userstore.ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	_, db := newStore(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada", "ada")
	f := userstore.NewFetcher(db)

	su := f.FetchUser(ctx, u.ID.Hex())
	if su == nil || su.Name != "Ada" || su.LoginID != "ada" {
		t.Errorf("FetchUser = %+v", su)
	}
	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for unknown user")
	}
	if f.FetchUser(ctx, "garbage") != nil {
		t.Error("expected nil for malformed id")
	}
}
