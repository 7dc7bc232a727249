package jobstore_test

import (
	"errors"
	"sync"
	"testing"

	jobstore "github.com/dalemusser/jobboard/internal/app/store/jobs"
	"github.com/dalemusser/jobboard/internal/app/system/paging"
	"github.com/dalemusser/jobboard/internal/domain/models"
	"github.com/dalemusser/jobboard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ann Owner", "ann")
	created, err := store.Create(ctx, models.Job{
		OwnerID:      owner.ID,
		OwnerName:    owner.FullName,
		Title:        "Logo design",
		Description:  "A logo",
		WorkType:     "remote",
		Budget:       "50",
		Skills:       []string{"design"},
		Availability: "part-time",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.AwardStatus != models.JobOpen {
		t.Errorf("AwardStatus = %q, want open", created.AwardStatus)
	}
	if created.TitleCI != "logo design" {
		t.Errorf("TitleCI = %q", created.TitleCI)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Logo design" || len(got.Skills) != 1 || got.Skills[0] != "design" {
		t.Errorf("unexpected job: %+v", got)
	}
	if got.End != nil {
		t.Errorf("End = %v, want nil", got.End)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, jobstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListPages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ann Owner", "ann")
	var ids []primitive.ObjectID
	for i := 0; i < 45; i++ {
		ids = append(ids, fx.CreateJob(ctx, owner, "Job").ID)
	}

	total, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	w, err := paging.Compute(int(total), 2)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	page, err := store.List(ctx, w.Skip, w.Limit)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("page 2 has %d jobs, want 5", len(page))
	}
	if page[0].ID != ids[40] || page[4].ID != ids[44] {
		t.Error("page 2 should hold jobs 41..45 in creation order")
	}
}

func TestStore_ListByOwnerAndBidOn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fx.CreateUser(ctx, "Ann", "ann")
	bob := fx.CreateUser(ctx, "Bob", "bob")
	annJob := fx.CreateJob(ctx, ann, "Ann's job")
	fx.CreateJob(ctx, bob, "Bob's job")

	if _, err := store.AddBid(ctx, annJob.ID, models.Bid{Body: "me", Amount: "10", BidderID: bob.ID}); err != nil {
		t.Fatalf("AddBid failed: %v", err)
	}

	mine, err := store.ListByOwner(ctx, ann.ID)
	if err != nil || len(mine) != 1 || mine[0].ID != annJob.ID {
		t.Errorf("ListByOwner = %v, %v", mine, err)
	}
	bids, err := store.ListBidOn(ctx, bob.ID)
	if err != nil || len(bids) != 1 || bids[0].ID != annJob.ID {
		t.Errorf("ListBidOn = %v, %v", bids, err)
	}
	all, err := store.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Errorf("ListAll = %d jobs, %v", len(all), err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fx.CreateUser(ctx, "Ann", "ann")
	bob := fx.CreateUser(ctx, "Bob", "bob")
	job := fx.CreateJob(ctx, ann, "Job")

	if err := store.Delete(ctx, job.ID, bob.ID); !errors.Is(err, jobstore.ErrForbidden) {
		t.Errorf("non-owner delete: got %v, want ErrForbidden", err)
	}
	if err := store.Delete(ctx, job.ID, ann.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := store.Delete(ctx, job.ID, ann.ID); !errors.Is(err, jobstore.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_AddBid_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fx.CreateUser(ctx, "Ann", "ann")
	bob := fx.CreateUser(ctx, "Bob", "bob")
	job := fx.CreateJob(ctx, ann, "Job")

	if _, err := store.AddBid(ctx, job.ID, models.Bid{Body: "x", Amount: "1", BidderID: ann.ID}); !errors.Is(err, jobstore.ErrSelfBid) {
		t.Errorf("self bid: got %v", err)
	}
	if _, err := store.AddBid(ctx, job.ID, models.Bid{Body: "x", Amount: "1", BidderID: bob.ID}); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}
	if _, err := store.AddBid(ctx, job.ID, models.Bid{Body: "y", Amount: "2", BidderID: bob.ID}); !errors.Is(err, jobstore.ErrDuplicateBid) {
		t.Errorf("duplicate bid: got %v", err)
	}
	if _, err := store.AddBid(ctx, primitive.NewObjectID(), models.Bid{Body: "x", Amount: "1", BidderID: bob.ID}); !errors.Is(err, jobstore.ErrNotFound) {
		t.Errorf("missing job: got %v", err)
	}
}

func TestStore_UpdateAndDeleteBid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fx.CreateUser(ctx, "Ann", "ann")
	bob := fx.CreateUser(ctx, "Bob", "bob")
	job := fx.CreateJob(ctx, ann, "Job")

	bid, err := store.AddBid(ctx, job.ID, models.Bid{Body: "first", Amount: "10", BidderID: bob.ID})
	if err != nil {
		t.Fatalf("AddBid failed: %v", err)
	}

	if err := store.UpdateBid(ctx, job.ID, bid.ID, ann.ID, "hijack", "1"); !errors.Is(err, jobstore.ErrForbidden) {
		t.Errorf("update by non-bidder: got %v", err)
	}
	if err := store.UpdateBid(ctx, job.ID, bid.ID, bob.ID, "second", "12"); err != nil {
		t.Fatalf("UpdateBid failed: %v", err)
	}

	got, _ := store.GetByID(ctx, job.ID)
	b := got.FindBid(bid.ID)
	if b == nil || b.Body != "second" || b.Amount != "12" {
		t.Errorf("bid after update = %+v", b)
	}

	if err := store.DeleteBid(ctx, job.ID, primitive.NewObjectID(), bob.ID); !errors.Is(err, jobstore.ErrBidNotFound) {
		t.Errorf("delete unknown bid: got %v", err)
	}
	if err := store.DeleteBid(ctx, job.ID, bid.ID, bob.ID); err != nil {
		t.Fatalf("DeleteBid failed: %v", err)
	}
	got, _ = store.GetByID(ctx, job.ID)
	if len(got.Bids) != 0 {
		t.Errorf("expected no bids, got %d", len(got.Bids))
	}
}

func TestStore_AcceptBid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fx.CreateUser(ctx, "Ann", "ann")
	bob := fx.CreateUser(ctx, "Bob", "bob")
	cat := fx.CreateUser(ctx, "Cat", "cat")
	job := fx.CreateJob(ctx, ann, "Job")

	win, err := store.AddBid(ctx, job.ID, models.Bid{Body: "b", Amount: "10", BidderID: bob.ID})
	if err != nil {
		t.Fatalf("AddBid bob: %v", err)
	}
	lose, err := store.AddBid(ctx, job.ID, models.Bid{Body: "c", Amount: "9", BidderID: cat.ID})
	if err != nil {
		t.Fatalf("AddBid cat: %v", err)
	}

	if err := store.AcceptBid(ctx, job.ID, win.ID, bob.ID); !errors.Is(err, jobstore.ErrForbidden) {
		t.Errorf("accept by non-owner: got %v", err)
	}
	if err := store.AcceptBid(ctx, job.ID, primitive.NewObjectID(), ann.ID); !errors.Is(err, jobstore.ErrBidNotFound) {
		t.Errorf("accept unknown bid: got %v", err)
	}
	if err := store.AcceptBid(ctx, job.ID, win.ID, ann.ID); err != nil {
		t.Fatalf("AcceptBid failed: %v", err)
	}

	got, _ := store.GetByID(ctx, job.ID)
	if got.AwardStatus != models.JobAwarded {
		t.Errorf("job status = %q, want awarded", got.AwardStatus)
	}
	if got.AwardedBidID == nil || *got.AwardedBidID != win.ID {
		t.Errorf("AwardedBidID = %v, want %s", got.AwardedBidID, win.ID.Hex())
	}
	if s := got.FindBid(win.ID).AwardStatus; s != models.BidAccepted {
		t.Errorf("winning bid = %q, want accepted", s)
	}
	if s := got.FindBid(lose.ID).AwardStatus; s != models.BidRejected {
		t.Errorf("sibling bid = %q, want rejected", s)
	}

	if err := store.AcceptBid(ctx, job.ID, lose.ID, ann.ID); !errors.Is(err, jobstore.ErrAlreadyAwarded) {
		t.Errorf("second accept: got %v, want ErrAlreadyAwarded", err)
	}
	if err := store.UpdateBid(ctx, job.ID, lose.ID, cat.ID, "again", "8"); !errors.Is(err, jobstore.ErrBidClosed) {
		t.Errorf("update rejected bid: got %v, want ErrBidClosed", err)
	}
	dave := fx.CreateUser(ctx, "Dave", "dave")
	if _, err := store.AddBid(ctx, job.ID, models.Bid{Body: "late", Amount: "1", BidderID: dave.ID}); !errors.Is(err, jobstore.ErrAlreadyAwarded) {
		t.Errorf("bid on awarded job: got %v, want ErrAlreadyAwarded", err)
	}
}

func TestStore_AcceptBid_ConcurrentOneWinner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fx.CreateUser(ctx, "Ann", "ann")
	job := fx.CreateJob(ctx, ann, "Job")

	var bidIDs []primitive.ObjectID
	for _, name := range []string{"b1", "b2", "b3", "b4"} {
		u := fx.CreateUser(ctx, name, name)
		bid, err := store.AddBid(ctx, job.ID, models.Bid{Body: name, Amount: "5", BidderID: u.ID})
		if err != nil {
			t.Fatalf("AddBid %s: %v", name, err)
		}
		bidIDs = append(bidIDs, bid.ID)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, id := range bidIDs {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			err := store.AcceptBid(ctx, job.ID, id, ann.ID)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, jobstore.ErrAlreadyAwarded) {
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winning accept, got %d", wins)
	}

	got, _ := store.GetByID(ctx, job.ID)
	accepted := 0
	for _, b := range got.Bids {
		if b.AwardStatus == models.BidAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("expected one accepted bid, got %d", accepted)
	}
}
