package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/repo"
	"github.com/tbourn/review-outreach/internal/services"
)

var (
	_ services.ContactRepo  = repoFuncs{}
	_ services.OutreachRepo = repoFuncs{}
	_ services.UserRepo     = repoFuncs{}
)

func TestRepoFuncs_ForwardToStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rf := repoFuncs{}

	owner, err := rf.CreateUser(ctx, db, &domain.User{
		Email: "owner@corner.test", PasswordHash: "h", FirstName: "Lu", LastName: "Ng", BusinessName: "Corner Cafe",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	owner.BusinessName = "Corner Cafe & Bar"
	if err := rf.SaveUser(ctx, db, owner); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if u, err := rf.GetUserByEmail(ctx, db, owner.Email); err != nil || u.BusinessName != "Corner Cafe & Bar" {
		t.Fatalf("GetUserByEmail: %v %+v", err, u)
	}
	if _, err := rf.GetUserByID(ctx, db, "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("GetUserByID(missing) err = %v", err)
	}

	ann, err := rf.CreateContact(ctx, db, &domain.Contact{UserID: owner.ID, Name: "Ann", Phone: "5550001", Email: "ann@x.test"}, "https://r.test")
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if _, err := rf.CreateContact(ctx, db, &domain.Contact{UserID: owner.ID, Name: "Bob", Phone: "5550002", Email: "bob@x.test"}, "https://r.test"); err != nil {
		t.Fatalf("CreateContact bob: %v", err)
	}

	if all, _ := rf.ListContacts(ctx, db, owner.ID); len(all) != 2 {
		t.Fatalf("ListContacts len = %d", len(all))
	}
	if n, _ := rf.CountContacts(ctx, db, owner.ID); n != 2 {
		t.Fatalf("CountContacts = %d", n)
	}
	if page, _ := rf.ListContactsPage(ctx, db, owner.ID, 1, 5); len(page) != 1 {
		t.Fatalf("second page len = %d", len(page))
	}
	if some, _ := rf.ListContactsByIDs(ctx, db, owner.ID, []string{ann.ID, "ghost"}); len(some) != 1 {
		t.Fatalf("ListContactsByIDs len = %d", len(some))
	}
	if taken, _ := rf.EmailInUse(ctx, db, owner.ID, "ann@x.test", ann.ID); taken {
		t.Fatalf("a contact's own email must not count as taken")
	}

	ann.Phone = "5559999"
	if err := rf.SaveContact(ctx, db, ann); err != nil {
		t.Fatalf("SaveContact: %v", err)
	}
	if err := rf.UpdateContactStatus(ctx, db, ann.ID, owner.ID, domain.ReviewSent, time.Now().UTC()); err != nil {
		t.Fatalf("UpdateContactStatus: %v", err)
	}
	got, err := rf.GetContact(ctx, db, ann.ID, owner.ID)
	if err != nil || got.Phone != "5559999" || got.ReviewStatus != domain.ReviewSent {
		t.Fatalf("GetContact: %v %+v", err, got)
	}
	if err := rf.DeleteContact(ctx, db, ann.ID, "someone-else"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("foreign delete err = %v", err)
	}
	if err := rf.DeleteContact(ctx, db, ann.ID, owner.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
}
