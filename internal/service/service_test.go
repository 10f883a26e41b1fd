package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/dto"
	"proclog/internal/service"
	"proclog/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*service.Service, *store.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	st := store.New(db)
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return service.New(st), st
}

func practitioner() *actor.Actor {
	return &actor.Actor{ID: uuid.New(), Role: domain.RolePractitioner}
}

func reviewer() *actor.Actor {
	return &actor.Actor{ID: uuid.New(), Role: domain.RoleReviewer}
}

func draft() dto.SubmitEntryRequest {
	return dto.SubmitEntryRequest{
		PatientID: "P1",
		Procedure: "biopsy",
		Diagnosis: "benign",
	}
}

func seedProfile(t *testing.T, st *store.Store, a *actor.Actor, name, medicalID string) {
	t.Helper()
	p := &domain.Profile{ID: a.ID, FullName: name, MedicalID: medicalID, Role: a.Role}
	if err := st.DB.Create(p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

// status=pending must mean no review stamp, and vice versa.
func assertReviewInvariant(t *testing.T, e *domain.LogEntry) {
	t.Helper()
	if e.Status == domain.StatusPending {
		if e.ReviewedBy != nil || e.ReviewedAt != nil {
			t.Fatalf("pending entry carries review stamp: %+v", e)
		}
		return
	}
	if e.ReviewedBy == nil || e.ReviewedAt == nil {
		t.Fatalf("decided entry missing review stamp: %+v", e)
	}
}

func TestSubmitCreatesPendingEntry(t *testing.T) {
	svc, _ := setupService(t)
	p := practitioner()

	entry, err := svc.Submit(context.Background(), p, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("entry id not generated")
	}
	if entry.UserID != p.ID {
		t.Fatalf("owner = %s, want %s", entry.UserID, p.ID)
	}
	if entry.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", entry.Status)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("createdAt not set")
	}
	assertReviewInvariant(t, entry)
}

func TestSubmitValidation(t *testing.T) {
	svc, st := setupService(t)
	p := practitioner()

	tests := []struct {
		name string
		req  dto.SubmitEntryRequest
	}{
		{name: "empty patientId", req: dto.SubmitEntryRequest{Procedure: "biopsy", Diagnosis: "benign"}},
		{name: "empty procedure", req: dto.SubmitEntryRequest{PatientID: "P1", Diagnosis: "benign"}},
		{name: "empty diagnosis", req: dto.SubmitEntryRequest{PatientID: "P1", Procedure: "biopsy"}},
		{name: "whitespace procedure", req: dto.SubmitEntryRequest{PatientID: "P1", Procedure: "  ", Diagnosis: "benign"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), p, tc.req); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	var count int64
	if err := st.DB.Model(&domain.LogEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted entries, got %d", count)
	}
}

func TestSubmitForbidden(t *testing.T) {
	svc, _ := setupService(t)

	if _, err := svc.Submit(context.Background(), reviewer(), draft()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("reviewer submit err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Submit(context.Background(), nil, draft()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("nil actor submit err = %v, want ErrForbidden", err)
	}
}

func TestSubmitKeepsImageOrder(t *testing.T) {
	svc, _ := setupService(t)
	p := practitioner()

	req := draft()
	req.Images = []string{"blob://a", "blob://b", "blob://c"}

	entry, err := svc.Submit(context.Background(), p, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	reloaded, err := svc.GetEntry(context.Background(), p, entry.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if len(reloaded.Images) != 3 {
		t.Fatalf("expected 3 image refs, got %d", len(reloaded.Images))
	}
	for i, want := range req.Images {
		if reloaded.Images[i] != want {
			t.Fatalf("images[%d] = %s, want %s", i, reloaded.Images[i], want)
		}
	}
}

func TestDecideApprovesEntry(t *testing.T) {
	svc, _ := setupService(t)
	p := practitioner()
	r := reviewer()

	entry, err := svc.Submit(context.Background(), p, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	decided, err := svc.Decide(context.Background(), r, entry.ID, "approved")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", decided.Status)
	}
	if decided.ReviewedBy == nil || *decided.ReviewedBy != r.ID {
		t.Fatalf("reviewedBy = %v, want %s", decided.ReviewedBy, r.ID)
	}
	if decided.ReviewedAt == nil {
		t.Fatal("reviewedAt not set")
	}
	assertReviewInvariant(t, decided)

	// ownership and creation time survive the decision untouched
	if decided.UserID != entry.UserID {
		t.Fatalf("userId changed: %s -> %s", entry.UserID, decided.UserID)
	}
	if !decided.CreatedAt.Equal(entry.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", entry.CreatedAt, decided.CreatedAt)
	}
}

func TestDecideTwiceFails(t *testing.T) {
	svc, _ := setupService(t)
	p := practitioner()
	r1 := reviewer()
	r2 := reviewer()

	entry, err := svc.Submit(context.Background(), p, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Decide(context.Background(), r1, entry.ID, "approved"); err != nil {
		t.Fatalf("first decide: %v", err)
	}

	for _, outcome := range []string{"approved", "rejected"} {
		if _, err := svc.Decide(context.Background(), r2, entry.ID, outcome); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("second decide (%s) err = %v, want ErrInvalidTransition", outcome, err)
		}
	}

	// first decision stands
	final, err := svc.GetEntry(context.Background(), p, entry.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if final.Status != domain.StatusApproved || *final.ReviewedBy != r1.ID {
		t.Fatalf("first decision overwritten: %+v", final)
	}
}

func TestDecideForbiddenForPractitioner(t *testing.T) {
	svc, _ := setupService(t)
	p := practitioner()

	entry, err := svc.Submit(context.Background(), p, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Decide(context.Background(), p, entry.ID, "approved"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	unchanged, err := svc.GetEntry(context.Background(), p, entry.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if unchanged.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", unchanged.Status)
	}
}

func TestDecideUnknownEntry(t *testing.T) {
	svc, _ := setupService(t)
	if _, err := svc.Decide(context.Background(), reviewer(), uuid.New(), "approved"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDecideRejectsBadOutcome(t *testing.T) {
	svc, _ := setupService(t)
	p := practitioner()

	entry, err := svc.Submit(context.Background(), p, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	for _, outcome := range []string{"pending", "", "APPROVED"} {
		if _, err := svc.Decide(context.Background(), reviewer(), entry.ID, outcome); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("outcome %q err = %v, want ErrValidation", outcome, err)
		}
	}
}

func TestDecideLosesRaceToCommittedDecision(t *testing.T) {
	svc, st := setupService(t)
	p := practitioner()
	r1 := reviewer()

	entry, err := svc.Submit(context.Background(), p, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// First decision commits through the store, as if another reviewer's
	// request landed between this service call's read and its write.
	rows, err := st.Entries().Decide(context.Background(), entry.ID, domain.StatusRejected, r1.ID, entry.CreatedAt)
	if err != nil || rows != 1 {
		t.Fatalf("seed decision: rows=%d err=%v", rows, err)
	}

	rows, err = st.Entries().Decide(context.Background(), entry.ID, domain.StatusApproved, uuid.New(), entry.CreatedAt)
	if err != nil {
		t.Fatalf("conditional decide: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second conditional decide affected %d rows, want 0", rows)
	}

	final, err := st.Entries().GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != domain.StatusRejected || *final.ReviewedBy != r1.ID {
		t.Fatalf("first committed decision lost: %+v", final)
	}
}

func TestCreateDuplicateEntryConflicts(t *testing.T) {
	_, st := setupService(t)
	p := practitioner()

	entry := &domain.LogEntry{
		ID:        uuid.New(),
		UserID:    p.ID,
		PatientID: "PAT-1",
		Procedure: "Appendectomy",
		Diagnosis: "Acute appendicitis",
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.Entries().Create(context.Background(), entry); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := *entry
	err := st.Entries().Create(context.Background(), &dup)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate create err = %v, want ErrConflict", err)
	}
}

func TestListPendingOrderingAndJoin(t *testing.T) {
	svc, st := setupService(t)
	p1 := practitioner()
	p2 := practitioner()
	r := reviewer()
	seedProfile(t, st, p1, "Dr. Ada Osei", "MED-001")
	seedProfile(t, st, p2, "Dr. Ben Ruiz", "MED-002")

	e1, err := svc.Submit(context.Background(), p1, draft())
	if err != nil {
		t.Fatalf("submit e1: %v", err)
	}
	e2, err := svc.Submit(context.Background(), p2, draft())
	if err != nil {
		t.Fatalf("submit e2: %v", err)
	}

	pending, err := svc.ListPending(context.Background(), r)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].Entry.ID != e2.ID || pending[1].Entry.ID != e1.ID {
		t.Fatalf("expected newest first, got %s then %s", pending[0].Entry.ID, pending[1].Entry.ID)
	}
	if pending[0].Submitter.FullName != "Dr. Ben Ruiz" || pending[0].Submitter.MedicalID != "MED-002" {
		t.Fatalf("unexpected submitter on newest entry: %+v", pending[0].Submitter)
	}
	if pending[1].Submitter.FullName != "Dr. Ada Osei" {
		t.Fatalf("unexpected submitter on older entry: %+v", pending[1].Submitter)
	}

	// a decision removes the entry from the queue
	if _, err := svc.Decide(context.Background(), r, e2.ID, "rejected"); err != nil {
		t.Fatalf("decide: %v", err)
	}
	pending, err = svc.ListPending(context.Background(), r)
	if err != nil {
		t.Fatalf("relist pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Entry.ID != e1.ID {
		t.Fatalf("expected only e1 pending, got %+v", pending)
	}

	// a new submission goes to the front
	e3, err := svc.Submit(context.Background(), p2, draft())
	if err != nil {
		t.Fatalf("submit e3: %v", err)
	}
	pending, err = svc.ListPending(context.Background(), r)
	if err != nil {
		t.Fatalf("relist pending: %v", err)
	}
	if len(pending) != 2 || pending[0].Entry.ID != e3.ID {
		t.Fatalf("expected e3 first, got %+v", pending)
	}
}

func TestListPendingForbidden(t *testing.T) {
	svc, _ := setupService(t)
	if _, err := svc.ListPending(context.Background(), practitioner()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestGetEntryVisibility(t *testing.T) {
	svc, _ := setupService(t)
	owner := practitioner()
	other := practitioner()
	r := reviewer()

	entry, err := svc.Submit(context.Background(), owner, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.GetEntry(context.Background(), owner, entry.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.GetEntry(context.Background(), r, entry.ID); err != nil {
		t.Fatalf("reviewer get: %v", err)
	}
	if _, err := svc.GetEntry(context.Background(), other, entry.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other get err = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetEntry(context.Background(), owner, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestListOwnAndStats(t *testing.T) {
	svc, _ := setupService(t)
	p1 := practitioner()
	p2 := practitioner()
	r := reviewer()

	var p1Entries []*domain.LogEntry
	for i := 0; i < 3; i++ {
		e, err := svc.Submit(context.Background(), p1, draft())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		p1Entries = append(p1Entries, e)
	}
	if _, err := svc.Submit(context.Background(), p2, draft()); err != nil {
		t.Fatalf("submit p2: %v", err)
	}

	if _, err := svc.Decide(context.Background(), r, p1Entries[0].ID, "approved"); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if _, err := svc.Decide(context.Background(), r, p1Entries[1].ID, "rejected"); err != nil {
		t.Fatalf("decide: %v", err)
	}

	own, err := svc.ListOwn(context.Background(), p1, 0)
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 3 {
		t.Fatalf("expected 3 own entries, got %d", len(own))
	}
	for _, e := range own {
		if e.UserID != p1.ID {
			t.Fatalf("foreign entry %s in own list", e.ID)
		}
	}
	if own[0].ID != p1Entries[2].ID {
		t.Fatalf("expected newest own entry first, got %s", own[0].ID)
	}

	capped, err := svc.ListOwn(context.Background(), p1, 2)
	if err != nil {
		t.Fatalf("list own capped: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected 2 entries with limit, got %d", len(capped))
	}

	stats, err := svc.Stats(context.Background(), p1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := dto.EntryStats{Total: 3, Pending: 1, Approved: 1, Rejected: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	if _, err := svc.ListOwn(context.Background(), nil, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("nil actor list err = %v, want ErrForbidden", err)
	}
}

func TestProfileUpsertAndGet(t *testing.T) {
	svc, st := setupService(t)
	p := practitioner()

	if _, err := svc.GetProfile(context.Background(), p); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing profile err = %v, want ErrNotFound", err)
	}
	if _, err := svc.UpsertProfile(context.Background(), p, dto.UpsertProfileRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty fullName err = %v, want ErrValidation", err)
	}

	created, err := svc.UpsertProfile(context.Background(), p, dto.UpsertProfileRequest{
		FullName:  "Dr. Ada Osei",
		MedicalID: "MED-001",
		Hospital:  "St. Example",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.Role != domain.RolePractitioner {
		t.Fatalf("new profile role = %s, want practitioner", created.Role)
	}

	// a role granted out of band is not clobbered by a profile edit
	if err := st.DB.Model(&domain.Profile{}).Where("id = ?", p.ID).Update("role", domain.RoleReviewer).Error; err != nil {
		t.Fatalf("grant role: %v", err)
	}
	updated, err := svc.UpsertProfile(context.Background(), p, dto.UpsertProfileRequest{
		FullName: "Dr. Ada Osei",
		Hospital: "General",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.Hospital != "General" {
		t.Fatalf("hospital = %s, want General", updated.Hospital)
	}
	if updated.Role != domain.RoleReviewer {
		t.Fatalf("profile edit clobbered role: %s", updated.Role)
	}
}
