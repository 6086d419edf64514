package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos/passports"
	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
	"github.com/KlausJCB/MaterialPassportTool/internal/requestdata"
)

// fakePassportRepo is an in-memory PassportRepo honoring owner scoping.
type fakePassportRepo struct {
	records map[uuid.UUID]*types.MaterialPassport
}

func newFakePassportRepo() *fakePassportRepo {
	return &fakePassportRepo{records: map[uuid.UUID]*types.MaterialPassport{}}
}

func (f *fakePassportRepo) Create(_ dbctx.Context, ps []*types.MaterialPassport) ([]*types.MaterialPassport, error) {
	for _, p := range ps {
		cp := *p
		f.records[p.ID] = &cp
	}
	return ps, nil
}

func (f *fakePassportRepo) GetByID(_ dbctx.Context, id uuid.UUID, ownerScope *uuid.UUID) (*types.MaterialPassport, error) {
	p, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	if ownerScope != nil && p.AuthorID != *ownerScope {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePassportRepo) List(_ dbctx.Context, ownerScope *uuid.UUID) ([]*types.MaterialPassport, error) {
	var out []*types.MaterialPassport
	for _, p := range f.records {
		if ownerScope != nil && p.AuthorID != *ownerScope {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePassportRepo) Save(_ dbctx.Context, p *types.MaterialPassport) (*types.MaterialPassport, error) {
	cp := *p
	f.records[p.ID] = &cp
	return p, nil
}

func (f *fakePassportRepo) FullDeleteByID(_ dbctx.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakePassportRepo) CountByStatus(_ dbctx.Context, ownerScope *uuid.UUID) (passports.StatusCounts, error) {
	var counts passports.StatusCounts
	for _, p := range f.records {
		if ownerScope != nil && p.AuthorID != *ownerScope {
			continue
		}
		counts.Total++
		switch p.Status {
		case types.PassportStatusComplete:
			counts.Completed++
		case types.PassportStatusDraft:
			counts.InProgress++
		}
	}
	return counts, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func ctxAs(userID uuid.UUID, role string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Role:   role,
	})
}

func strp(s string) *string { return &s }

func assertStatus(t *testing.T, err error, wantStatus int, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d", wantStatus)
	}
	status, code := apierr.Resolve(err)
	if status != wantStatus || code != wantCode {
		t.Fatalf("error mapping: got (%d, %q) want (%d, %q): %v", status, code, wantStatus, wantCode, err)
	}
}

func newPassportTestService(t *testing.T) (PassportService, *fakePassportRepo) {
	t.Helper()
	repo := newFakePassportRepo()
	return NewPassportService(nil, testLogger(t), repo), repo
}

func TestPassportCreateDerivesFields(t *testing.T) {
	svc, _ := newPassportTestService(t)
	ctx := ctxAs(uuid.New(), types.RoleMember)

	pv, err := svc.Create(ctx, &PassportInput{
		Name:     strp("Concrete C30/37"),
		Category: strp("concrete"),
		Density:  strp("2.5"),
		Volume:   strp("4"),
		GwpA1:    strp("0.89"),
		GwpA2:    strp("0.12"),
		GwpA3:    strp("1.44"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pv.Weight == nil || *pv.Weight != "10" {
		t.Fatalf("derived weight: got %v want 10", pv.Weight)
	}
	if pv.GwpTotal == nil || *pv.GwpTotal != "2.45" {
		t.Fatalf("derived gwp total: got %v want 2.45", pv.GwpTotal)
	}
	if pv.Status != types.PassportStatusDraft {
		t.Fatalf("partial passport status: got %q want draft", pv.Status)
	}
	if pv.Completion.Percentage <= 0 || pv.Completion.Percentage >= 100 {
		t.Fatalf("completion out of range for partial passport: %d%%", pv.Completion.Percentage)
	}
}

func TestPassportCreateRequiresNameAndCategory(t *testing.T) {
	svc, _ := newPassportTestService(t)
	ctx := ctxAs(uuid.New(), types.RoleMember)

	_, err := svc.Create(ctx, &PassportInput{Category: strp("steel")})
	assertStatus(t, err, http.StatusBadRequest, "missing_name")

	_, err = svc.Create(ctx, &PassportInput{Name: strp("Beam")})
	assertStatus(t, err, http.StatusBadRequest, "missing_category")
}

func TestPassportCreateRejectsInvalidDecimal(t *testing.T) {
	svc, _ := newPassportTestService(t)
	ctx := ctxAs(uuid.New(), types.RoleMember)

	_, err := svc.Create(ctx, &PassportInput{
		Name:     strp("Beam"),
		Category: strp("steel"),
		Density:  strp("heavy"),
		Volume:   strp("4"),
	})
	assertStatus(t, err, http.StatusBadRequest, "invalid_number")
}

func TestPassportUpdateRecomputesWeight(t *testing.T) {
	svc, _ := newPassportTestService(t)
	ctx := ctxAs(uuid.New(), types.RoleMember)

	pv, err := svc.Create(ctx, &PassportInput{
		Name:     strp("Concrete"),
		Category: strp("concrete"),
		Density:  strp("2.5"),
		Volume:   strp("4"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A partial update touching only volume must recompute the weight from
	// the stored density.
	updated, err := svc.Update(ctx, pv.ID, &PassportInput{Volume: strp("5")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Weight == nil || *updated.Weight != "12.5" {
		t.Fatalf("weight after volume update: got %v want 12.5", updated.Weight)
	}
}

func TestViewerMayNotCreate(t *testing.T) {
	svc, _ := newPassportTestService(t)
	ctx := ctxAs(uuid.New(), types.RoleViewer)

	_, err := svc.Create(ctx, &PassportInput{Name: strp("Beam"), Category: strp("steel")})
	assertStatus(t, err, http.StatusForbidden, "forbidden")
}

func TestMemberCannotSeeForeignPassport(t *testing.T) {
	svc, _ := newPassportTestService(t)
	owner := uuid.New()
	stranger := uuid.New()

	pv, err := svc.Create(ctxAs(owner, types.RoleMember), &PassportInput{
		Name:     strp("Owned"),
		Category: strp("concrete"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The foreign record must read as absent, not forbidden.
	_, err = svc.Get(ctxAs(stranger, types.RoleMember), pv.ID)
	assertStatus(t, err, http.StatusNotFound, "passport_not_found")

	_, err = svc.Update(ctxAs(stranger, types.RoleMember), pv.ID, &PassportInput{Name: strp("Taken")})
	assertStatus(t, err, http.StatusNotFound, "passport_not_found")
}

func TestAuthorSeesAllPassports(t *testing.T) {
	svc, _ := newPassportTestService(t)
	memberA := uuid.New()
	memberB := uuid.New()

	for _, owner := range []uuid.UUID{memberA, memberB} {
		if _, err := svc.Create(ctxAs(owner, types.RoleMember), &PassportInput{
			Name:     strp("P"),
			Category: strp("concrete"),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := svc.List(ctxAs(uuid.New(), types.RoleAuthor))
	if err != nil {
		t.Fatalf("author list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("author list: got %d want 2", len(all))
	}

	own, err := svc.List(ctxAs(memberA, types.RoleMember))
	if err != nil {
		t.Fatalf("member list: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("member list: got %d want 1", len(own))
	}
}

func TestOnlyAuthorDeletes(t *testing.T) {
	svc, _ := newPassportTestService(t)
	member := uuid.New()

	pv, err := svc.Create(ctxAs(member, types.RoleMember), &PassportInput{
		Name:     strp("Doomed"),
		Category: strp("concrete"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(ctxAs(member, types.RoleMember), pv.ID)
	assertStatus(t, err, http.StatusForbidden, "forbidden")

	if err := svc.Delete(ctxAs(uuid.New(), types.RoleAuthor), pv.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	err = svc.Delete(ctxAs(uuid.New(), types.RoleAuthor), pv.ID)
	assertStatus(t, err, http.StatusNotFound, "passport_not_found")
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	svc, _ := newPassportTestService(t)
	_, err := svc.List(context.Background())
	assertStatus(t, err, http.StatusUnauthorized, "unauthorized")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc, _ := newPassportTestService(t)
	ctx := ctxAs(uuid.New(), types.RoleMember)

	pv, err := svc.Create(ctx, &PassportInput{Name: strp("Beam"), Category: strp("steel")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Update(ctx, pv.ID, &PassportInput{Status: strp("archived")})
	assertStatus(t, err, http.StatusBadRequest, "invalid_status")
}
