package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
)

func TestDashboardScopedCounts(t *testing.T) {
	passports := newFakePassportRepo()
	components := &fakeComponentRepo{}
	svc := NewStatsService(nil, testLogger(t), passports, components)

	alice := uuid.New()
	bob := uuid.New()
	seed := []*types.MaterialPassport{
		{ID: uuid.New(), Name: "A1", Category: "c", Status: types.PassportStatusDraft, AuthorID: alice},
		{ID: uuid.New(), Name: "A2", Category: "c", Status: types.PassportStatusComplete, AuthorID: alice},
		{ID: uuid.New(), Name: "B1", Category: "c", Status: types.PassportStatusDraft, AuthorID: bob},
	}
	if _, err := passports.Create(dbctx.Context{}, seed); err != nil {
		t.Fatalf("seed passports: %v", err)
	}
	if _, err := components.Create(dbctx.Context{}, []*types.Component{
		{ID: uuid.New(), Name: "Beam", Category: "steel", AuthorID: alice},
	}); err != nil {
		t.Fatalf("seed components: %v", err)
	}

	scoped, err := svc.Dashboard(ctxAs(alice, types.RoleMember))
	if err != nil {
		t.Fatalf("member dashboard: %v", err)
	}
	if scoped.TotalPassports != 2 || scoped.Completed != 1 || scoped.InProgress != 1 || scoped.TotalComponents != 1 {
		t.Fatalf("member stats: %+v", scoped)
	}

	all, err := svc.Dashboard(ctxAs(uuid.New(), types.RoleAuthor))
	if err != nil {
		t.Fatalf("author dashboard: %v", err)
	}
	if all.TotalPassports != 3 || all.InProgress != 2 {
		t.Fatalf("author stats: %+v", all)
	}
}

func TestDashboardRequiresAuthenticatedUser(t *testing.T) {
	svc := NewStatsService(nil, testLogger(t), newFakePassportRepo(), &fakeComponentRepo{})
	_, err := svc.Dashboard(context.Background())
	assertStatus(t, err, http.StatusUnauthorized, "unauthorized")
}
