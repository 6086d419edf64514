package passports

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE material_passport (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		author_id TEXT NOT NULL,
		density TEXT, volume TEXT, weight TEXT,
		strength_class TEXT, service_life INTEGER, fire_resistance TEXT,
		content_reference TEXT,
		constituents TEXT, svhc_flag BOOLEAN DEFAULT 0, reach_compliance BOOLEAN DEFAULT 0, voc_class TEXT,
		gtin TEXT, ean TEXT, cas TEXT, manufacturer TEXT, bom_object_guid TEXT,
		disassembly_rating TEXT, recyclability_percentage TEXT,
		gwp_a1 TEXT, gwp_a2 TEXT, gwp_a3 TEXT, gwp_total TEXT, stage_d_reduction TEXT, net_gwp TEXT,
		odp TEXT, acidification_potential TEXT,
		created_at DATETIME, updated_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) (PassportRepo, dbctx.Context) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewPassportRepo(openTestDB(t), log), dbctx.Context{Ctx: context.Background()}
}

func createPassport(t *testing.T, repo PassportRepo, dbc dbctx.Context, name, status string, authorID uuid.UUID) *types.MaterialPassport {
	t.Helper()
	p := &types.MaterialPassport{
		ID:       uuid.New(),
		Name:     name,
		Category: "concrete",
		Status:   status,
		AuthorID: authorID,
	}
	if _, err := repo.Create(dbc, []*types.MaterialPassport{p}); err != nil {
		t.Fatalf("create passport: %v", err)
	}
	return p
}

func TestGetByIDScoping(t *testing.T) {
	repo, dbc := newTestRepo(t)
	owner := uuid.New()
	other := uuid.New()
	p := createPassport(t, repo, dbc, "Concrete C30/37", types.PassportStatusDraft, owner)

	got, err := repo.GetByID(dbc, p.ID, &owner)
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if got == nil || got.ID != p.ID {
		t.Fatalf("owner must see own passport")
	}

	got, err = repo.GetByID(dbc, p.ID, &other)
	if err != nil {
		t.Fatalf("get as other: %v", err)
	}
	if got != nil {
		t.Fatalf("foreign passport must read as absent")
	}

	got, err = repo.GetByID(dbc, p.ID, nil)
	if err != nil {
		t.Fatalf("get unscoped: %v", err)
	}
	if got == nil {
		t.Fatalf("unscoped read must see the passport")
	}
}

func TestListScoping(t *testing.T) {
	repo, dbc := newTestRepo(t)
	alice := uuid.New()
	bob := uuid.New()
	createPassport(t, repo, dbc, "Alice 1", types.PassportStatusDraft, alice)
	createPassport(t, repo, dbc, "Alice 2", types.PassportStatusDraft, alice)
	createPassport(t, repo, dbc, "Bob 1", types.PassportStatusDraft, bob)

	scoped, err := repo.List(dbc, &alice)
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("scoped list: got %d want 2", len(scoped))
	}
	for _, p := range scoped {
		if p.AuthorID != alice {
			t.Fatalf("scoped list leaked passport of %s", p.AuthorID)
		}
	}

	all, err := repo.List(dbc, nil)
	if err != nil {
		t.Fatalf("list unscoped: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unscoped list: got %d want 3", len(all))
	}
}

func TestFullDeleteByID(t *testing.T) {
	repo, dbc := newTestRepo(t)
	p := createPassport(t, repo, dbc, "Doomed", types.PassportStatusDraft, uuid.New())

	ok, err := repo.FullDeleteByID(dbc, p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Fatalf("delete reported no rows")
	}

	ok, err = repo.FullDeleteByID(dbc, p.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if ok {
		t.Fatalf("second delete must be a no-op")
	}

	got, err := repo.GetByID(dbc, p.ID, nil)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted passport still readable")
	}
}

func TestCountByStatus(t *testing.T) {
	repo, dbc := newTestRepo(t)
	alice := uuid.New()
	bob := uuid.New()
	createPassport(t, repo, dbc, "A draft", types.PassportStatusDraft, alice)
	createPassport(t, repo, dbc, "A complete", types.PassportStatusComplete, alice)
	createPassport(t, repo, dbc, "A published", types.PassportStatusPublished, alice)
	createPassport(t, repo, dbc, "B draft", types.PassportStatusDraft, bob)

	scoped, err := repo.CountByStatus(dbc, &alice)
	if err != nil {
		t.Fatalf("count scoped: %v", err)
	}
	if scoped.Total != 3 || scoped.Completed != 1 || scoped.InProgress != 1 {
		t.Fatalf("scoped counts: %+v", scoped)
	}

	all, err := repo.CountByStatus(dbc, nil)
	if err != nil {
		t.Fatalf("count unscoped: %v", err)
	}
	if all.Total != 4 || all.InProgress != 2 {
		t.Fatalf("unscoped counts: %+v", all)
	}
}
