package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/KlausJCB/MaterialPassportTool/internal/domain/user"
)

func TestPolicyTable(t *testing.T) {
	allOps := []Operation{
		OpPassportRead, OpPassportCreate, OpPassportUpdate, OpPassportDelete, OpPassportExport,
		OpComponentRead, OpComponentCreate,
		OpImportRun, OpImportRead,
		OpStatsRead,
	}
	readOnly := map[Operation]bool{
		OpPassportRead:   true,
		OpPassportExport: true,
		OpComponentRead:  true,
		OpImportRead:     true,
		OpStatsRead:      true,
	}

	for _, op := range allOps {
		op := op
		t.Run(string(op), func(t *testing.T) {
			if !Can(user.RoleAuthor, op) {
				t.Fatalf("author must be allowed %s", op)
			}
			wantMember := op != OpPassportDelete
			if got := Can(user.RoleMember, op); got != wantMember {
				t.Fatalf("member %s: got %v want %v", op, got, wantMember)
			}
			if got := Can(user.RoleViewer, op); got != readOnly[op] {
				t.Fatalf("viewer %s: got %v want %v", op, got, readOnly[op])
			}
		})
	}
}

func TestCanUnknownRole(t *testing.T) {
	if Can("admin", OpPassportRead) {
		t.Fatalf("unknown role must be denied")
	}
	if Can("", OpStatsRead) {
		t.Fatalf("empty role must be denied")
	}
}

func TestOwnerScope(t *testing.T) {
	userID := uuid.New()
	if scope := OwnerScope(user.RoleAuthor, userID); scope != nil {
		t.Fatalf("author scope must be nil, got %v", scope)
	}
	for _, role := range []string{user.RoleMember, user.RoleViewer} {
		scope := OwnerScope(role, userID)
		if scope == nil || *scope != userID {
			t.Fatalf("%s scope: got %v want %v", role, scope, userID)
		}
	}
}

func TestCanMutateResource(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	if !CanMutateResource(user.RoleAuthor, owner, other) {
		t.Fatalf("author must mutate any record")
	}
	if !CanMutateResource(user.RoleMember, owner, owner) {
		t.Fatalf("member must mutate own record")
	}
	if CanMutateResource(user.RoleMember, owner, other) {
		t.Fatalf("member must not mutate foreign record")
	}
}
