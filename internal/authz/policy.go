package authz

import (
	"github.com/google/uuid"

	"github.com/KlausJCB/MaterialPassportTool/internal/domain/user"
)

type Operation string

const (
	OpPassportRead   Operation = "passport:read"
	OpPassportCreate Operation = "passport:create"
	OpPassportUpdate Operation = "passport:update"
	OpPassportDelete Operation = "passport:delete"
	OpPassportExport Operation = "passport:export"

	OpComponentRead   Operation = "component:read"
	OpComponentCreate Operation = "component:create"

	OpImportRun  Operation = "import:run"
	OpImportRead Operation = "import:read"

	OpStatsRead Operation = "stats:read"
)

// policy is the single source of authorization truth: (role, operation) →
// allow. Handlers and services never branch on role directly.
var policy = map[string]map[Operation]bool{
	user.RoleAuthor: {
		OpPassportRead:    true,
		OpPassportCreate:  true,
		OpPassportUpdate:  true,
		OpPassportDelete:  true,
		OpPassportExport:  true,
		OpComponentRead:   true,
		OpComponentCreate: true,
		OpImportRun:       true,
		OpImportRead:      true,
		OpStatsRead:       true,
	},
	user.RoleMember: {
		OpPassportRead:    true,
		OpPassportCreate:  true,
		OpPassportUpdate:  true,
		OpPassportExport:  true,
		OpComponentRead:   true,
		OpComponentCreate: true,
		OpImportRun:       true,
		OpImportRead:      true,
		OpStatsRead:       true,
	},
	user.RoleViewer: {
		OpPassportRead:   true,
		OpPassportExport: true,
		OpComponentRead:  true,
		OpImportRead:     true,
		OpStatsRead:      true,
	},
}

// Can reports whether role may perform op at all, before ownership scoping.
func Can(role string, op Operation) bool {
	ops, ok := policy[role]
	if !ok {
		return false
	}
	return ops[op]
}

// OwnerScope returns the owner filter applied to every read: nil means
// unscoped (authors see everything), otherwise queries are restricted to
// records owned by the requesting user. Single-record reads use the same
// scope as list reads.
func OwnerScope(role string, userID uuid.UUID) *uuid.UUID {
	if role == user.RoleAuthor {
		return nil
	}
	return &userID
}

// CanMutateResource reports whether the caller may mutate a record owned by
// ownerID. Authors may mutate anything; everyone else only their own.
func CanMutateResource(role string, ownerID, userID uuid.UUID) bool {
	if role == user.RoleAuthor {
		return true
	}
	return ownerID == userID
}
