package domain

import (
	"github.com/KlausJCB/MaterialPassportTool/internal/domain/auth"
	"github.com/KlausJCB/MaterialPassportTool/internal/domain/component"
	"github.com/KlausJCB/MaterialPassportTool/internal/domain/imports"
	"github.com/KlausJCB/MaterialPassportTool/internal/domain/passport"
	"github.com/KlausJCB/MaterialPassportTool/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type MaterialPassport = passport.MaterialPassport
type Constituent = passport.Constituent
type Component = component.Component
type ImportJob = imports.ImportJob

const (
	RoleAuthor = user.RoleAuthor
	RoleMember = user.RoleMember
	RoleViewer = user.RoleViewer
)

const (
	PassportStatusDraft     = passport.StatusDraft
	PassportStatusComplete  = passport.StatusComplete
	PassportStatusPublished = passport.StatusPublished
)

const (
	ImportJobTypeExcel = imports.JobTypeExcel
	ImportJobTypeCSV   = imports.JobTypeCSV
	ImportJobTypeIFC   = imports.JobTypeIFC

	ImportJobStatusProcessing = imports.StatusProcessing
	ImportJobStatusCompleted  = imports.StatusCompleted
	ImportJobStatusFailed     = imports.StatusFailed
)
