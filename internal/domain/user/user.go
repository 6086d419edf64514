package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAuthor = "author"
	RoleMember = "member"
	RoleViewer = "viewer"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	FirstName       string    `gorm:"column:first_name" json:"first_name"`
	LastName        string    `gorm:"column:last_name" json:"last_name"`
	ProfileImageURL string    `gorm:"column:profile_image_url" json:"profile_image_url"`
	Role            string    `gorm:"not null;default:viewer;column:role" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func ValidRole(role string) bool {
	switch role {
	case RoleAuthor, RoleMember, RoleViewer:
		return true
	}
	return false
}
