package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level a user holds on a board.
type Role string

const (
	RoleOwner  Role = "owner"  // full control, including delete and member management
	RoleMember Role = "member" // read access
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleMember
}

// BoardMember ties a user to a board with a role. A user has at most one
// membership per board, enforced by the composite primary key.
type BoardMember struct {
	BoardID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      Role      `gorm:"not null;check:role IN ('owner', 'member')"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}
