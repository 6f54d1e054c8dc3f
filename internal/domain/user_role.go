package domain

import "time"

// UserRole is the user↔role association. AssignedBy intentionally carries a
// RESTRICT rule: removing the assigning user must not silently delete (or
// orphan) the assignment record.
type UserRole struct {
	UserID     string    `gorm:"primaryKey;size:40;uniqueIndex:idx_user_roles_user_role" json:"userId"`
	RoleID     string    `gorm:"primaryKey;size:40;uniqueIndex:idx_user_roles_user_role" json:"roleId"`
	AssignedAt time.Time `gorm:"not null" json:"assignedAt"`
	AssignedBy *string   `gorm:"size:40" json:"assignedBy,omitempty"`

	User           User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role           Role  `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedByUser *User `gorm:"foreignKey:AssignedBy;constraint:OnDelete:RESTRICT" json:"-"`
}
