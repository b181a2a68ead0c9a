package models

import (
	"time"

	"gorm.io/gorm"
)

// RoleAdmin is the only role allowed into the dashboard.
const RoleAdmin = "admin"

// Role groups the permissions handed to users. Seeded with RoleAdmin.
type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique;not null"`
	Description string         `json:"description"`
	Permissions []Permission   `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Grants reports whether the role holds action on resource. Permissions must
// be preloaded.
func (r Role) Grants(resource, action string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
