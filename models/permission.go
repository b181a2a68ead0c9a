package models

import (
	"time"

	"gorm.io/gorm"
)

type Permission struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique"`
	Description string         `json:"description"`
	Resource    string         `json:"resource"` // "doctors", "reports", "settings"
	Action      string         `json:"action"`   // "create", "read", "update", "delete"
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	Roles       []Role         `json:"roles,omitempty" gorm:"many2many:role_permissions;foreignKey:ID;joinForeignKey:PermissionID;references:ID;joinReferences:RoleID"`
}

// Resources guarded by RequirePermission.
const (
	ResourceDoctors  = "doctors"
	ResourceReports  = "reports"
	ResourceSettings = "settings"
)

const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// DefaultPermissions is the full permission set granted to the admin role.
func DefaultPermissions() []Permission {
	var perms []Permission
	for _, resource := range []string{ResourceDoctors, ResourceReports, ResourceSettings} {
		for _, action := range []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			perms = append(perms, Permission{
				Name:        action + "_" + resource,
				Description: action + " " + resource,
				Resource:    resource,
				Action:      action,
			})
		}
	}
	return perms
}
