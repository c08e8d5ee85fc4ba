package models

import "gorm.io/gorm"

// Permission is an atomic capability ("create-project", "view-tasks").
// Permissions are administered as data; adding a capability is an insert,
// not a deploy.
type Permission struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	Description string

	// Relationships
	Roles []Role `gorm:"many2many:permission_role;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
