package models

import "gorm.io/gorm"

// Role is a named bundle of permissions. Name is the stable key used in
// code paths ("super-admin", "staff"); DisplayName is presentation only.
type Role struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"not null"`

	// Relationships
	Permissions []Permission `gorm:"many2many:permission_role;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Users       []User       `gorm:"many2many:role_user;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
