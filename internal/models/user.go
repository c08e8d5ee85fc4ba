package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Relationships
	Roles []Role `gorm:"many2many:role_user;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks []Task `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
