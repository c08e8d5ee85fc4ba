package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string

	// Relationships
	Members []User `gorm:"many2many:project_user;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks   []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
