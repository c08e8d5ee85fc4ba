package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	ProjectID   uint   `gorm:"not null;index"`
	AssignedTo  *uint  `gorm:"index"`
	Title       string `gorm:"not null"`
	Description string
	Priority    string `gorm:"not null"` // "low", "medium", "high"
	Status      string `gorm:"not null"` // "to-do", "in-progress", "done"

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
