package db

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive/internal/models"
)

// The full capability catalog. Permissions live as rows, not code constants;
// this seed only guarantees the baseline set exists.
var seedPermissions = []string{
	"view-project", "create-project", "update-project", "delete-project",
	"view-tasks", "create-task", "update-task", "delete-task",
	"view-user", "create-user", "update-user", "delete-user",
	"view-role", "create-role", "update-role", "delete-role",
	"view-permission", "create-permission", "update-permission", "delete-permission",
}

var seedRoles = []models.Role{
	{Name: "super-admin", DisplayName: "Super Admin"},
	{Name: "manager", DisplayName: "Project Manager"},
	{Name: "staff", DisplayName: "Regular Staff"},
}

// SeedDatabase creates the baseline roles, the permission catalog, and an
// initial admin user holding every permission. Safe to run repeatedly.
func SeedDatabase(adminEmail, adminPassword string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var permissions []models.Permission

		for _, name := range seedPermissions {
			permission := models.Permission{Name: name}

			if err := tx.Where("name = ?", name).FirstOrCreate(&permission).Error; err != nil {
				return err
			}

			permissions = append(permissions, permission)
		}

		for i := range seedRoles {
			role := seedRoles[i]

			if err := tx.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
				return err
			}

			if role.Name == "super-admin" {
				if err := tx.Model(&role).Association("Permissions").Replace(permissions); err != nil {
					return err
				}
			}
		}

		if adminEmail == "" {
			return nil
		}

		var admin models.User

		err := tx.Where("email = ?", adminEmail).First(&admin).Error

		if err == nil {
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)

		if err != nil {
			return err
		}

		var adminRole models.Role

		if err := tx.Where("name = ?", "super-admin").First(&adminRole).Error; err != nil {
			return err
		}

		admin = models.User{
			Name:         "Super Admin",
			Email:        adminEmail,
			PasswordHash: string(passwordHash),
			Roles:        []models.Role{adminRole},
		}

		return tx.Create(&admin).Error
	})
}
