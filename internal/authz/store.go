package authz

import (
	"context"

	"gorm.io/gorm"
)

// GormStore answers graph queries with read-only joins over the
// permission_role, role_user and project_user junction tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) HasPermission(ctx context.Context, userID uint, name string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN permission_role ON permission_role.permission_id = permissions.id").
		Joins("JOIN role_user ON role_user.role_id = permission_role.role_id").
		Where("role_user.user_id = ? AND permissions.name = ?", userID, name).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *GormStore) PermissionNames(ctx context.Context, userID uint) ([]string, error) {
	var names []string

	err := s.db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN permission_role ON permission_role.permission_id = permissions.id").
		Joins("JOIN role_user ON role_user.role_id = permission_role.role_id").
		Where("role_user.user_id = ?", userID).
		Distinct().
		Pluck("permissions.name", &names).Error

	if err != nil {
		return nil, err
	}

	return names, nil
}

func (s *GormStore) IsProjectMember(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Table("project_user").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
