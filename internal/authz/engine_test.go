package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory graph snapshot for engine tests.
type fakeStore struct {
	permissions map[uint][]string // userID -> permission names
	members     map[uint][]uint   // projectID -> member user ids
}

func (s *fakeStore) HasPermission(ctx context.Context, userID uint, name string) (bool, error) {
	for _, p := range s.permissions[userID] {
		if p == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) PermissionNames(ctx context.Context, userID uint) ([]string, error) {
	return s.permissions[userID], nil
}

func (s *fakeStore) IsProjectMember(ctx context.Context, userID, projectID uint) (bool, error) {
	for _, id := range s.members[projectID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func TestAuthorizeGlobalCapability(t *testing.T) {
	engine := NewEngine(&fakeStore{
		permissions: map[uint][]string{
			1: {"view-project", "delete-project"},
		},
	})

	// Holder of view-project views any project, membership irrelevant.
	err := engine.Authorize(context.Background(), 1, ActionViewProject, ProjectResource(99))
	assert.NoError(t, err)

	// Global check alone also decides resource-less actions.
	err = engine.Authorize(context.Background(), 1, ActionDeleteProject, nil)
	assert.NoError(t, err)

	// Missing capability with no resource supplied is a deny.
	err = engine.Authorize(context.Background(), 1, ActionCreateProject, nil)
	assert.ErrorIs(t, err, ErrDenied)
}

func TestAuthorizeMembershipFallback(t *testing.T) {
	engine := NewEngine(&fakeStore{
		permissions: map[uint][]string{},
		members:     map[uint][]uint{10: {1}},
	})

	// Member of project 10, no global capability.
	err := engine.Authorize(context.Background(), 1, ActionViewProject, ProjectResource(10))
	assert.NoError(t, err)

	// Not a member of project 20.
	err = engine.Authorize(context.Background(), 1, ActionViewProject, ProjectResource(20))
	assert.ErrorIs(t, err, ErrDenied)
}

func TestAuthorizeAssignmentFallback(t *testing.T) {
	assignee := uint(7)
	engine := NewEngine(&fakeStore{
		permissions: map[uint][]string{},
		members:     map[uint][]uint{10: {3}},
	})

	tests := []struct {
		name    string
		userID  uint
		res     *Resource
		allowed bool
	}{
		{"assignee sees own task", 7, TaskResource(50, &assignee), true},
		{"project member sees project task", 3, TaskResource(10, &assignee), true},
		{"stranger denied", 4, TaskResource(10, &assignee), false},
		{"unassigned task, non-member denied", 7, TaskResource(10, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Authorize(context.Background(), tt.userID, ActionViewTask, tt.res)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrDenied)
			}
		})
	}
}

func TestAuthorizeAdministrativeResourcesHaveNoFallback(t *testing.T) {
	engine := NewEngine(&fakeStore{
		permissions: map[uint][]string{},
		members:     map[uint][]uint{10: {1}},
	})

	for _, kind := range []ResourceKind{KindUser, KindRole, KindPermission} {
		err := engine.Authorize(context.Background(), 1, ActionViewUser, AdminResource(kind))
		assert.ErrorIs(t, err, ErrDenied)
	}
}

func TestAuthorizeZeroRoles(t *testing.T) {
	// A user absent from the graph has an empty capability set; everything
	// falls through to the resource-scoped fallback.
	engine := NewEngine(&fakeStore{})

	for action := range actionPermissions {
		err := engine.Authorize(context.Background(), 42, action, nil)
		assert.ErrorIs(t, err, ErrDenied, "action %v", action)
	}
}

func TestHasGlobal(t *testing.T) {
	engine := NewEngine(&fakeStore{
		permissions: map[uint][]string{1: {"view-tasks"}},
	})

	ok, err := engine.HasGlobal(context.Background(), 1, ActionViewTask)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.HasGlobal(context.Background(), 1, ActionViewProject)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEveryActionHasARegisteredPermission(t *testing.T) {
	for action := ActionViewProject; action <= ActionDeletePermission; action++ {
		assert.NotEmpty(t, action.Permission(), "action %d has no permission mapping", action)
	}
}
