package authz

import (
	"context"
	"errors"
)

// ErrDenied is the engine's deny outcome. Handlers surface it as a 403 with
// a generic message that never describes the resource.
var ErrDenied = errors.New("access denied")

// Store is the read-only view of the role/permission/membership graph the
// engine decides against. Implementations must not mutate anything.
type Store interface {
	// HasPermission reports whether the named permission is reachable from
	// any of the user's roles.
	HasPermission(ctx context.Context, userID uint, name string) (bool, error)

	// PermissionNames returns the distinct union of permission names across
	// all of the user's roles. A user with zero roles gets an empty set.
	PermissionNames(ctx context.Context, userID uint) ([]string, error)

	// IsProjectMember reports whether the user appears in the project's
	// member set.
	IsProjectMember(ctx context.Context, userID, projectID uint) (bool, error)
}

// Engine decides allow/deny for (user, action, resource) triples. It holds
// no state beyond the injected graph view, so a decision is a pure function
// of its inputs and the store's contents.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Authorize returns nil to allow and ErrDenied to deny.
//
// The decision is two-tier: a global capability check first (a user holding
// "view-project" views every project, not just their own), then a
// resource-scoped fallback through membership or assignment when a resource
// is supplied. Administrative kinds have no fallback.
func (e *Engine) Authorize(ctx context.Context, userID uint, action Action, resource *Resource) error {
	ok, err := e.store.HasPermission(ctx, userID, action.Permission())
	if err != nil {
		return err
	}

	if ok {
		return nil
	}

	if resource == nil {
		return ErrDenied
	}

	switch resource.Kind {
	case KindProject:
		member, err := e.store.IsProjectMember(ctx, userID, resource.ProjectID)

		if err != nil {
			return err
		}

		if member {
			return nil
		}
	case KindTask:
		if resource.AssignedTo != nil && *resource.AssignedTo == userID {
			return nil
		}

		member, err := e.store.IsProjectMember(ctx, userID, resource.ProjectID)

		if err != nil {
			return err
		}

		if member {
			return nil
		}
	}

	return ErrDenied
}

// HasGlobal reports whether the user holds the action's permission outright.
// List endpoints use it to choose between returning every row and applying
// the membership/assignment predicate as a query filter.
func (e *Engine) HasGlobal(ctx context.Context, userID uint, action Action) (bool, error) {
	return e.store.HasPermission(ctx, userID, action.Permission())
}
