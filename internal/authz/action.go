package authz

// Action is a closed enumeration of everything the API lets a caller do.
// Each action maps to exactly one required permission name below, so every
// endpoint's requirement is declared in one place.
type Action int

const (
	ActionViewProject Action = iota
	ActionCreateProject
	ActionUpdateProject
	ActionDeleteProject

	ActionViewTask
	ActionCreateTask
	ActionUpdateTask
	ActionDeleteTask

	ActionViewUser
	ActionCreateUser
	ActionUpdateUser
	ActionDeleteUser

	ActionViewRole
	ActionCreateRole
	ActionUpdateRole
	ActionDeleteRole

	ActionViewPermission
	ActionCreatePermission
	ActionUpdatePermission
	ActionDeletePermission
)

// Permission names are stable data keys shared with the seeded catalog.
// Note the task list capability is the plural "view-tasks".
var actionPermissions = map[Action]string{
	ActionViewProject:   "view-project",
	ActionCreateProject: "create-project",
	ActionUpdateProject: "update-project",
	ActionDeleteProject: "delete-project",

	ActionViewTask:   "view-tasks",
	ActionCreateTask: "create-task",
	ActionUpdateTask: "update-task",
	ActionDeleteTask: "delete-task",

	ActionViewUser:   "view-user",
	ActionCreateUser: "create-user",
	ActionUpdateUser: "update-user",
	ActionDeleteUser: "delete-user",

	ActionViewRole:   "view-role",
	ActionCreateRole: "create-role",
	ActionUpdateRole: "update-role",
	ActionDeleteRole: "delete-role",

	ActionViewPermission:   "view-permission",
	ActionCreatePermission: "create-permission",
	ActionUpdatePermission: "update-permission",
	ActionDeletePermission: "delete-permission",
}

// Permission returns the permission name required to perform the action
// globally.
func (a Action) Permission() string {
	return actionPermissions[a]
}
