package authz

// ResourceKind identifies what a scoped decision is about. Project and Task
// resources carry an ownership fallback; User, Role and Permission are
// administrative and never do.
type ResourceKind int

const (
	KindProject ResourceKind = iota
	KindTask
	KindUser
	KindRole
	KindPermission
)

// Resource is the target of a scoped authorization decision. A nil *Resource
// means the decision is purely capability-based (creates, lists).
type Resource struct {
	Kind       ResourceKind
	ProjectID  uint  // project, or a task's parent project
	AssignedTo *uint // task assignee, when any
}

// ProjectResource describes a project as an authorization target.
func ProjectResource(projectID uint) *Resource {
	return &Resource{Kind: KindProject, ProjectID: projectID}
}

// TaskResource describes a task by its parent project and assignee.
func TaskResource(projectID uint, assignedTo *uint) *Resource {
	return &Resource{Kind: KindTask, ProjectID: projectID, AssignedTo: assignedTo}
}

// AdminResource describes an administrative target (user, role, permission);
// these kinds have no ownership fallback.
func AdminResource(kind ResourceKind) *Resource {
	return &Resource{Kind: kind}
}
