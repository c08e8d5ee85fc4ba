package types

import "time"

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserDetailResponse struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Roles []RoleResponse `json:"roles"`
}

type RoleResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	DisplayName string               `json:"display_name"`
	Permissions []PermissionResponse `json:"permissions,omitempty"`
}

type PermissionResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProjectResponse struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	MembersCount int            `json:"members_count"`
	TasksCount   int            `json:"tasks_count"`
	Members      []UserResponse `json:"members,omitempty"`
	Tasks        []TaskResponse `json:"tasks,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type TaskResponse struct {
	ID          uint          `json:"id"`
	ProjectID   uint          `json:"project_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	Assignee    *UserResponse `json:"assignee"`
}
