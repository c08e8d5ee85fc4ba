package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=700"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=700"`
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	if !authorize(ctx, authz.ActionCreateProject, nil) {
		return
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to create project")
		return
	}

	utils.Success(ctx, http.StatusCreated, projectResponse(&project), "Project created successfully")
}

// ListProjects returns every project when the caller holds the global view
// capability, otherwise only the projects the caller is a member of.
func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	all, err := authorizer.HasGlobal(ctx.Request.Context(), userID, authz.ActionViewProject)

	if err != nil {
		log.Printf("Authorization query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	query := db.DB.Preload("Members").Preload("Tasks")

	if !all {
		query = query.Where(
			"id IN (SELECT project_id FROM project_user WHERE user_id = ?)", userID,
		)
	}

	var projects []models.Project

	if err := query.Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for i := range projects {
		summary := projectResponse(&projects[i])
		summary.Members = nil
		summary.Tasks = nil
		response = append(response, summary)
	}

	utils.Success(ctx, http.StatusOK, response, "Projects retrieved successfully")
}

func GetProject(ctx *gin.Context) {
	project, ok := findProject(ctx, "Tasks.Assignee", "Members")

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionViewProject, authz.ProjectResource(project.ID)) {
		return
	}

	utils.Success(ctx, http.StatusOK, projectResponse(project), "Project detail found")
}

func UpdateProject(ctx *gin.Context) {
	var body UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	project, ok := findProject(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionUpdateProject, authz.ProjectResource(project.ID)) {
		return
	}

	if body.Name != "" {
		project.Name = body.Name
	}

	if body.Description != "" {
		project.Description = body.Description
	}

	if err := db.DB.Save(project).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to update project")
		return
	}

	utils.Success(ctx, http.StatusOK, projectResponse(project), "Project updated successfully")
}

func DeleteProject(ctx *gin.Context) {
	project, ok := findProject(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionDeleteProject, authz.ProjectResource(project.ID)) {
		return
	}

	if err := db.DB.Delete(project).Error; err != nil {
		log.Printf("Failed to delete project: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	utils.Success(ctx, http.StatusOK, nil, "Project deleted successfully")
}

type UpdateProjectMembersRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
}

// UpdateProjectMembers replaces the project's member set with exactly the
// given users. Submitting the same set twice is a no-op the second time.
func UpdateProjectMembers(ctx *gin.Context) {
	var body UpdateProjectMembersRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	project, ok := findProject(ctx)

	if !ok {
		return
	}

	var users []models.User

	if err := db.DB.Find(&users, body.UserIDs).Error; err != nil {
		log.Printf("Failed to retrieve users: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(users) != len(body.UserIDs) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"errors": gin.H{"user_ids": "One or more users do not exist"},
		})
		return
	}

	if !authorize(ctx, authz.ActionUpdateProject, authz.ProjectResource(project.ID)) {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(project).Association("Members").Replace(users)
	})

	if err != nil {
		log.Printf("Failed to update project members: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to update project members")
		return
	}

	project.Members = users

	utils.Success(ctx, http.StatusOK, projectResponse(project), "Project members updated successfully")
}

func findProject(ctx *gin.Context, preloads ...string) (*models.Project, bool) {
	projectID, err := utils.GetIDParam(ctx, "project_id")

	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "Project not found")
		return nil, false
	}

	query := db.DB

	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var project models.Project

	if err := query.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Project not found")
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve project")
		}
		return nil, false
	}

	return &project, true
}

func projectResponse(project *models.Project) types.ProjectResponse {
	members := make([]types.UserResponse, 0, len(project.Members))

	for _, member := range project.Members {
		members = append(members, types.UserResponse{
			ID:    member.ID,
			Name:  member.Name,
			Email: member.Email,
		})
	}

	tasks := make([]types.TaskResponse, 0, len(project.Tasks))

	for i := range project.Tasks {
		tasks = append(tasks, taskResponse(&project.Tasks[i]))
	}

	return types.ProjectResponse{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		MembersCount: len(project.Members),
		TasksCount:   len(project.Tasks),
		Members:      members,
		Tasks:        tasks,
		CreatedAt:    project.CreatedAt,
	}
}
