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

type CreateTaskRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	AssignedTo  *uint  `json:"assigned_to"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=700"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high"`
	Status      string `json:"status" binding:"required,oneof=to-do in-progress done"`
}

type UpdateTaskRequest struct {
	AssignedTo  *uint  `json:"assigned_to"`
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=700"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string `json:"status" binding:"omitempty,oneof=to-do in-progress done"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=to-do in-progress done"`
}

func CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	var project models.Project

	if err := db.DB.First(&project, body.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Validation failed",
				"errors": gin.H{"project_id": "The selected project does not exist"},
			})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if !validateAssignee(ctx, body.AssignedTo) {
		return
	}

	// Members of the parent project may create tasks in it without the
	// global capability.
	if !authorize(ctx, authz.ActionCreateTask, authz.TaskResource(project.ID, nil)) {
		return
	}

	task := models.Task{
		ProjectID:   body.ProjectID,
		AssignedTo:  body.AssignedTo,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Status:      body.Status,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to create task")
		return
	}

	utils.Success(ctx, http.StatusCreated, taskResponse(&task), "Task created successfully")
}

// ListTasks returns every task for holders of the global view capability,
// otherwise the tasks the caller is assigned to or can reach through project
// membership. An optional project_id query narrows either set.
func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	all, err := authorizer.HasGlobal(ctx.Request.Context(), userID, authz.ActionViewTask)

	if err != nil {
		log.Printf("Authorization query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	query := db.DB.Preload("Assignee")

	if !all {
		query = query.Where(
			"assigned_to = ? OR project_id IN (SELECT project_id FROM project_user WHERE user_id = ?)",
			userID, userID,
		)
	}

	if projectID := ctx.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		log.Printf("Failed to list tasks: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}

	response := make([]types.TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, taskResponse(&tasks[i]))
	}

	utils.Success(ctx, http.StatusOK, response, "Tasks retrieved successfully")
}

func GetTask(ctx *gin.Context) {
	task, ok := findTask(ctx, "Assignee")

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionViewTask, authz.TaskResource(task.ProjectID, task.AssignedTo)) {
		return
	}

	utils.Success(ctx, http.StatusOK, taskResponse(task), "Task detail found")
}

func UpdateTask(ctx *gin.Context) {
	var body UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	if !validateAssignee(ctx, body.AssignedTo) {
		return
	}

	task, ok := findTask(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionUpdateTask, authz.TaskResource(task.ProjectID, task.AssignedTo)) {
		return
	}

	if body.Title != "" {
		task.Title = body.Title
	}

	if body.Description != "" {
		task.Description = body.Description
	}

	if body.Priority != "" {
		task.Priority = body.Priority
	}

	if body.Status != "" {
		task.Status = body.Status
	}

	if body.AssignedTo != nil {
		task.AssignedTo = body.AssignedTo
	}

	if err := db.DB.Save(task).Error; err != nil {
		log.Printf("Failed to update task: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to update task")
		return
	}

	utils.Success(ctx, http.StatusOK, taskResponse(task), "Task updated successfully")
}

func UpdateTaskStatus(ctx *gin.Context) {
	var body UpdateTaskStatusRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	task, ok := findTask(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionUpdateTask, authz.TaskResource(task.ProjectID, task.AssignedTo)) {
		return
	}

	if err := db.DB.Model(task).Update("status", body.Status).Error; err != nil {
		log.Printf("Failed to update task status: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to update task status")
		return
	}

	utils.Success(ctx, http.StatusOK, taskResponse(task), "Task status updated successfully")
}

func DeleteTask(ctx *gin.Context) {
	task, ok := findTask(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionDeleteTask, authz.TaskResource(task.ProjectID, task.AssignedTo)) {
		return
	}

	if err := db.DB.Delete(task).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	utils.Success(ctx, http.StatusOK, nil, "Task deleted successfully")
}

func findTask(ctx *gin.Context, preloads ...string) (*models.Task, bool) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "Task not found")
		return nil, false
	}

	query := db.DB

	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var task models.Task

	if err := query.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Task not found")
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve task")
		}
		return nil, false
	}

	return &task, true
}

func validateAssignee(ctx *gin.Context, assignedTo *uint) bool {
	if assignedTo == nil {
		return true
	}

	var user models.User

	if err := db.DB.First(&user, *assignedTo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Validation failed",
				"errors": gin.H{"assigned_to": "The selected assignee does not exist"},
			})
		} else {
			log.Printf("Failed to retrieve assignee: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		}
		return false
	}

	return true
}

func taskResponse(task *models.Task) types.TaskResponse {
	response := types.TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
	}

	if task.Assignee != nil {
		response.Assignee = &types.UserResponse{
			ID:    task.Assignee.ID,
			Name:  task.Assignee.Name,
			Email: task.Assignee.Email,
		}
	}

	return response
}
