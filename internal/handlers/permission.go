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

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=700"`
}

type UpdatePermissionRequest struct {
	Name        string `json:"name" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=700"`
}

func CreatePermission(ctx *gin.Context) {
	var body CreatePermissionRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	if !authorize(ctx, authz.ActionCreatePermission, nil) {
		return
	}

	permission := models.Permission{
		Name:        body.Name,
		Description: body.Description,
	}

	if err := db.DB.Create(&permission).Error; err != nil {
		log.Printf("Failed to create permission: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to create permission")
		return
	}

	utils.Success(ctx, http.StatusCreated, permissionResponse(&permission), "Permission created successfully")
}

func ListPermissions(ctx *gin.Context) {
	if !authorize(ctx, authz.ActionViewPermission, nil) {
		return
	}

	var permissions []models.Permission

	if err := db.DB.Find(&permissions).Error; err != nil {
		log.Printf("Failed to list permissions: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve permissions")
		return
	}

	response := make([]types.PermissionResponse, 0, len(permissions))

	for i := range permissions {
		response = append(response, permissionResponse(&permissions[i]))
	}

	utils.Success(ctx, http.StatusOK, response, "Permissions retrieved successfully")
}

func GetPermission(ctx *gin.Context) {
	permission, ok := findPermission(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionViewPermission, authz.AdminResource(authz.KindPermission)) {
		return
	}

	utils.Success(ctx, http.StatusOK, permissionResponse(permission), "Permission detail found")
}

func UpdatePermission(ctx *gin.Context) {
	var body UpdatePermissionRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	permission, ok := findPermission(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionUpdatePermission, authz.AdminResource(authz.KindPermission)) {
		return
	}

	if body.Name != "" {
		permission.Name = body.Name
	}

	if body.Description != "" {
		permission.Description = body.Description
	}

	if err := db.DB.Save(permission).Error; err != nil {
		log.Printf("Failed to update permission: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to update permission")
		return
	}

	utils.Success(ctx, http.StatusOK, permissionResponse(permission), "Permission updated successfully")
}

func DeletePermission(ctx *gin.Context) {
	permission, ok := findPermission(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionDeletePermission, authz.AdminResource(authz.KindPermission)) {
		return
	}

	if err := db.DB.Delete(permission).Error; err != nil {
		log.Printf("Failed to delete permission: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to delete permission")
		return
	}

	utils.Success(ctx, http.StatusOK, nil, "Permission deleted successfully")
}

func findPermission(ctx *gin.Context) (*models.Permission, bool) {
	permissionID, err := utils.GetIDParam(ctx, "permission_id")

	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "Permission not found")
		return nil, false
	}

	var permission models.Permission

	if err := db.DB.First(&permission, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Permission not found")
		} else {
			log.Printf("Failed to retrieve permission: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve permission")
		}
		return nil, false
	}

	return &permission, true
}

func permissionResponse(permission *models.Permission) types.PermissionResponse {
	return types.PermissionResponse{
		ID:          permission.ID,
		Name:        permission.Name,
		Description: permission.Description,
	}
}
