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

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	DisplayName string `json:"display_name" binding:"required,max=255"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"omitempty,max=255"`
	DisplayName string `json:"display_name" binding:"omitempty,max=255"`
}

type GrantPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required"`
}

func CreateRole(ctx *gin.Context) {
	var body CreateRoleRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	if !authorize(ctx, authz.ActionCreateRole, nil) {
		return
	}

	role := models.Role{
		Name:        body.Name,
		DisplayName: body.DisplayName,
	}

	if err := db.DB.Create(&role).Error; err != nil {
		log.Printf("Failed to create role: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to create role")
		return
	}

	utils.Success(ctx, http.StatusCreated, roleResponse(&role), "Role created successfully")
}

func ListRoles(ctx *gin.Context) {
	if !authorize(ctx, authz.ActionViewRole, nil) {
		return
	}

	var roles []models.Role

	if err := db.DB.Preload("Permissions").Find(&roles).Error; err != nil {
		log.Printf("Failed to list roles: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve roles")
		return
	}

	response := make([]types.RoleResponse, 0, len(roles))

	for i := range roles {
		response = append(response, roleResponse(&roles[i]))
	}

	utils.Success(ctx, http.StatusOK, response, "Roles retrieved successfully")
}

func GetRole(ctx *gin.Context) {
	role, ok := findRole(ctx, "Permissions")

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionViewRole, authz.AdminResource(authz.KindRole)) {
		return
	}

	utils.Success(ctx, http.StatusOK, roleResponse(role), "Role detail found")
}

func UpdateRole(ctx *gin.Context) {
	var body UpdateRoleRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	role, ok := findRole(ctx, "Permissions")

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionUpdateRole, authz.AdminResource(authz.KindRole)) {
		return
	}

	if body.Name != "" {
		role.Name = body.Name
	}

	if body.DisplayName != "" {
		role.DisplayName = body.DisplayName
	}

	if err := db.DB.Save(role).Error; err != nil {
		log.Printf("Failed to update role: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to update role")
		return
	}

	utils.Success(ctx, http.StatusOK, roleResponse(role), "Role updated successfully")
}

func DeleteRole(ctx *gin.Context) {
	role, ok := findRole(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionDeleteRole, authz.AdminResource(authz.KindRole)) {
		return
	}

	if err := db.DB.Delete(role).Error; err != nil {
		log.Printf("Failed to delete role: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to delete role")
		return
	}

	utils.Success(ctx, http.StatusOK, nil, "Role deleted successfully")
}

// GrantPermissions replaces the role's permission set with exactly the given
// permissions. The replacement is transactional and idempotent.
func GrantPermissions(ctx *gin.Context) {
	var body GrantPermissionsRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	role, ok := findRole(ctx)

	if !ok {
		return
	}

	var permissions []models.Permission

	if err := db.DB.Find(&permissions, body.PermissionIDs).Error; err != nil {
		log.Printf("Failed to retrieve permissions: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(permissions) != len(body.PermissionIDs) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"errors": gin.H{"permission_ids": "One or more permissions do not exist"},
		})
		return
	}

	if !authorize(ctx, authz.ActionUpdateRole, authz.AdminResource(authz.KindRole)) {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(role).Association("Permissions").Replace(permissions)
	})

	if err != nil {
		log.Printf("Failed to grant permissions: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to grant permissions")
		return
	}

	role.Permissions = permissions

	utils.Success(ctx, http.StatusOK, roleResponse(role), "Role permissions updated successfully")
}

func findRole(ctx *gin.Context, preloads ...string) (*models.Role, bool) {
	roleID, err := utils.GetIDParam(ctx, "role_id")

	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "Role not found")
		return nil, false
	}

	query := db.DB

	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var role models.Role

	if err := query.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Role not found")
		} else {
			log.Printf("Failed to retrieve role: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve role")
		}
		return nil, false
	}

	return &role, true
}

func roleResponse(role *models.Role) types.RoleResponse {
	permissions := make([]types.PermissionResponse, 0, len(role.Permissions))

	for _, permission := range role.Permissions {
		permissions = append(permissions, types.PermissionResponse{
			ID:          permission.ID,
			Name:        permission.Name,
			Description: permission.Description,
		})
	}

	return types.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Permissions: permissions,
	}
}
