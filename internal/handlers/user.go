package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleIDs  []uint `json:"role_ids"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty,max=255"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	RoleIDs  []uint `json:"role_ids"`
}

type AssignRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}

// CreateUser creates the user row and its initial role attachments as a
// single transaction; if the role attachment fails, nothing is persisted.
func CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	// Cross-table validation still precedes authorization.
	if !emailAvailable(ctx, body.Email, 0) {
		return
	}

	roles, ok := findRoles(ctx, body.RoleIDs)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionCreateUser, nil) {
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if len(roles) == 0 {
			return nil
		}

		return tx.Model(&user).Association("Roles").Append(roles)
	})

	if err != nil {
		log.Printf("Failed to create user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	user.Roles = roles

	utils.Success(ctx, http.StatusCreated, userDetailResponse(&user), "User created successfully")
}

func ListUsers(ctx *gin.Context) {
	if !authorize(ctx, authz.ActionViewUser, nil) {
		return
	}

	var users []models.User

	if err := db.DB.Preload("Roles").Find(&users).Error; err != nil {
		log.Printf("Failed to list users: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	response := make([]types.UserDetailResponse, 0, len(users))

	for i := range users {
		response = append(response, userDetailResponse(&users[i]))
	}

	utils.Success(ctx, http.StatusOK, response, "Users retrieved successfully")
}

func GetUser(ctx *gin.Context) {
	user, ok := findUser(ctx, "Roles")

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionViewUser, authz.AdminResource(authz.KindUser)) {
		return
	}

	utils.Success(ctx, http.StatusOK, userDetailResponse(user), "User detail found")
}

func UpdateUser(ctx *gin.Context) {
	var body UpdateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	user, ok := findUser(ctx, "Roles")

	if !ok {
		return
	}

	if body.Email != "" {
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))

		if body.Email != user.Email && !emailAvailable(ctx, body.Email, user.ID) {
			return
		}
	}

	var roles []models.Role

	if body.RoleIDs != nil {
		roles, ok = findRoles(ctx, body.RoleIDs)

		if !ok {
			return
		}
	}

	if !authorize(ctx, authz.ActionUpdateUser, authz.AdminResource(authz.KindUser)) {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})

		if body.Name != "" {
			updates["name"] = strings.TrimSpace(body.Name)
		}

		if body.Email != "" {
			updates["email"] = body.Email
		}

		if body.Password != "" {
			passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

			if err != nil {
				return err
			}

			updates["password_hash"] = string(passwordHash)
		}

		if len(updates) > 0 {
			if err := tx.Model(user).Updates(updates).Error; err != nil {
				return err
			}
		}

		if body.RoleIDs != nil {
			if err := tx.Model(user).Association("Roles").Replace(roles); err != nil {
				return err
			}

			user.Roles = roles
		}

		return nil
	})

	if err != nil {
		log.Printf("Failed to update user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.Success(ctx, http.StatusOK, userDetailResponse(user), "User updated successfully")
}

func DeleteUser(ctx *gin.Context) {
	user, ok := findUser(ctx)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionDeleteUser, authz.AdminResource(authz.KindUser)) {
		return
	}

	if err := db.DB.Select("Roles").Delete(user).Error; err != nil {
		log.Printf("Failed to delete user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	utils.Success(ctx, http.StatusOK, nil, "User deleted successfully")
}

// AssignRoles replaces the user's role set with exactly the given roles.
// The replacement is transactional and idempotent.
func AssignRoles(ctx *gin.Context) {
	var body AssignRolesRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	user, ok := findUser(ctx)

	if !ok {
		return
	}

	roles, ok := findRoles(ctx, body.RoleIDs)

	if !ok {
		return
	}

	if !authorize(ctx, authz.ActionUpdateUser, authz.AdminResource(authz.KindUser)) {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(user).Association("Roles").Replace(roles)
	})

	if err != nil {
		log.Printf("Failed to assign roles: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to assign roles")
		return
	}

	user.Roles = roles

	utils.Success(ctx, http.StatusOK, userDetailResponse(user), "User roles updated successfully")
}

func findUser(ctx *gin.Context, preloads ...string) (*models.User, bool) {
	userID, err := utils.GetIDParam(ctx, "user_id")

	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "User not found")
		return nil, false
	}

	query := db.DB

	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var user models.User

	if err := query.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "User not found")
		} else {
			log.Printf("Failed to retrieve user: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "Failed to retrieve user")
		}
		return nil, false
	}

	return &user, true
}

// findRoles resolves role ids and writes a 422 when any of them is unknown.
func findRoles(ctx *gin.Context, roleIDs []uint) ([]models.Role, bool) {
	if len(roleIDs) == 0 {
		return nil, true
	}

	var roles []models.Role

	if err := db.DB.Find(&roles, roleIDs).Error; err != nil {
		log.Printf("Failed to retrieve roles: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	if len(roles) != len(roleIDs) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"errors": gin.H{"role_ids": "One or more roles do not exist"},
		})
		return nil, false
	}

	return roles, true
}

func emailAvailable(ctx *gin.Context, email string, ignoreID uint) bool {
	var existing models.User

	err := db.DB.Where("email = ? AND id != ?", email, ignoreID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"errors": gin.H{"email": "The email has already been taken"},
		})
		return false
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing email: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
		return false
	}

	return true
}

func userDetailResponse(user *models.User) types.UserDetailResponse {
	roles := make([]types.RoleResponse, 0, len(user.Roles))

	for _, role := range user.Roles {
		roles = append(roles, types.RoleResponse{
			ID:          role.ID,
			Name:        role.Name,
			DisplayName: role.DisplayName,
		})
	}

	return types.UserDetailResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Roles: roles,
	}
}
