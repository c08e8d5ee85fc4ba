package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

var authorizer *authz.Engine

// InitAuthorizer wires the authorization engine to the database the handlers
// run against. Must be called before any route is served.
func InitAuthorizer(database *gorm.DB) {
	authorizer = authz.NewEngine(authz.NewGormStore(database))
}

// authorize runs the engine for the current caller and writes the 401/403/500
// response itself on failure. Handlers bail out when it returns false.
func authorize(ctx *gin.Context, action authz.Action, resource *authz.Resource) bool {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "User not authenticated")
		return false
	}

	err = authorizer.Authorize(ctx.Request.Context(), userID, action, resource)

	if err == nil {
		return true
	}

	if errors.Is(err, authz.ErrDenied) {
		utils.Denied(ctx)
		return false
	}

	log.Printf("Authorization query failed: %v", err)
	utils.Error(ctx, http.StatusInternalServerError, "Internal server error")
	return false
}
