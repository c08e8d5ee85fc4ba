package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
)

func TestGrantPermissionsReplacesSet(t *testing.T) {
	r := setupAPI(t)

	adminRole := createRole(t, "admin", "update-role")
	admin := createUser(t, "admin@test.com", adminRole)

	old := models.Permission{Name: "old-permission"}
	next := models.Permission{Name: "next-permission"}
	require.NoError(t, db.DB.Create(&old).Error)
	require.NoError(t, db.DB.Create(&next).Error)

	role := models.Role{Name: "staff", DisplayName: "Staff", Permissions: []models.Permission{old}}
	require.NoError(t, db.DB.Create(&role).Error)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/roles/%d/permissions", role.ID), bearerFor(t, admin), map[string]interface{}{
		"permission_ids": []uint{next.ID},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Role
	require.NoError(t, db.DB.Preload("Permissions").First(&reloaded, role.ID).Error)
	require.Len(t, reloaded.Permissions, 1)
	assert.Equal(t, "next-permission", reloaded.Permissions[0].Name)
}

func TestGrantPermissionsIsIdempotent(t *testing.T) {
	r := setupAPI(t)

	adminRole := createRole(t, "admin", "update-role")
	admin := createUser(t, "admin@test.com", adminRole)

	permission := models.Permission{Name: "view-project"}
	require.NoError(t, db.DB.Create(&permission).Error)

	role := models.Role{Name: "staff", DisplayName: "Staff"}
	require.NoError(t, db.DB.Create(&role).Error)

	payload := map[string]interface{}{"permission_ids": []uint{permission.ID}}
	path := fmt.Sprintf("/api/roles/%d/permissions", role.ID)

	for i := 0; i < 2; i++ {
		w := doRequest(t, r, http.MethodPost, path, bearerFor(t, admin), payload)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var reloaded models.Role
	require.NoError(t, db.DB.Preload("Permissions").First(&reloaded, role.ID).Error)
	assert.Len(t, reloaded.Permissions, 1)
}

func TestGrantPermissionsRejectsUnknownIDs(t *testing.T) {
	r := setupAPI(t)

	adminRole := createRole(t, "admin", "update-role")
	admin := createUser(t, "admin@test.com", adminRole)

	role := models.Role{Name: "staff", DisplayName: "Staff"}
	require.NoError(t, db.DB.Create(&role).Error)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/roles/%d/permissions", role.ID), bearerFor(t, admin), map[string]interface{}{
		"permission_ids": []uint{9999},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGrantPermissionsValidatesBeforeAuthorization(t *testing.T) {
	r := setupAPI(t)

	// Caller lacks update-role, but unknown permission ids are a validation
	// failure and must be reported ahead of the denial.
	nobody := createUser(t, "nobody@test.com")

	role := models.Role{Name: "staff", DisplayName: "Staff"}
	require.NoError(t, db.DB.Create(&role).Error)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/roles/%d/permissions", role.ID), bearerFor(t, nobody), map[string]interface{}{
		"permission_ids": []uint{9999},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRoleEndpointsAreCapabilityGatedOnly(t *testing.T) {
	r := setupAPI(t)

	// No roles at all: every role endpoint denies, nothing falls back.
	nobody := createUser(t, "nobody@test.com")

	role := models.Role{Name: "staff", DisplayName: "Staff"}
	require.NoError(t, db.DB.Create(&role).Error)

	w := doRequest(t, r, http.MethodGet, "/api/roles", bearerFor(t, nobody), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/roles/%d", role.ID), bearerFor(t, nobody), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/roles/%d", role.ID), bearerFor(t, nobody), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleValidationKeysMatchRequestFields(t *testing.T) {
	r := setupAPI(t)

	adminRole := createRole(t, "admin", "create-role")
	admin := createUser(t, "admin@test.com", adminRole)

	w := doRequest(t, r, http.MethodPost, "/api/roles", bearerFor(t, admin), map[string]interface{}{
		"name": "manager",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The error must be keyed by the JSON name the client sent, not the Go
	// field name.
	body := decodeBody(t, w)
	errors, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errors, "display_name")
	assert.NotContains(t, errors, "displayname")
}

func TestCreateRole(t *testing.T) {
	r := setupAPI(t)

	adminRole := createRole(t, "admin", "create-role")
	admin := createUser(t, "admin@test.com", adminRole)

	w := doRequest(t, r, http.MethodPost, "/api/roles", bearerFor(t, admin), map[string]interface{}{
		"name":         "manager",
		"display_name": "Project Manager",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var role models.Role
	require.NoError(t, db.DB.Where("name = ?", "manager").First(&role).Error)
	assert.Equal(t, "Project Manager", role.DisplayName)
}
