package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/router"
)

// setupAPI wires the full router against a fresh in-memory database, exactly
// as main does against postgres.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Project{},
		&models.Task{},
	))

	db.DB = database

	return router.NewRouter()
}

func createRole(t *testing.T, name string, permissionNames ...string) models.Role {
	t.Helper()

	permissions := make([]models.Permission, 0, len(permissionNames))

	for _, pname := range permissionNames {
		permission := models.Permission{Name: pname}
		require.NoError(t, db.DB.Where("name = ?", pname).FirstOrCreate(&permission).Error)
		permissions = append(permissions, permission)
	}

	role := models.Role{Name: name, DisplayName: name, Permissions: permissions}
	require.NoError(t, db.DB.Create(&role).Error)

	return role
}

func createUser(t *testing.T, email string, roles ...models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         email,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func bearerFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	return "Bearer " + token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}
