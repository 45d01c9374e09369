package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-food-ordering/helpers"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Authentication())
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("uid"), "role": c.GetString("role")})
	})
	router.GET("/owner-only", RequireRole(models.RoleRestaurant), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuthentication_MissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()

	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthentication_BadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("token", "garbage")
	w := httptest.NewRecorder()

	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthentication_SetsClaims(t *testing.T) {
	helpers.SECRET_KEY = "test-secret"
	token, _, err := helpers.GenerateAllTokens("66cf1f77bcf86cd799439011", models.RoleCustomer, "ana@example.com", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("token", token)
	w := httptest.NewRecorder()

	protectedRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "66cf1f77bcf86cd799439011")
	assert.Contains(t, w.Body.String(), models.RoleCustomer)
}

func TestRequireRole_Mismatch(t *testing.T) {
	helpers.SECRET_KEY = "test-secret"
	token, _, err := helpers.GenerateAllTokens("66cf1f77bcf86cd799439011", models.RoleCustomer, "ana@example.com", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("token", token)
	w := httptest.NewRecorder()

	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_Match(t *testing.T) {
	helpers.SECRET_KEY = "test-secret"
	token, _, err := helpers.GenerateAllTokens("66cf1f77bcf86cd799439012", models.RoleRestaurant, "bo@example.com", "Bo")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("token", token)
	w := httptest.NewRecorder()

	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
