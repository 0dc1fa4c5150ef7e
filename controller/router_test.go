package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cems/auth"
	"cems/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", AuthMiddleware([]string{"admin"}), func(c *gin.Context) {
		claims := getClaims(c)
		c.JSON(200, gin.H{"user_id": claims.UserId})
	})
	r.GET("/any-user", AuthMiddleware(nil), func(c *gin.Context) {
		c.JSON(200, gin.H{})
	})
	return r
}

func performRequest(r *gin.Engine, path string, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth", Value: token})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := authTestRouter()

	// no cookie
	w := performRequest(r, "/any-user", "")
	assert.Equal(t, 401, w.Code)

	// garbage token
	w = performRequest(r, "/any-user", "not-a-token")
	assert.Equal(t, 401, w.Code)

	studentToken, err := auth.CreateToken(&repository.User{
		Id:          7,
		Permissions: []string{"student"},
	})
	assert.Nil(t, err)

	// authenticated but lacking the admin role
	w = performRequest(r, "/any-user", studentToken)
	assert.Equal(t, 200, w.Code)
	w = performRequest(r, "/admin-only", studentToken)
	assert.Equal(t, 403, w.Code)

	// admin token passes and its claims reach the handler
	adminToken, err := auth.CreateToken(&repository.User{
		Id:          8,
		Permissions: []string{"admin"},
	})
	assert.Nil(t, err)
	w = performRequest(r, "/admin-only", adminToken)
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"user_id": 8}`, w.Body.String())
}
