package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaaya/sahaaya_server/internal/pkg/jwt"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
)

const testSecret = "test-secret"

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(testSecret), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetRole(c)
		response.Success(c, gin.H{"user_id": userID, "role": role})
	})
	r.GET("/admin", Auth(testSecret), AdminOnly(), func(c *gin.Context) {
		response.Success(c, nil)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuth_MissingHeader(t *testing.T) {
	r := setupAuthRouter()

	resp := decodeResponse(t, doRequest(r, "/protected", ""))
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := setupAuthRouter()

	resp := decodeResponse(t, doRequest(r, "/protected", "Token abc"))
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r := setupAuthRouter()

	resp := decodeResponse(t, doRequest(r, "/protected", "Bearer not-a-token"))
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuth_ValidTokenSetsIdentity(t *testing.T) {
	r := setupAuthRouter()

	token, err := jwt.GenerateToken(42, "ngo", testSecret, 1)
	require.NoError(t, err)

	resp := decodeResponse(t, doRequest(r, "/protected", "Bearer "+token))
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["user_id"])
	assert.Equal(t, "ngo", data["role"])
}

func TestAdminOnly(t *testing.T) {
	r := setupAuthRouter()

	ngoToken, err := jwt.GenerateToken(1, "ngo", testSecret, 1)
	require.NoError(t, err)
	resp := decodeResponse(t, doRequest(r, "/admin", "Bearer "+ngoToken))
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	adminToken, err := jwt.GenerateToken(2, "admin", testSecret, 1)
	require.NoError(t, err)
	resp = decodeResponse(t, doRequest(r, "/admin", "Bearer "+adminToken))
	assert.Equal(t, response.CodeSuccess, resp.Code)
}
