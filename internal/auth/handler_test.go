package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comichub/internal/auth"
)

func newAuthServer(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(t)
	router := gin.New()
	auth.NewHandler(svc).RegisterRoutes(router.Group("/auth"))
	return router, svc
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint(t *testing.T) {
	router, svc := newAuthServer(t)

	w := postJSON(t, router, "/auth/login", gin.H{"email": "admin@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User  struct{ ID, Email string }
		Token string
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.True(t, svc.VerifyBearer("Bearer "+resp.Token))
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router, _ := newAuthServer(t)

	wUnknown := postJSON(t, router, "/auth/login", gin.H{"email": "ghost@example.com", "password": "correct horse"})
	wWrong := postJSON(t, router, "/auth/login", gin.H{"email": "admin@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	// byte-identical bodies, nothing to enumerate accounts with
	assert.Equal(t, wUnknown.Body.String(), wWrong.Body.String())
}

func TestLoginEndpointValidation(t *testing.T) {
	router, _ := newAuthServer(t)

	w := postJSON(t, router, "/auth/login", gin.H{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/auth/login", gin.H{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	router, svc := newAuthServer(t)

	_, token, err := svc.Login(t.Context(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	w := postJSON(t, router, "/auth/verify", gin.H{"token": token})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid bool
		User  struct{ ID, Email, Role string }
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "admin", resp.User.Role)

	w = postJSON(t, router, "/auth/verify", gin.H{"token": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
}
