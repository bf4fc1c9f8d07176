package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/auth/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no token, authorization denied", resp.Msg)

	// Rejected requests never reach storage.
	assert.Zero(t, env.userRepo.calls)
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/", nil)
	req.Header.Set(AuthHeader, "not-a-real-token")
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token is not valid", resp.Msg)
	assert.Zero(t, env.userRepo.calls)
}

func TestRegisterValidationStopsBeforeStorage(t *testing.T) {
	env := newTestEnv()

	body := `{"name":"","email":"not-an-email","password":"short"}`
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp FieldErrorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 3)

	params := make([]string, 0, len(resp.Errors))
	for _, fieldError := range resp.Errors {
		params = append(params, fieldError.Param)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, params)
	assert.Zero(t, env.userRepo.calls)
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv()

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var registered TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Token)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/auth/",
		strings.NewReader(`{"email":"ada@example.com","password":"hunter22"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var loggedIn TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loggedIn))

	// Either token authenticates the /api/auth probe.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/", nil)
	req.Header.Set(AuthHeader, loggedIn.Token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Ada", me.Name)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp FieldErrorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "User already exists", resp.Errors[0].Msg)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	env := newTestEnv()

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	unknown := env.do(httptest.NewRequest(http.MethodPost, "/api/auth/",
		strings.NewReader(`{"email":"nobody@example.com","password":"hunter22"}`)))
	badPassword := env.do(httptest.NewRequest(http.MethodPost, "/api/auth/",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)))

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, http.StatusBadRequest, badPassword.Code)
	assert.JSONEq(t, unknown.Body.String(), badPassword.Body.String())
	assert.Contains(t, unknown.Body.String(), "Invalid credentials")
}
