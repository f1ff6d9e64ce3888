package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/conectly/userapi/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerBody = `{
	"name": "Jane Doe",
	"userName": "jane_doe",
	"email": "jane@example.com",
	"password": "Sup3r$ecret"
}`

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "1.2.3.4:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "User created successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, "jane_doe", user["userName"])
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, true, user["isActive"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "Sup3r$ecret")
}

func TestRegisterEndpointValidation(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/register", `{
		"name": "jd",
		"userName": "jd",
		"email": "nope",
		"password": "weak"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", body["message"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, errs)
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/auth/register", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestRegisterEndpointMalformedJSON(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/register", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON format")
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/auth/register", registerBody).Code)

	rec := postJSON(t, router, "/api/auth/login", `{"email": "jane@example.com", "password": "Sup3r$ecret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, user, "password")

	cookie := refreshCookie(rec.Result())
	require.NotNil(t, cookie, "login must set the refresh cookie")
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotContains(t, rec.Body.String(), cookie.Value, "refresh token must not appear in the body")
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/auth/register", registerBody).Code)

	rec := postJSON(t, router, "/api/auth/login", `{"email": "jane@example.com", "password": "Wr0ng$ecret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestLoginEndpointUnknownEmail(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/login", `{"email": "ghost@example.com", "password": "Sup3r$ecret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpointWithoutCookie(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/refreshToken", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No refresh token provided")
}

func TestRefreshEndpointInvalidCookie(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refreshToken", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired refresh token")
}

func TestRefreshEndpointExpiredCookie(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/auth/register", registerBody).Code)

	expired, err := auth.IssueRefreshToken("jane@example.com", testAuthConfig().RefreshSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refreshToken", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: expired})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshEndpointRotatesTokens(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/auth/register", registerBody).Code)

	loginRec := postJSON(t, router, "/api/auth/login", `{"email": "jane@example.com", "password": "Sup3r$ecret"}`)
	require.Equal(t, http.StatusOK, loginRec.Code)
	cookie := refreshCookie(loginRec.Result())
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refreshToken", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: cookie.Value})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["accessToken"])

	rotated := refreshCookie(rec.Result())
	require.NotNil(t, rotated, "refresh must set a new cookie")
	assert.NotEmpty(t, rotated.Value)

	// the minted access token must pass the bearer gate
	claims, err := auth.ParseAccessToken(body["accessToken"].(string), testAuthConfig().AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestLogoutEndpointClearsCookie(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	rec := postJSON(t, router, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully")

	cookie := refreshCookie(rec.Result())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestHomeAndHealthz(t *testing.T) {
	router := newTestRouter(t, newFakeUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "home route")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
