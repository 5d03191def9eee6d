package edutrack

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshdigitals/edutrack/internal/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "secret123",
		"role_name":  RoleStudent,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully.", rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeJSON(t, rec, &body)
	require.NotEmpty(t, body["accessToken"])

	claims, err := auth.ParseToken(testSecret, body["accessToken"])
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, claims.RoleName)
	assert.NotZero(t, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	payload := map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "dup@example.com",
		"password":   "secret123",
		"role_name":  RoleStudent,
	}
	rec := do(t, s, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with this email already exists.", rec.Body.String())
}

func TestRegisterInvalidRole(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "secret123",
		"role_name":  "Janitor",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid role specified.", rec.Body.String())
}

func TestRegisterValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"first_name": "Ada",
		"email":      "not-an-email",
		"password":   "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeJSON(t, rec, &body)

	messages := map[string]string{}
	for _, e := range body.Errors {
		messages[e.Field] = e.Message
	}
	assert.Equal(t, "last_name is required", messages["last_name"])
	assert.Equal(t, "Please include a valid email", messages["email"])
	assert.Equal(t, "password must be at least 6 characters", messages["password"])
	assert.Equal(t, "role_name is required", messages["role_name"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	seedUser(t, s, "user@example.com", RoleStudent)

	rec := do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials.", rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials.", rec.Body.String())
}
