package edutrack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vanshdigitals/edutrack/internal/auth"
	"github.com/vanshdigitals/edutrack/internal/config"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	return NewServer(cfg, db)
}

func do(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

// seedUser inserts a user with the given role and returns it alongside a
// valid access token.
func seedUser(t *testing.T, s *Server, email, roleName string) (User, string) {
	t.Helper()

	var role Role
	require.NoError(t, s.db.Where("role_name = ?", roleName).First(&role).Error)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := User{
		FirstName:    "Test",
		LastName:     roleName,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.RoleID,
	}
	require.NoError(t, s.db.Create(&user).Error)

	token, err := auth.GenerateToken(testSecret, user.UserID, roleName)
	require.NoError(t, err)
	return user, token
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func urlWithID(prefix string, id uint) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
