package taskflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
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

// recordingNotifier captures deliveries so tests can assert on them without
// a queue.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct {
	userID  uint
	message string
	typ     string
}

func (n *recordingNotifier) Notify(userID uint, message, notificationType string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{userID: userID, message: message, typ: notificationType})
}

func (n *recordingNotifier) Calls() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyCall(nil), n.calls...)
}

func newTestServer(t *testing.T) (*Server, *recordingNotifier) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	notifier := &recordingNotifier{}
	return NewServer(cfg, db, notifier), notifier
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

func seedMember(t *testing.T, s *Server, username string) (User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, s.db.Create(&user).Error)

	token, err := auth.GenerateToken(testSecret, user.UserID, RoleMember)
	require.NoError(t, err)
	return user, token
}

func seedProject(t *testing.T, s *Server, creatorID uint, name string) Project {
	t.Helper()
	project := Project{ProjectName: name, Status: "active", CreatorID: creatorID}
	require.NoError(t, s.db.Create(&project).Error)
	return project
}

func seedTask(t *testing.T, s *Server, projectID, creatorID uint, title string) Task {
	t.Helper()
	task := Task{ProjectID: projectID, CreatorID: creatorID, Title: title, Status: "open"}
	require.NoError(t, s.db.Create(&task).Error)
	return task
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func urlWithID(prefix string, id uint) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
