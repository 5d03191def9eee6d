package taskflow

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, s *Server, userID uint, message string) Notification {
	t.Helper()
	notification := Notification{UserID: userID, Message: message, Type: "task_assignment"}
	require.NoError(t, s.db.Create(&notification).Error)
	return notification
}

func TestNotificationListSelfOnly(t *testing.T) {
	s, _ := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	bob, _ := seedMember(t, s, "bob")
	seedNotification(t, s, alice.UserID, "You have been assigned to task: Draft homepage copy")
	seedNotification(t, s, bob.UserID, "You have been assigned to task: Review PR")

	rec := do(t, s, http.MethodGet, fmt.Sprintf("/api/notifications/user/%d", alice.UserID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Notification
	decodeJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, alice.UserID, list[0].UserID)
	assert.False(t, list[0].IsRead)

	rec = do(t, s, http.MethodGet, fmt.Sprintf("/api/notifications/user/%d", bob.UserID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access Denied: You can only view your own notifications.", rec.Body.String())
}

func TestNotificationMarkRead(t *testing.T) {
	s, _ := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	_, bobToken := seedMember(t, s, "bob")
	notification := seedNotification(t, s, alice.UserID, "You have been assigned to task: Draft homepage copy")

	rec := do(t, s, http.MethodPut, urlWithID("/api/notifications/mark-read", notification.NotificationID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access Denied: You can only mark your own notifications as read.", rec.Body.String())

	rec = do(t, s, http.MethodPut, urlWithID("/api/notifications/mark-read", notification.NotificationID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification marked as read.", rec.Body.String())

	var updated Notification
	require.NoError(t, s.db.First(&updated, notification.NotificationID).Error)
	assert.True(t, updated.IsRead)

	rec = do(t, s, http.MethodPut, "/api/notifications/mark-read/12345", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found.", rec.Body.String())
}

func TestNotificationDelete(t *testing.T) {
	s, _ := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	_, bobToken := seedMember(t, s, "bob")
	notification := seedNotification(t, s, alice.UserID, "You have been assigned to task: Draft homepage copy")

	rec := do(t, s, http.MethodDelete, urlWithID("/api/notifications", notification.NotificationID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access Denied: You can only delete your own notifications.", rec.Body.String())

	rec = do(t, s, http.MethodDelete, urlWithID("/api/notifications", notification.NotificationID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification deleted successfully.", rec.Body.String())

	rec = do(t, s, http.MethodDelete, urlWithID("/api/notifications", notification.NotificationID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found.", rec.Body.String())
}
