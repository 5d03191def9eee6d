package taskflow

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCreateNotifiesAssignee(t *testing.T) {
	s, notifier := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	bob, _ := seedMember(t, s, "bob")
	project := seedProject(t, s, alice.UserID, "Website Redesign")

	rec := do(t, s, http.MethodPost, "/api/tasks", aliceToken, map[string]interface{}{
		"project_id":  project.ProjectID,
		"assignee_id": bob.UserID,
		"title":       "Draft homepage copy",
		"priority":    "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Task created successfully.", rec.Body.String())

	calls := notifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, bob.UserID, calls[0].userID)
	assert.Equal(t, "task_assignment", calls[0].typ)
	assert.Contains(t, calls[0].message, "Draft homepage copy")

	var task Task
	require.NoError(t, s.db.First(&task, "title = ?", "Draft homepage copy").Error)
	assert.Equal(t, alice.UserID, task.CreatorID)
}

func TestTaskCreateUnknownProject(t *testing.T) {
	s, notifier := newTestServer(t)
	_, token := seedMember(t, s, "alice")

	rec := do(t, s, http.MethodPost, "/api/tasks", token, map[string]interface{}{
		"project_id": 12345,
		"title":      "Orphan task",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found.", rec.Body.String())
	assert.Empty(t, notifier.Calls())
}

func TestTaskListJoins(t *testing.T) {
	s, _ := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	bob, _ := seedMember(t, s, "bob")
	project := seedProject(t, s, alice.UserID, "Website Redesign")

	task := Task{
		ProjectID:  project.ProjectID,
		AssigneeID: &bob.UserID,
		CreatorID:  alice.UserID,
		Title:      "Draft homepage copy",
		Status:     "open",
	}
	require.NoError(t, s.db.Create(&task).Error)

	rec := do(t, s, http.MethodGet, "/api/tasks", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []taskRow
	decodeJSON(t, rec, &rows)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ProjectName)
	assert.Equal(t, "Website Redesign", *rows[0].ProjectName)
	require.NotNil(t, rows[0].AssigneeUsername)
	assert.Equal(t, "bob", *rows[0].AssigneeUsername)
	require.NotNil(t, rows[0].CreatorUsername)
	assert.Equal(t, "alice", *rows[0].CreatorUsername)
}

func TestTaskUpdateReassignmentNotifies(t *testing.T) {
	s, notifier := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	bob, _ := seedMember(t, s, "bob")
	project := seedProject(t, s, alice.UserID, "Website Redesign")
	task := seedTask(t, s, project.ProjectID, alice.UserID, "Draft homepage copy")

	// A status change without reassignment notifies nobody.
	rec := do(t, s, http.MethodPut, urlWithID("/api/tasks", task.TaskID), aliceToken, map[string]interface{}{
		"status": "in-progress",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task updated successfully.", rec.Body.String())
	assert.Empty(t, notifier.Calls())

	rec = do(t, s, http.MethodPut, urlWithID("/api/tasks", task.TaskID), aliceToken, map[string]interface{}{
		"assignee_id": bob.UserID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	calls := notifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, bob.UserID, calls[0].userID)

	var updated Task
	require.NoError(t, s.db.First(&updated, task.TaskID).Error)
	assert.Equal(t, "in-progress", updated.Status)
	assert.Equal(t, "Draft homepage copy", updated.Title)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, bob.UserID, *updated.AssigneeID)
}

func TestTaskDelete(t *testing.T) {
	s, _ := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	project := seedProject(t, s, alice.UserID, "Website Redesign")
	task := seedTask(t, s, project.ProjectID, alice.UserID, "Draft homepage copy")

	rec := do(t, s, http.MethodDelete, urlWithID("/api/tasks", task.TaskID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully.", rec.Body.String())

	rec = do(t, s, http.MethodDelete, urlWithID("/api/tasks", task.TaskID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found.", rec.Body.String())
}

func TestTaskUpdateRejectsExplicitEmpty(t *testing.T) {
	s, _ := newTestServer(t)
	alice, aliceToken := seedMember(t, s, "alice")
	project := seedProject(t, s, alice.UserID, "Website Redesign")
	task := seedTask(t, s, project.ProjectID, alice.UserID, "Draft homepage copy")

	rec := do(t, s, http.MethodPut, urlWithID("/api/tasks", task.TaskID), aliceToken, map[string]string{
		"title":    "",
		"status":   "",
		"priority": "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title cannot be empty")
	assert.Contains(t, rec.Body.String(), "status cannot be empty")
	assert.Contains(t, rec.Body.String(), "priority cannot be empty")

	var got Task
	require.NoError(t, s.db.First(&got, "task_id = ?", task.TaskID).Error)
	assert.Equal(t, "Draft homepage copy", got.Title)
	assert.Equal(t, "open", got.Status)
}
