package taskflow

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/events"
	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/realtime"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// Notifier delivers a notification to a user. Implementations may enqueue
// for asynchronous delivery or write the row directly.
type Notifier interface {
	Notify(userID uint, message, notificationType string, data map[string]interface{})
}

type TaskHandler struct {
	db       *gorm.DB
	notifier Notifier
	log      *logger.Logger
}

func NewTaskHandler(db *gorm.DB, notifier Notifier) *TaskHandler {
	return &TaskHandler{db: db, notifier: notifier, log: logger.New("TaskHandler")}
}

type taskRow struct {
	TaskID           uint    `json:"task_id"`
	ProjectID        uint    `json:"project_id"`
	AssigneeID       *uint   `json:"assignee_id"`
	CreatorID        uint    `json:"creator_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	DueDate          *string `json:"due_date"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	ProjectName      *string `json:"project_name"`
	AssigneeUsername *string `json:"assignee_username"`
	CreatorUsername  *string `json:"creator_username"`
}

func (h *TaskHandler) taskQuery() *gorm.DB {
	return h.db.Table("tasks").
		Select("tasks.*, projects.project_name as project_name, " +
			"assignee.username as assignee_username, creator.username as creator_username").
		Joins("LEFT JOIN projects ON projects.project_id = tasks.project_id").
		Joins("LEFT JOIN users assignee ON assignee.user_id = tasks.assignee_id").
		Joins("LEFT JOIN users creator ON creator.user_id = tasks.creator_id")
}

func (h *TaskHandler) List(c echo.Context) error {
	var rows []taskRow
	if err := h.taskQuery().Order("tasks.task_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching tasks", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *TaskHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Task not found.")
	}

	var rows []taskRow
	if err := h.taskQuery().Where("tasks.task_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching task", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "Task not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type CreateTaskRequest struct {
	ProjectID   *uint   `json:"project_id" validate:"required"`
	AssigneeID  *uint   `json:"assignee_id"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitnil,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitnil,notblank"`
	Priority    *string `json:"priority" validate:"omitnil,notblank"`
}

func (h *TaskHandler) Create(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var count int64
	if err := h.db.Model(&Project{}).Where("project_id = ?", *req.ProjectID).Count(&count).Error; err != nil {
		return serverError(c, h.log, "Error creating task", err)
	}
	if count == 0 {
		return c.String(http.StatusNotFound, "Project not found.")
	}

	task := Task{
		ProjectID:  *req.ProjectID,
		AssigneeID: req.AssigneeID,
		CreatorID:  claims.UserID,
		Title:      req.Title,
		DueDate:    req.DueDate,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := h.db.Create(&task).Error; err != nil {
		return serverError(c, h.log, "Error creating task", err)
	}

	h.announce(&task, "created")
	return c.String(http.StatusCreated, "Task created successfully.")
}

type UpdateTaskRequest struct {
	ProjectID   *uint   `json:"project_id"`
	AssigneeID  *uint   `json:"assignee_id"`
	Title       *string `json:"title" validate:"omitnil,notblank"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitnil,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitnil,notblank"`
	Priority    *string `json:"priority" validate:"omitnil,notblank"`
}

func (h *TaskHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Task not found.")
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var task Task
	if err := h.db.First(&task, "task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Task not found.")
		}
		return serverError(c, h.log, "Error fetching task", err)
	}

	assigneeChanged := req.AssigneeID != nil &&
		(task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID)

	task.ProjectID = patch.Uint(req.ProjectID, task.ProjectID)
	task.AssigneeID = patch.UintPtr(req.AssigneeID, task.AssigneeID)
	task.Title = patch.String(req.Title, task.Title)
	task.Description = patch.String(req.Description, task.Description)
	task.DueDate = patch.StringPtr(req.DueDate, task.DueDate)
	task.Status = patch.String(req.Status, task.Status)
	task.Priority = patch.String(req.Priority, task.Priority)

	if err := h.db.Save(&task).Error; err != nil {
		return serverError(c, h.log, "Error updating task", err)
	}

	h.announce(&task, "updated")
	if assigneeChanged {
		h.notifyAssignee(&task)
	}
	return c.String(http.StatusOK, "Task updated successfully.")
}

func (h *TaskHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Task not found.")
	}

	result := h.db.Delete(&Task{}, "task_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting task", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "Task not found.")
	}
	return c.String(http.StatusOK, "Task deleted successfully.")
}

// announce publishes the change on the event bus for realtime fan-out and,
// on create, notifies the assignee if one was set.
func (h *TaskHandler) announce(task *Task, action string) {
	events.Emit(realtime.EventTaskUpdated, realtime.TaskEvent{
		TaskID:    task.TaskID,
		ProjectID: task.ProjectID,
		Payload: map[string]interface{}{
			"task_id":    task.TaskID,
			"project_id": task.ProjectID,
			"title":      task.Title,
			"status":     task.Status,
			"priority":   task.Priority,
			"action":     action,
		},
	})

	if action == "created" && task.AssigneeID != nil {
		h.notifyAssignee(task)
	}
}

func (h *TaskHandler) notifyAssignee(task *Task) {
	if h.notifier == nil || task.AssigneeID == nil {
		return
	}
	h.notifier.Notify(
		*task.AssigneeID,
		fmt.Sprintf("You have been assigned to task: %s", task.Title),
		"task_assignment",
		map[string]interface{}{
			"task_id":    task.TaskID,
			"project_id": task.ProjectID,
		},
	)
}
