package taskflow

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type CommentHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db, log: logger.New("CommentHandler")}
}

type commentRow struct {
	CommentID   uint      `json:"comment_id"`
	TaskID      uint      `json:"task_id"`
	UserID      uint      `json:"user_id"`
	CommentText string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
	Username    *string   `json:"username"`
}

// ListByTask returns a task's comments oldest first.
func (h *CommentHandler) ListByTask(c echo.Context) error {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		return c.JSON(http.StatusOK, []commentRow{})
	}

	var rows []commentRow
	err := h.db.Table("comments").
		Select("comments.*, users.username as username").
		Joins("LEFT JOIN users ON users.user_id = comments.user_id").
		Where("comments.task_id = ?", taskID).
		Order("comments.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return serverError(c, h.log, "Error fetching comments", err)
	}
	return c.JSON(http.StatusOK, rows)
}

type CreateCommentRequest struct {
	TaskID      *uint  `json:"task_id" validate:"required"`
	CommentText string `json:"comment_text" validate:"required"`
}

func (h *CommentHandler) Create(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var count int64
	if err := h.db.Model(&Task{}).Where("task_id = ?", *req.TaskID).Count(&count).Error; err != nil {
		return serverError(c, h.log, "Error creating comment", err)
	}
	if count == 0 {
		return c.String(http.StatusNotFound, "Task not found.")
	}

	comment := Comment{
		TaskID:      *req.TaskID,
		UserID:      claims.UserID,
		CommentText: req.CommentText,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		return serverError(c, h.log, "Error creating comment", err)
	}
	return c.String(http.StatusCreated, "Comment created successfully.")
}

// comment_text is mandatory on update: a missing field and an explicit ""
// are rejected alike.
type UpdateCommentRequest struct {
	CommentText string `json:"comment_text" validate:"notblank"`
}

// Update lets only the comment's author modify it.
func (h *CommentHandler) Update(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Comment not found.")
	}

	var req UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var comment Comment
	if err := h.db.First(&comment, "comment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Comment not found.")
		}
		return serverError(c, h.log, "Error fetching comment", err)
	}

	if comment.UserID != claims.UserID {
		return c.String(http.StatusForbidden, "You are not authorized to update this comment.")
	}

	comment.CommentText = req.CommentText

	if err := h.db.Save(&comment).Error; err != nil {
		return serverError(c, h.log, "Error updating comment", err)
	}
	return c.String(http.StatusOK, "Comment updated successfully.")
}

func (h *CommentHandler) Delete(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Comment not found.")
	}

	var comment Comment
	if err := h.db.First(&comment, "comment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Comment not found.")
		}
		return serverError(c, h.log, "Error fetching comment", err)
	}

	if comment.UserID != claims.UserID {
		return c.String(http.StatusForbidden, "You are not authorized to delete this comment.")
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		return serverError(c, h.log, "Error deleting comment", err)
	}
	return c.String(http.StatusOK, "Comment deleted successfully.")
}
