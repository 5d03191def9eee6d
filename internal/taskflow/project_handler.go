package taskflow

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type ProjectHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db, log: logger.New("ProjectHandler")}
}

type projectRow struct {
	ProjectID       uint    `json:"project_id"`
	ProjectName     string  `json:"project_name"`
	Description     string  `json:"description"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	Status          string  `json:"status"`
	CreatorID       uint    `json:"creator_id"`
	CreatorUsername *string `json:"creator_username"`
}

func (h *ProjectHandler) projectQuery() *gorm.DB {
	return h.db.Table("projects").
		Select("projects.*, users.username as creator_username").
		Joins("LEFT JOIN users ON users.user_id = projects.creator_id")
}

func (h *ProjectHandler) List(c echo.Context) error {
	var rows []projectRow
	if err := h.projectQuery().Order("projects.project_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching projects", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ProjectHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Project not found.")
	}

	var rows []projectRow
	if err := h.projectQuery().Where("projects.project_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching project", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "Project not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type CreateProjectRequest struct {
	ProjectName string  `json:"project_name" validate:"required"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitnil,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitnil,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitnil,notblank"`
}

// Create records the authenticated user as the project's creator; the body
// cannot override it.
func (h *ProjectHandler) Create(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project := Project{
		ProjectName: req.ProjectName,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatorID:   claims.UserID,
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}

	if err := h.db.Create(&project).Error; err != nil {
		return serverError(c, h.log, "Error creating project", err)
	}
	return c.String(http.StatusCreated, "Project created successfully.")
}

type UpdateProjectRequest struct {
	ProjectName *string `json:"project_name" validate:"omitnil,notblank"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitnil,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitnil,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitnil,notblank"`
}

func (h *ProjectHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Project not found.")
	}

	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var project Project
	if err := h.db.First(&project, "project_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Project not found.")
		}
		return serverError(c, h.log, "Error fetching project", err)
	}

	project.ProjectName = patch.String(req.ProjectName, project.ProjectName)
	project.Description = patch.String(req.Description, project.Description)
	project.StartDate = patch.StringPtr(req.StartDate, project.StartDate)
	project.EndDate = patch.StringPtr(req.EndDate, project.EndDate)
	project.Status = patch.String(req.Status, project.Status)

	if err := h.db.Save(&project).Error; err != nil {
		return serverError(c, h.log, "Error updating project", err)
	}
	return c.String(http.StatusOK, "Project updated successfully.")
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Project not found.")
	}

	result := h.db.Delete(&Project{}, "project_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting project", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "Project not found.")
	}
	return c.String(http.StatusOK, "Project deleted successfully.")
}
