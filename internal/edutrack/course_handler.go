package edutrack

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type CourseHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{db: db, log: logger.New("CourseHandler")}
}

type courseRow struct {
	CourseID         uint    `json:"course_id"`
	CourseCode       string  `json:"course_code"`
	CourseName       string  `json:"course_name"`
	Description      string  `json:"description"`
	Credits          float64 `json:"credits"`
	FacultyID        *uint   `json:"faculty_id"`
	FacultyFirstName *string `json:"faculty_first_name"`
	FacultyLastName  *string `json:"faculty_last_name"`
}

func (h *CourseHandler) courseQuery() *gorm.DB {
	return h.db.Table("courses").
		Select("courses.*, users.first_name as faculty_first_name, users.last_name as faculty_last_name").
		Joins("LEFT JOIN users ON users.user_id = courses.faculty_id")
}

func (h *CourseHandler) List(c echo.Context) error {
	var rows []courseRow
	if err := h.courseQuery().Order("courses.course_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching courses", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CourseHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Course not found.")
	}

	var rows []courseRow
	if err := h.courseQuery().Where("courses.course_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching course", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "Course not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type CreateCourseRequest struct {
	CourseCode  string   `json:"course_code" validate:"required"`
	CourseName  string   `json:"course_name" validate:"required"`
	Description *string  `json:"description"`
	Credits     *float64 `json:"credits" validate:"required,gt=0"`
	FacultyID   *uint    `json:"faculty_id"`
}

func (h *CourseHandler) Create(c echo.Context) error {
	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var count int64
	if err := h.db.Model(&Course{}).Where("course_code = ?", req.CourseCode).Count(&count).Error; err != nil {
		return serverError(c, h.log, "Error creating course", err)
	}
	if count > 0 {
		return c.String(http.StatusConflict, "Course with this code already exists.")
	}

	course := Course{
		CourseCode: req.CourseCode,
		CourseName: req.CourseName,
		Credits:    *req.Credits,
		FacultyID:  req.FacultyID,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := h.db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.String(http.StatusConflict, "Course with this code already exists.")
		}
		return serverError(c, h.log, "Error creating course", err)
	}
	return c.String(http.StatusCreated, "Course created successfully.")
}

type UpdateCourseRequest struct {
	CourseCode  *string  `json:"course_code" validate:"omitnil,notblank"`
	CourseName  *string  `json:"course_name" validate:"omitnil,notblank"`
	Description *string  `json:"description"`
	Credits     *float64 `json:"credits" validate:"omitnil,gt=0"`
	FacultyID   *uint    `json:"faculty_id"`
}

func (h *CourseHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Course not found.")
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var course Course
	if err := h.db.First(&course, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Course not found.")
		}
		return serverError(c, h.log, "Error fetching course", err)
	}

	course.CourseCode = patch.String(req.CourseCode, course.CourseCode)
	course.CourseName = patch.String(req.CourseName, course.CourseName)
	course.Description = patch.String(req.Description, course.Description)
	course.Credits = patch.Float(req.Credits, course.Credits)
	course.FacultyID = patch.UintPtr(req.FacultyID, course.FacultyID)

	if err := h.db.Save(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.String(http.StatusConflict, "Course with this code already exists.")
		}
		return serverError(c, h.log, "Error updating course", err)
	}
	return c.String(http.StatusOK, "Course updated successfully.")
}

func (h *CourseHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Course not found.")
	}

	result := h.db.Delete(&Course{}, "course_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting course", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "Course not found.")
	}
	return c.String(http.StatusOK, "Course deleted successfully.")
}
