package edutrack

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type EnrollmentHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentHandler(db *gorm.DB) *EnrollmentHandler {
	return &EnrollmentHandler{db: db, log: logger.New("EnrollmentHandler")}
}

type enrollmentRow struct {
	EnrollmentID     uint   `json:"enrollment_id"`
	StudentID        uint   `json:"student_id"`
	CourseID         uint   `json:"course_id"`
	EnrollmentDate   string `json:"enrollment_date"`
	Status           string `json:"status"`
	StudentFirstName string `json:"student_first_name"`
	StudentLastName  string `json:"student_last_name"`
	CourseName       string `json:"course_name"`
}

func (h *EnrollmentHandler) enrollmentQuery() *gorm.DB {
	return h.db.Table("enrollments").
		Select("enrollments.*, users.first_name as student_first_name, users.last_name as student_last_name, courses.course_name").
		Joins("JOIN users ON users.user_id = enrollments.student_id").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id")
}

func (h *EnrollmentHandler) List(c echo.Context) error {
	var rows []enrollmentRow
	if err := h.enrollmentQuery().Order("enrollments.enrollment_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching enrollments", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *EnrollmentHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Enrollment not found.")
	}

	var rows []enrollmentRow
	if err := h.enrollmentQuery().Where("enrollments.enrollment_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching enrollment", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "Enrollment not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type CreateEnrollmentRequest struct {
	StudentID      *uint  `json:"student_id" validate:"required"`
	CourseID       *uint  `json:"course_id" validate:"required"`
	EnrollmentDate string `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
	Status         string `json:"status" validate:"required"`
}

// Create inserts a new enrollment. The composite unique index on
// (student_id, course_id) is the authoritative guard against the duplicate
// race; the pre-check read only reproduces the documented message.
func (h *EnrollmentHandler) Create(c echo.Context) error {
	var req CreateEnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var count int64
	if err := h.db.Model(&Enrollment{}).
		Where("student_id = ? AND course_id = ?", *req.StudentID, *req.CourseID).
		Count(&count).Error; err != nil {
		return serverError(c, h.log, "Error creating enrollment", err)
	}
	if count > 0 {
		return c.String(http.StatusConflict, "Student is already enrolled in this course.")
	}

	enrollment := Enrollment{
		StudentID:      *req.StudentID,
		CourseID:       *req.CourseID,
		EnrollmentDate: req.EnrollmentDate,
		Status:         req.Status,
	}
	if err := h.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.String(http.StatusConflict, "Student is already enrolled in this course.")
		}
		return serverError(c, h.log, "Error creating enrollment", err)
	}
	return c.String(http.StatusCreated, "Enrollment created successfully.")
}

type UpdateEnrollmentRequest struct {
	EnrollmentDate *string `json:"enrollment_date" validate:"omitnil,datetime=2006-01-02"`
	Status         *string `json:"status" validate:"omitnil,notblank"`
}

func (h *EnrollmentHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Enrollment not found.")
	}

	var req UpdateEnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var enrollment Enrollment
	if err := h.db.First(&enrollment, "enrollment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Enrollment not found.")
		}
		return serverError(c, h.log, "Error fetching enrollment", err)
	}

	enrollment.EnrollmentDate = patch.String(req.EnrollmentDate, enrollment.EnrollmentDate)
	enrollment.Status = patch.String(req.Status, enrollment.Status)

	if err := h.db.Save(&enrollment).Error; err != nil {
		return serverError(c, h.log, "Error updating enrollment", err)
	}
	return c.String(http.StatusOK, "Enrollment updated successfully.")
}

func (h *EnrollmentHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Enrollment not found.")
	}

	result := h.db.Delete(&Enrollment{}, "enrollment_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting enrollment", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "Enrollment not found.")
	}
	return c.String(http.StatusOK, "Enrollment deleted successfully.")
}
