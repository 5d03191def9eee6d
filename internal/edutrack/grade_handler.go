package edutrack

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type GradeHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGradeHandler(db *gorm.DB) *GradeHandler {
	return &GradeHandler{db: db, log: logger.New("GradeHandler")}
}

type gradeRow struct {
	GradeID          uint     `json:"grade_id"`
	EnrollmentID     uint     `json:"enrollment_id"`
	AssignmentName   string   `json:"assignment_name"`
	Score            *float64 `json:"score"`
	LetterGrade      *string  `json:"letter_grade"`
	GradedBy         *uint    `json:"graded_by"`
	StudentID        uint     `json:"student_id"`
	CourseID         uint     `json:"course_id"`
	StudentFirstName string   `json:"student_first_name"`
	StudentLastName  string   `json:"student_last_name"`
	CourseName       string   `json:"course_name"`
}

func (h *GradeHandler) gradeQuery() *gorm.DB {
	return h.db.Table("grades").
		Select("grades.*, enrollments.student_id, enrollments.course_id, users.first_name as student_first_name, users.last_name as student_last_name, courses.course_name").
		Joins("JOIN enrollments ON enrollments.enrollment_id = grades.enrollment_id").
		Joins("JOIN users ON users.user_id = enrollments.student_id").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id")
}

func (h *GradeHandler) List(c echo.Context) error {
	var rows []gradeRow
	if err := h.gradeQuery().Order("grades.grade_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching grades", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *GradeHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Grade not found.")
	}

	var rows []gradeRow
	if err := h.gradeQuery().Where("grades.grade_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching grade", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "Grade not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type CreateGradeRequest struct {
	EnrollmentID   *uint    `json:"enrollment_id" validate:"required"`
	AssignmentName string   `json:"assignment_name" validate:"required"`
	Score          *float64 `json:"score"`
	LetterGrade    *string  `json:"letter_grade" validate:"omitnil,notblank"`
	GradedBy       *uint    `json:"graded_by"`
}

func (h *GradeHandler) Create(c echo.Context) error {
	var req CreateGradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	grade := Grade{
		EnrollmentID:   *req.EnrollmentID,
		AssignmentName: req.AssignmentName,
		Score:          req.Score,
		LetterGrade:    req.LetterGrade,
		GradedBy:       req.GradedBy,
	}
	if err := h.db.Create(&grade).Error; err != nil {
		return serverError(c, h.log, "Error creating grade", err)
	}
	return c.String(http.StatusCreated, "Grade created successfully.")
}

type UpdateGradeRequest struct {
	AssignmentName *string  `json:"assignment_name" validate:"omitnil,notblank"`
	Score          *float64 `json:"score"`
	LetterGrade    *string  `json:"letter_grade" validate:"omitnil,notblank"`
	GradedBy       *uint    `json:"graded_by"`
}

func (h *GradeHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Grade not found.")
	}

	var req UpdateGradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var grade Grade
	if err := h.db.First(&grade, "grade_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Grade not found.")
		}
		return serverError(c, h.log, "Error fetching grade", err)
	}

	grade.AssignmentName = patch.String(req.AssignmentName, grade.AssignmentName)
	grade.Score = patch.FloatPtr(req.Score, grade.Score)
	grade.LetterGrade = patch.StringPtr(req.LetterGrade, grade.LetterGrade)
	grade.GradedBy = patch.UintPtr(req.GradedBy, grade.GradedBy)

	if err := h.db.Save(&grade).Error; err != nil {
		return serverError(c, h.log, "Error updating grade", err)
	}
	return c.String(http.StatusOK, "Grade updated successfully.")
}

func (h *GradeHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Grade not found.")
	}

	result := h.db.Delete(&Grade{}, "grade_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting grade", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "Grade not found.")
	}
	return c.String(http.StatusOK, "Grade deleted successfully.")
}
