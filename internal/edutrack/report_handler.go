package edutrack

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// selfAccessMessage is returned when a student requests another student's
// report. Administrators and Faculty are unrestricted.
const selfAccessMessage = "Access Denied: You can only view your own reports."

type ReportHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db, log: logger.New("ReportHandler")}
}

// requireSelfAccess enforces the student self-access rule for reports keyed
// by student id.
func requireSelfAccess(c echo.Context, studentID uint) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if claims.RoleName == RoleStudent && claims.UserID != studentID {
		return echo.NewHTTPError(http.StatusForbidden, selfAccessMessage)
	}
	return nil
}

type performanceRow struct {
	CourseName     string   `json:"course_name"`
	AssignmentName string   `json:"assignment_name"`
	Score          *float64 `json:"score"`
	LetterGrade    *string  `json:"letter_grade"`
}

// StudentPerformance lists a student's grades joined with course names.
func (h *ReportHandler) StudentPerformance(c echo.Context) error {
	studentID, ok := parseID(c.Param("student_id"))
	if !ok {
		return c.String(http.StatusNotFound, "Student not found.")
	}
	if err := requireSelfAccess(c, studentID); err != nil {
		return err
	}

	var rows []performanceRow
	if err := h.db.Table("grades").
		Select("courses.course_name, grades.assignment_name, grades.score, grades.letter_grade").
		Joins("JOIN enrollments ON enrollments.enrollment_id = grades.enrollment_id").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Where("enrollments.student_id = ?", studentID).
		Order("grades.grade_id").
		Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching student performance", err)
	}
	return c.JSON(http.StatusOK, rows)
}

type analyticsRow struct {
	AverageScore  *float64 `json:"average_score"`
	MinScore      *float64 `json:"min_score"`
	MaxScore      *float64 `json:"max_score"`
	TotalStudents int64    `json:"total_students"`
}

// CourseAnalytics aggregates score statistics for one course.
func (h *ReportHandler) CourseAnalytics(c echo.Context) error {
	courseID, ok := parseID(c.Param("course_id"))
	if !ok {
		return c.String(http.StatusNotFound, "Course not found.")
	}

	var row analyticsRow
	if err := h.db.Table("grades").
		Select("AVG(grades.score) as average_score, MIN(grades.score) as min_score, MAX(grades.score) as max_score, COUNT(DISTINCT enrollments.student_id) as total_students").
		Joins("JOIN enrollments ON enrollments.enrollment_id = grades.enrollment_id").
		Where("enrollments.course_id = ?", courseID).
		Scan(&row).Error; err != nil {
		return serverError(c, h.log, "Error fetching course analytics", err)
	}
	return c.JSON(http.StatusOK, row)
}

type attendanceReportRow struct {
	SessionDate string `json:"session_date"`
	Status      string `json:"status"`
}

// StudentCourseAttendance lists a student's attendance in one course.
func (h *ReportHandler) StudentCourseAttendance(c echo.Context) error {
	studentID, ok := parseID(c.Param("student_id"))
	if !ok {
		return c.String(http.StatusNotFound, "Student not found.")
	}
	courseID, ok := parseID(c.Param("course_id"))
	if !ok {
		return c.String(http.StatusNotFound, "Course not found.")
	}
	if err := requireSelfAccess(c, studentID); err != nil {
		return err
	}

	var rows []attendanceReportRow
	if err := h.db.Table("attendance").
		Select("attendance.session_date, attendance.status").
		Joins("JOIN enrollments ON enrollments.enrollment_id = attendance.enrollment_id").
		Where("enrollments.student_id = ? AND enrollments.course_id = ?", studentID, courseID).
		Order("attendance.attendance_id").
		Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching student course attendance", err)
	}
	return c.JSON(http.StatusOK, rows)
}
