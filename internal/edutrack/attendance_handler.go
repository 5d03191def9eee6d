package edutrack

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type AttendanceHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceHandler(db *gorm.DB) *AttendanceHandler {
	return &AttendanceHandler{db: db, log: logger.New("AttendanceHandler")}
}

type attendanceRow struct {
	AttendanceID     uint   `json:"attendance_id"`
	EnrollmentID     uint   `json:"enrollment_id"`
	SessionDate      string `json:"session_date"`
	Status           string `json:"status"`
	RecordedBy       *uint  `json:"recorded_by"`
	StudentID        uint   `json:"student_id"`
	CourseID         uint   `json:"course_id"`
	StudentFirstName string `json:"student_first_name"`
	StudentLastName  string `json:"student_last_name"`
	CourseName       string `json:"course_name"`
}

func (h *AttendanceHandler) attendanceQuery() *gorm.DB {
	return h.db.Table("attendance").
		Select("attendance.*, enrollments.student_id, enrollments.course_id, users.first_name as student_first_name, users.last_name as student_last_name, courses.course_name").
		Joins("JOIN enrollments ON enrollments.enrollment_id = attendance.enrollment_id").
		Joins("JOIN users ON users.user_id = enrollments.student_id").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id")
}

func (h *AttendanceHandler) List(c echo.Context) error {
	var rows []attendanceRow
	if err := h.attendanceQuery().Order("attendance.attendance_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching attendance", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AttendanceHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Attendance record not found.")
	}

	var rows []attendanceRow
	if err := h.attendanceQuery().Where("attendance.attendance_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching attendance", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "Attendance record not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type CreateAttendanceRequest struct {
	EnrollmentID *uint  `json:"enrollment_id" validate:"required"`
	SessionDate  string `json:"session_date" validate:"required,datetime=2006-01-02"`
	Status       string `json:"status" validate:"required"`
	RecordedBy   *uint  `json:"recorded_by"`
}

func (h *AttendanceHandler) Create(c echo.Context) error {
	var req CreateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record := Attendance{
		EnrollmentID: *req.EnrollmentID,
		SessionDate:  req.SessionDate,
		Status:       req.Status,
		RecordedBy:   req.RecordedBy,
	}
	if err := h.db.Create(&record).Error; err != nil {
		return serverError(c, h.log, "Error creating attendance", err)
	}
	return c.String(http.StatusCreated, "Attendance record created successfully.")
}

type UpdateAttendanceRequest struct {
	SessionDate *string `json:"session_date" validate:"omitnil,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitnil,notblank"`
	RecordedBy  *uint   `json:"recorded_by"`
}

func (h *AttendanceHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Attendance record not found.")
	}

	var req UpdateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var record Attendance
	if err := h.db.First(&record, "attendance_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Attendance record not found.")
		}
		return serverError(c, h.log, "Error fetching attendance", err)
	}

	record.SessionDate = patch.String(req.SessionDate, record.SessionDate)
	record.Status = patch.String(req.Status, record.Status)
	record.RecordedBy = patch.UintPtr(req.RecordedBy, record.RecordedBy)

	if err := h.db.Save(&record).Error; err != nil {
		return serverError(c, h.log, "Error updating attendance", err)
	}
	return c.String(http.StatusOK, "Attendance record updated successfully.")
}

func (h *AttendanceHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Attendance record not found.")
	}

	result := h.db.Delete(&Attendance{}, "attendance_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting attendance", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "Attendance record not found.")
	}
	return c.String(http.StatusOK, "Attendance record deleted successfully.")
}
