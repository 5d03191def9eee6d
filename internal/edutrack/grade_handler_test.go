package edutrack

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeLifecycle(t *testing.T) {
	s := newTestServer(t)
	faculty, facultyToken := seedUser(t, s, "faculty@example.com", RoleFaculty)
	student, _ := seedUser(t, s, "student@example.com", RoleStudent)
	course := seedCourse(t, s, "CS101")
	enrollment := seedEnrollment(t, s, student.UserID, course.CourseID)

	rec := do(t, s, http.MethodPost, "/api/grades", facultyToken, map[string]interface{}{
		"enrollment_id":   enrollment.EnrollmentID,
		"assignment_name": "Midterm",
		"score":           87.5,
		"letter_grade":    "B+",
		"graded_by":       faculty.UserID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Grade created successfully.", rec.Body.String())

	var grade Grade
	require.NoError(t, s.db.First(&grade, "enrollment_id = ?", enrollment.EnrollmentID).Error)

	// Merge update: a new score keeps assignment name and letter grade.
	rec = do(t, s, http.MethodPut, urlWithID("/api/grades", grade.GradeID), facultyToken, map[string]interface{}{
		"score": 91.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Grade updated successfully.", rec.Body.String())

	rec = do(t, s, http.MethodGet, urlWithID("/api/grades", grade.GradeID), facultyToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got gradeRow
	decodeJSON(t, rec, &got)
	assert.Equal(t, "Midterm", got.AssignmentName)
	require.NotNil(t, got.Score)
	assert.Equal(t, 91.0, *got.Score)
	require.NotNil(t, got.LetterGrade)
	assert.Equal(t, "B+", *got.LetterGrade)
	assert.Equal(t, "Course CS101", got.CourseName)

	// Deleting grades is administrator-only.
	rec = do(t, s, http.MethodDelete, urlWithID("/api/grades", grade.GradeID), facultyToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, adminToken := seedUser(t, s, "admin@example.com", RoleAdministrator)
	rec = do(t, s, http.MethodDelete, urlWithID("/api/grades", grade.GradeID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Grade deleted successfully.", rec.Body.String())

	rec = do(t, s, http.MethodGet, urlWithID("/api/grades", grade.GradeID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Grade not found.", rec.Body.String())
}

func TestAttendanceLifecycle(t *testing.T) {
	s := newTestServer(t)
	faculty, facultyToken := seedUser(t, s, "faculty@example.com", RoleFaculty)
	student, _ := seedUser(t, s, "student@example.com", RoleStudent)
	course := seedCourse(t, s, "CS101")
	enrollment := seedEnrollment(t, s, student.UserID, course.CourseID)

	rec := do(t, s, http.MethodPost, "/api/attendance", facultyToken, map[string]interface{}{
		"enrollment_id": enrollment.EnrollmentID,
		"session_date":  "2026-03-10",
		"status":        "present",
		"recorded_by":   faculty.UserID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Attendance record created successfully.", rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/attendance", facultyToken, map[string]interface{}{
		"enrollment_id": enrollment.EnrollmentID,
		"session_date":  "10-03-2026",
		"status":        "present",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_date must be a valid date")

	var record Attendance
	require.NoError(t, s.db.First(&record, "enrollment_id = ?", enrollment.EnrollmentID).Error)

	rec = do(t, s, http.MethodPut, urlWithID("/api/attendance", record.AttendanceID), facultyToken, map[string]interface{}{
		"status": "absent",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Attendance record updated successfully.", rec.Body.String())

	var updated Attendance
	require.NoError(t, s.db.First(&updated, record.AttendanceID).Error)
	assert.Equal(t, "absent", updated.Status)
	assert.Equal(t, "2026-03-10", updated.SessionDate)
}

func TestGradeUpdateRejectsExplicitEmpty(t *testing.T) {
	s := newTestServer(t)
	_, facultyToken := seedUser(t, s, "faculty@example.com", RoleFaculty)
	student, _ := seedUser(t, s, "student@example.com", RoleStudent)
	course := seedCourse(t, s, "CS101")
	enrollment := seedEnrollment(t, s, student.UserID, course.CourseID)

	letter := "B+"
	grade := Grade{EnrollmentID: enrollment.EnrollmentID, AssignmentName: "Midterm", LetterGrade: &letter}
	require.NoError(t, s.db.Create(&grade).Error)

	rec := do(t, s, http.MethodPut, urlWithID("/api/grades", grade.GradeID), facultyToken, map[string]string{
		"assignment_name": "",
		"letter_grade":    "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "assignment_name cannot be empty")
	assert.Contains(t, rec.Body.String(), "letter_grade cannot be empty")

	var got Grade
	require.NoError(t, s.db.First(&got, "grade_id = ?", grade.GradeID).Error)
	assert.Equal(t, "Midterm", got.AssignmentName)
	require.NotNil(t, got.LetterGrade)
	assert.Equal(t, "B+", *got.LetterGrade)
}

func TestAttendanceUpdateRejectsExplicitEmpty(t *testing.T) {
	s := newTestServer(t)
	_, facultyToken := seedUser(t, s, "faculty@example.com", RoleFaculty)
	student, _ := seedUser(t, s, "student@example.com", RoleStudent)
	course := seedCourse(t, s, "CS101")
	enrollment := seedEnrollment(t, s, student.UserID, course.CourseID)

	record := Attendance{EnrollmentID: enrollment.EnrollmentID, SessionDate: "2026-02-02", Status: "present"}
	require.NoError(t, s.db.Create(&record).Error)

	rec := do(t, s, http.MethodPut, urlWithID("/api/attendance", record.AttendanceID), facultyToken, map[string]string{
		"status": "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status cannot be empty")

	rec = do(t, s, http.MethodPut, urlWithID("/api/attendance", record.AttendanceID), facultyToken, map[string]string{
		"session_date": "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_date must be a valid date")

	var got Attendance
	require.NoError(t, s.db.First(&got, "attendance_id = ?", record.AttendanceID).Error)
	assert.Equal(t, "present", got.Status)
	assert.Equal(t, "2026-02-02", got.SessionDate)
}
