package edutrack

import (
	"gorm.io/gorm"
)

// The table and column layout below is a fixed collaborator contract: wire
// names and relational names are the snake_case identifiers the existing
// clients and schema already use.

// RoleAdministrator, RoleFaculty and RoleStudent are the closed set of role
// labels. Authorization compares these labels exactly; there is no
// hierarchy.
const (
	RoleAdministrator = "Administrator"
	RoleFaculty       = "Faculty"
	RoleStudent       = "Student"
)

type Role struct {
	RoleID   uint   `gorm:"column:role_id;primaryKey" json:"role_id"`
	RoleName string `gorm:"column:role_name;uniqueIndex;not null" json:"role_name"`
}

func (Role) TableName() string { return "roles" }

type User struct {
	UserID       uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	FirstName    string `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string `gorm:"column:last_name;not null" json:"last_name"`
	Email        string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	RoleID       uint   `gorm:"column:role_id;not null" json:"role_id"`
	Role         *Role  `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

func (User) TableName() string { return "users" }

type Course struct {
	CourseID    uint    `gorm:"column:course_id;primaryKey" json:"course_id"`
	CourseCode  string  `gorm:"column:course_code;uniqueIndex;not null" json:"course_code"`
	CourseName  string  `gorm:"column:course_name;not null" json:"course_name"`
	Description string  `gorm:"column:description" json:"description"`
	Credits     float64 `gorm:"column:credits;not null" json:"credits"`
	FacultyID   *uint   `gorm:"column:faculty_id" json:"faculty_id"`
}

func (Course) TableName() string { return "courses" }

type Enrollment struct {
	EnrollmentID   uint   `gorm:"column:enrollment_id;primaryKey" json:"enrollment_id"`
	StudentID      uint   `gorm:"column:student_id;not null;uniqueIndex:idx_enrollment_pair" json:"student_id"`
	CourseID       uint   `gorm:"column:course_id;not null;uniqueIndex:idx_enrollment_pair" json:"course_id"`
	EnrollmentDate string `gorm:"column:enrollment_date;not null" json:"enrollment_date"`
	Status         string `gorm:"column:status;not null" json:"status"`
}

func (Enrollment) TableName() string { return "enrollments" }

type Grade struct {
	GradeID        uint     `gorm:"column:grade_id;primaryKey" json:"grade_id"`
	EnrollmentID   uint     `gorm:"column:enrollment_id;not null" json:"enrollment_id"`
	AssignmentName string   `gorm:"column:assignment_name;not null" json:"assignment_name"`
	Score          *float64 `gorm:"column:score" json:"score"`
	LetterGrade    *string  `gorm:"column:letter_grade" json:"letter_grade"`
	GradedBy       *uint    `gorm:"column:graded_by" json:"graded_by"`
}

func (Grade) TableName() string { return "grades" }

type Attendance struct {
	AttendanceID uint   `gorm:"column:attendance_id;primaryKey" json:"attendance_id"`
	EnrollmentID uint   `gorm:"column:enrollment_id;not null" json:"enrollment_id"`
	SessionDate  string `gorm:"column:session_date;not null" json:"session_date"`
	Status       string `gorm:"column:status;not null" json:"status"`
	RecordedBy   *uint  `gorm:"column:recorded_by" json:"recorded_by"`
}

func (Attendance) TableName() string { return "attendance" }

// Migrate creates the EduTrack schema and seeds the role table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Role{},
		&User{},
		&Course{},
		&Enrollment{},
		&Grade{},
		&Attendance{},
	); err != nil {
		return err
	}
	return SeedRoles(db)
}

// SeedRoles inserts the closed role set if it is not already present.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{RoleAdministrator, RoleFaculty, RoleStudent} {
		role := Role{RoleName: name}
		if err := db.Where("role_name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
