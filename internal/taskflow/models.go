package taskflow

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskFlow has a single implicit role; every authenticated user carries it.
const RoleMember = "Member"

type User struct {
	UserID       uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username     string `gorm:"column:username;not null" json:"username"`
	Email        string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}

func (User) TableName() string { return "users" }

type Project struct {
	ProjectID   uint    `gorm:"column:project_id;primaryKey" json:"project_id"`
	ProjectName string  `gorm:"column:project_name;not null" json:"project_name"`
	Description string  `gorm:"column:description" json:"description"`
	StartDate   *string `gorm:"column:start_date" json:"start_date"`
	EndDate     *string `gorm:"column:end_date" json:"end_date"`
	Status      string  `gorm:"column:status" json:"status"`
	CreatorID   uint    `gorm:"column:creator_id;not null" json:"creator_id"`
}

func (Project) TableName() string { return "projects" }

type Task struct {
	TaskID      uint    `gorm:"column:task_id;primaryKey" json:"task_id"`
	ProjectID   uint    `gorm:"column:project_id;not null" json:"project_id"`
	AssigneeID  *uint   `gorm:"column:assignee_id" json:"assignee_id"`
	CreatorID   uint    `gorm:"column:creator_id;not null" json:"creator_id"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Description string  `gorm:"column:description" json:"description"`
	DueDate     *string `gorm:"column:due_date" json:"due_date"`
	Status      string  `gorm:"column:status" json:"status"`
	Priority    string  `gorm:"column:priority" json:"priority"`
}

func (Task) TableName() string { return "tasks" }

type Comment struct {
	CommentID   uint      `gorm:"column:comment_id;primaryKey" json:"comment_id"`
	TaskID      uint      `gorm:"column:task_id;not null" json:"task_id"`
	UserID      uint      `gorm:"column:user_id;not null" json:"user_id"`
	CommentText string    `gorm:"column:comment_text;not null" json:"comment_text"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

type Notification struct {
	NotificationID uint           `gorm:"column:notification_id;primaryKey" json:"notification_id"`
	UserID         uint           `gorm:"column:user_id;not null" json:"user_id"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	Type           string         `gorm:"column:type" json:"type"`
	Data           datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead         bool           `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Migrate creates the TaskFlow schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Project{},
		&Task{},
		&Comment{},
		&Notification{},
	)
}
