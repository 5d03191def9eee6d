package edutrack

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/patch"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type UserHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db, log: logger.New("UserHandler")}
}

// userRow is the joined projection returned by list and get: no password
// hash, role resolved to its label.
type userRow struct {
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	RoleName  string `json:"role_name"`
}

func (h *UserHandler) userQuery() *gorm.DB {
	return h.db.Table("users").
		Select("users.user_id, users.first_name, users.last_name, users.email, roles.role_name").
		Joins("JOIN roles ON roles.role_id = users.role_id")
}

// List returns all users in insertion order. Unbounded by design: no
// pagination.
func (h *UserHandler) List(c echo.Context) error {
	var rows []userRow
	if err := h.userQuery().Order("users.user_id").Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching users", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "User not found.")
	}

	var rows []userRow
	if err := h.userQuery().Where("users.user_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return serverError(c, h.log, "Error fetching user", err)
	}
	if len(rows) == 0 {
		return c.String(http.StatusNotFound, "User not found.")
	}
	return c.JSON(http.StatusOK, rows[0])
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitnil,required"`
	LastName  *string `json:"last_name" validate:"omitnil,required"`
	Email     *string `json:"email" validate:"omitnil,email"`
	RoleName  *string `json:"role_name" validate:"omitnil,required"`
}

// Update merges the request into the stored row: a field present in the
// body always overwrites, an omitted field is kept.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "User not found.")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user User
	if err := h.db.First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "User not found.")
		}
		return serverError(c, h.log, "Error fetching user", err)
	}

	if req.RoleName != nil {
		var role Role
		if err := h.db.Where("role_name = ?", *req.RoleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.String(http.StatusBadRequest, "Invalid role specified.")
			}
			return serverError(c, h.log, "Error resolving role", err)
		}
		user.RoleID = role.RoleID
	}

	user.FirstName = patch.String(req.FirstName, user.FirstName)
	user.LastName = patch.String(req.LastName, user.LastName)
	user.Email = patch.String(req.Email, user.Email)

	if err := h.db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.String(http.StatusConflict, "User with this email already exists.")
		}
		return serverError(c, h.log, "Error updating user", err)
	}
	return c.String(http.StatusOK, "User updated successfully.")
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "User not found.")
	}

	result := h.db.Delete(&User{}, "user_id = ?", id)
	if result.Error != nil {
		return serverError(c, h.log, "Error deleting user", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.String(http.StatusNotFound, "User not found.")
	}
	return c.String(http.StatusOK, "User deleted successfully.")
}
