package edutrack

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/auth"
	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	log *logger.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, log: logger.New("AuthHandler")}
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	RoleName  string `json:"role_name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user. The unique index on users.email is the
// authoritative duplicate guard; the pre-check read exists to produce the
// documented conflict message without relying on insert ordering.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var count int64
	if err := h.db.Model(&User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return h.serverError(c, "Registration error", err)
	}
	if count > 0 {
		return c.String(http.StatusConflict, "User with this email already exists.")
	}

	var role Role
	if err := h.db.Where("role_name = ?", req.RoleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusBadRequest, "Invalid role specified.")
		}
		return h.serverError(c, "Registration error", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return h.serverError(c, "Registration error", err)
	}

	user := User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       role.RoleID,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.String(http.StatusConflict, "User with this email already exists.")
		}
		return h.serverError(c, "Registration error", err)
	}

	return c.String(http.StatusCreated, "User registered successfully.")
}

// Login authenticates credentials and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusBadRequest, "Invalid credentials.")
		}
		return h.serverError(c, "Login error", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return c.String(http.StatusBadRequest, "Invalid credentials.")
	}

	var role Role
	if err := h.db.First(&role, "role_id = ?", user.RoleID).Error; err != nil {
		return h.serverError(c, "Login error", err)
	}

	token, err := auth.GenerateToken(h.cfg.JWT.Secret, user.UserID, role.RoleName)
	if err != nil {
		return h.serverError(c, "Login error", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"accessToken": token})
}

func (h *AuthHandler) serverError(c echo.Context, msg string, err error) error {
	_ = h.log.Error(msg, err)
	return c.String(http.StatusInternalServerError, "Server error.")
}
