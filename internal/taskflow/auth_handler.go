package taskflow

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
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

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
		return serverError(c, h.log, "Registration error", err)
	}
	if count > 0 {
		return c.String(http.StatusConflict, "User with this email already exists.")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return serverError(c, h.log, "Registration error", err)
	}

	user := User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.String(http.StatusConflict, "User with this email already exists.")
		}
		return serverError(c, h.log, "Registration error", err)
	}

	return c.String(http.StatusCreated, "User registered successfully.")
}

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
		return serverError(c, h.log, "Login error", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return c.String(http.StatusBadRequest, "Invalid credentials.")
	}

	token, err := auth.GenerateToken(h.cfg.JWT.Secret, user.UserID, RoleMember)
	if err != nil {
		return serverError(c, h.log, "Login error", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"accessToken": token})
}
