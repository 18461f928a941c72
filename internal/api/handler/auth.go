package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

type AuthHandler struct {
	users  UserServiceInterface
	tokens TokenIssuer
}

func NewAuthHandler(users UserServiceInterface, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100" example:"山田太郎"`
	Email    string `json:"email" validate:"required,email" example:"taro@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret123"`
	Role     string `json:"role" validate:"omitempty,oneof=student user owner" example:"student"`
	Phone    string `json:"phone" validate:"max=20" example:"090-1234-5678"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"taro@example.com"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// Register godoc
// @Summary ユーザー登録
// @Description 学生またはオーナーとして登録し、アクセストークンを発行します
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "登録情報"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "メールアドレスが登録済み"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return err
	}
	u, err := h.users.Register(c.Request().Context(), application.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: role, Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return h.respondWithToken(c, http.StatusCreated, u)
}

// Login godoc
// @Summary ログイン
// @Description メールアドレスとパスワードを照合し、アクセストークンを発行します
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "認証情報"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, u *user.User) error {
	token, expiresAt, err := h.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return fmt.Errorf("トークンの発行に失敗: %w", err)
	}
	return c.JSON(status, AuthResponse{Token: token, ExpiresAt: expiresAt, User: toUserResponse(u)})
}
