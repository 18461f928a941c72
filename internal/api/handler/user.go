package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/application"
)

type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(s UserServiceInterface) *UserHandler {
	return &UserHandler{service: s}
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100" example:"山田花子"`
	Phone *string `json:"phone" validate:"omitempty,max=20" example:"080-0000-0000"`
}

// GetMe godoc
// @Summary プロフィールを取得
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	u, err := h.service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateMe godoc
// @Summary プロフィールを更新
// @Description 名前と電話番号を部分更新します
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "更新内容"
// @Success 200 {object} UserResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.service.UpdateProfile(c.Request().Context(), userID, application.UpdateProfileInput{
		Name: req.Name, Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// SaveHostel godoc
// @Summary ホステルを保存
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ホステルID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /me/saved-hostels/{id} [post]
func (h *UserHandler) SaveHostel(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	u, err := h.service.SaveHostel(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UnsaveHostel godoc
// @Summary ホステルの保存を解除
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ホステルID"
// @Success 200 {object} UserResponse
// @Router /me/saved-hostels/{id} [delete]
func (h *UserHandler) UnsaveHostel(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	u, err := h.service.UnsaveHostel(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
