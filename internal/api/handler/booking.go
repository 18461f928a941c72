package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	HostelID    string `json:"hostel_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	RoomType    string `json:"room_type" validate:"required" example:"three_sharing"`
	CheckInDate string `json:"check_in_date" validate:"required" example:"2026-04-01"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required" example:"confirmed"`
}

// 入居日は日付のみ、または RFC3339 を受け付ける
func parseCheckInDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "入居日の形式が不正です（YYYY-MM-DD）")
	}
	return t, nil
}

// Create godoc
// @Summary 予約を作成
// @Description 指定した部屋タイプの座席を1つ確保し、pending の予約を作成します
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "ホステルまたは部屋タイプが存在しない"
// @Failure 409 {object} api.ErrorResponse "空席なし"
// @Failure 429 {object} api.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	roomType, err := hostel.ParseRoomType(req.RoomType)
	if err != nil {
		return err
	}
	checkIn, err := parseCheckInDate(req.CheckInDate)
	if err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID: userID, HostelID: req.HostelID, RoomType: roomType, CheckInDate: checkIn,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// ListMine godoc
// @Summary 自分の予約一覧
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	bookings, err := h.service.ListUserBookings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// ListOwned godoc
// @Summary オーナーのホステルへの予約一覧
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Router /owner/bookings [get]
func (h *BookingHandler) ListOwned(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	bookings, err := h.service.ListOwnerBookings(c.Request().Context(), ownerID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 予約したユーザーとホステルのオーナーだけが参照できます
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	b, err := h.service.GetBooking(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// UpdateStatus godoc
// @Summary 予約ステータスを変更
// @Description オーナーが予約を確定またはキャンセルします。キャンセル時は座席を解放します
// @Tags owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "予約ID"
// @Param request body UpdateBookingStatusRequest true "新しいステータス"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "許可されていない遷移"
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateBookingStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := booking.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	b, err := h.service.UpdateStatus(c.Request().Context(), ownerID, c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約したユーザーが予約をキャンセルし、座席を解放します
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "既にキャンセル済み"
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	b, err := h.service.CancelByUser(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
