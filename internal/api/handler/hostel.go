package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
)

type HostelHandler struct {
	service      HostelServiceInterface
	availability AvailabilityReader
}

func NewHostelHandler(s HostelServiceInterface, a AvailabilityReader) *HostelHandler {
	return &HostelHandler{service: s, availability: a}
}

type RoomRequest struct {
	Type       string `json:"type" validate:"required" example:"three_sharing"`
	TotalSeats int    `json:"total_seats" validate:"gte=1" example:"3"`
	Price      int    `json:"price" validate:"gte=0" example:"25000"`
}

type CreateHostelRequest struct {
	Name       string        `json:"name" validate:"required,max=200" example:"さくらホステル"`
	Location   string        `json:"location" validate:"required,max=200" example:"京都"`
	Type       string        `json:"type" validate:"required" example:"boys_hostel"`
	Price      int           `json:"price" validate:"gte=0" example:"30000"`
	Facilities []string      `json:"facilities" example:"wifi,laundry"`
	Images     []string      `json:"images"`
	Rooms      []RoomRequest `json:"rooms" validate:"required,min=1,dive"`
}

type UpdateHostelRequest struct {
	Name       *string       `json:"name" validate:"omitempty,max=200"`
	Location   *string       `json:"location" validate:"omitempty,max=200"`
	Type       *string       `json:"type"`
	Price      *int          `json:"price" validate:"omitempty,gte=0"`
	Facilities []string      `json:"facilities"`
	Images     []string      `json:"images"`
	Rooms      []RoomRequest `json:"rooms" validate:"omitempty,dive"`
}

type AvailabilityResponse struct {
	HostelID       string `json:"hostel_id"`
	AvailableSeats int    `json:"available_seats" example:"5"`
}

func toRooms(reqs []RoomRequest) ([]hostel.Room, error) {
	if reqs == nil {
		return nil, nil
	}
	rooms := make([]hostel.Room, len(reqs))
	for i, r := range reqs {
		rt, err := hostel.ParseRoomType(r.Type)
		if err != nil {
			return nil, err
		}
		rooms[i] = hostel.Room{Type: rt, TotalSeats: r.TotalSeats, Price: r.Price}
	}
	return rooms, nil
}

// Create godoc
// @Summary ホステルを作成
// @Description オーナーがホステルと部屋構成を登録します
// @Tags hostels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateHostelRequest true "ホステル情報"
// @Success 201 {object} HostelResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /hostels [post]
func (h *HostelHandler) Create(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateHostelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hostelType, err := hostel.ParseType(req.Type)
	if err != nil {
		return err
	}
	rooms, err := toRooms(req.Rooms)
	if err != nil {
		return err
	}
	created, err := h.service.CreateHostel(c.Request().Context(), application.CreateHostelInput{
		OwnerID: ownerID, Name: req.Name, Location: req.Location, Type: hostelType,
		Price: req.Price, Facilities: req.Facilities, Images: req.Images, Rooms: rooms,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toHostelResponse(created))
}

// GetByID godoc
// @Summary ホステルを取得
// @Tags hostels
// @Produce json
// @Param id path string true "ホステルID"
// @Success 200 {object} HostelResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /hostels/{id} [get]
func (h *HostelHandler) GetByID(c echo.Context) error {
	found, err := h.service.GetHostel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHostelResponse(found))
}

// List godoc
// @Summary ホステル一覧を取得
// @Tags hostels
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} HostelResponse
// @Router /hostels [get]
func (h *HostelHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	hostels, err := h.service.ListHostels(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHostelResponses(hostels))
}

// ListOwned godoc
// @Summary オーナーのホステル一覧
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} HostelResponse
// @Router /owner/hostels [get]
func (h *HostelHandler) ListOwned(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	hostels, err := h.service.ListOwnerHostels(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHostelResponses(hostels))
}

// Update godoc
// @Summary ホステルを更新
// @Description 指定したフィールドだけを更新します。rooms を指定すると部屋構成全体を置き換え、images は既存に追加します
// @Tags hostels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ホステルID"
// @Param request body UpdateHostelRequest true "更新内容"
// @Success 200 {object} HostelResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "使用中の座席数を下回る変更"
// @Router /hostels/{id} [put]
func (h *HostelHandler) Update(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateHostelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	input := application.UpdateHostelInput{
		Name: req.Name, Location: req.Location, Price: req.Price,
		Facilities: req.Facilities, Images: req.Images,
	}
	if req.Type != nil {
		t, err := hostel.ParseType(*req.Type)
		if err != nil {
			return err
		}
		input.Type = &t
	}
	if input.Rooms, err = toRooms(req.Rooms); err != nil {
		return err
	}

	updated, err := h.service.UpdateHostel(c.Request().Context(), ownerID, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHostelResponse(updated))
}

// Delete godoc
// @Summary ホステルを削除
// @Tags hostels
// @Security BearerAuth
// @Param id path string true "ホステルID"
// @Success 204
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /hostels/{id} [delete]
func (h *HostelHandler) Delete(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteHostel(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability godoc
// @Summary 空席数を取得
// @Tags hostels
// @Produce json
// @Param id path string true "ホステルID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /hostels/{id}/availability [get]
func (h *HostelHandler) Availability(c echo.Context) error {
	id := c.Param("id")
	seats, err := h.availability.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{HostelID: id, AvailableSeats: seats})
}

// Reconcile godoc
// @Summary 空席数を再計算
// @Description 部屋ごとの在庫から空席数を再計算します
// @Tags hostels
// @Produce json
// @Security BearerAuth
// @Param id path string true "ホステルID"
// @Success 200 {object} AvailabilityResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /hostels/{id}/reconcile [post]
func (h *HostelHandler) Reconcile(c echo.Context) error {
	ownerID, err := currentUser(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	seats, err := h.service.Reconcile(c.Request().Context(), ownerID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{HostelID: id, AvailableSeats: seats})
}
