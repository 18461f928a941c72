package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/application"
)

type ReviewHandler struct {
	service ReviewServiceInterface
}

func NewReviewHandler(s ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: s}
}

// 評価の範囲はドメイン側で検証する
type CreateReviewRequest struct {
	HostelID string `json:"hostel_id" validate:"required"`
	Rating   int    `json:"rating" example:"5"`
	Comment  string `json:"comment" example:"駅から近くて快適でした"`
}

// Create godoc
// @Summary レビューを投稿
// @Description 投稿後にホステルの評価を全レビューの平均で更新します
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReviewRequest true "レビュー"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} api.ErrorResponse "評価が1〜5の範囲外"
// @Failure 404 {object} api.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.CreateReview(c.Request().Context(), application.CreateReviewInput{
		UserID: userID, HostelID: req.HostelID, Rating: req.Rating, Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(r))
}

// ListByHostel godoc
// @Summary ホステルのレビュー一覧
// @Tags reviews
// @Produce json
// @Param id path string true "ホステルID"
// @Success 200 {array} ReviewResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /hostels/{id}/reviews [get]
func (h *ReviewHandler) ListByHostel(c echo.Context) error {
	reviews, err := h.service.ListHostelReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	resp := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = toReviewResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}
