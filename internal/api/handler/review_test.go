package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-hostel-booking/internal/api"
	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
)

func TestReviewHandler(t *testing.T) {
	e := NewTestEcho()

	t.Run("レビューを投稿できる", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("CreateReview", mock.Anything, application.CreateReviewInput{
			UserID: "user-1", HostelID: "hostel-1", Rating: 5, Comment: "快適",
		}).Return(&review.Review{ID: "review-1", UserID: "user-1", HostelID: "hostel-1", Rating: 5, Comment: "快適"}, nil)

		rec := call(e, NewReviewHandler(svc).Create, testRequest{
			method: http.MethodPost, path: "/reviews", userID: "user-1",
			body: `{"hostel_id":"hostel-1","rating":5,"comment":"快適"}`,
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp ReviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 5, resp.Rating)
	})

	t.Run("範囲外の評価は INVALID_RATING", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("CreateReview", mock.Anything, mock.Anything).Return(nil, review.ErrInvalidRating)

		rec := call(e, NewReviewHandler(svc).Create, testRequest{
			method: http.MethodPost, path: "/reviews", userID: "user-1",
			body: `{"hostel_id":"hostel-1","rating":0}`,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), api.CodeInvalidRating)
	})

	t.Run("存在しないホステルへのレビューは404", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("CreateReview", mock.Anything, mock.Anything).Return(nil, hostel.ErrHostelNotFound)

		rec := call(e, NewReviewHandler(svc).Create, testRequest{
			method: http.MethodPost, path: "/reviews", userID: "user-1",
			body: `{"hostel_id":"missing","rating":3}`,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ホステルのレビュー一覧", func(t *testing.T) {
		svc := new(MockReviewService)
		svc.On("ListHostelReviews", mock.Anything, "hostel-1").Return([]*review.Review{
			{ID: "review-1", Rating: 4}, {ID: "review-2", Rating: 5},
		}, nil)

		rec := call(e, NewReviewHandler(svc).ListByHostel, testRequest{
			method: http.MethodGet, path: "/hostels/hostel-1/reviews", params: map[string]string{"id": "hostel-1"},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []ReviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})
}
