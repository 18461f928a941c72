package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
)

type ReviewService struct {
	reviewRepo review.Repository
	hostelRepo hostel.Repository
}

func NewReviewService(rr review.Repository, hr hostel.Repository) *ReviewService {
	return &ReviewService{reviewRepo: rr, hostelRepo: hr}
}

type CreateReviewInput struct {
	UserID   string
	HostelID string
	Rating   int
	Comment  string
}

// CreateReview はレビューを作成し、ホステルの評価を全レビューの平均で更新する
// 評価の更新は後勝ち
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*review.Review, error) {
	r := review.NewReview(input.UserID, input.HostelID, input.Rating, input.Comment)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.hostelRepo.GetByID(ctx, input.HostelID); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("レビューの作成に失敗: %w", err)
	}

	reviews, err := s.reviewRepo.ListByHostel(ctx, input.HostelID)
	if err != nil {
		return nil, fmt.Errorf("レビュー取得に失敗: %w", err)
	}
	rating := review.AverageRating(reviews)
	if err := s.hostelRepo.UpdateRating(ctx, input.HostelID, rating); err != nil {
		return nil, fmt.Errorf("評価の更新に失敗: %w", err)
	}

	logger.FromContext(ctx).Info("レビューを作成しました",
		zap.String("hostel_id", input.HostelID),
		zap.Float64("rating", rating),
	)
	return r, nil
}

func (s *ReviewService) ListHostelReviews(ctx context.Context, hostelID string) ([]*review.Review, error) {
	if _, err := s.hostelRepo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByHostel(ctx, hostelID)
}
