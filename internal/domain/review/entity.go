package review

import (
	"time"
	"unicode/utf8"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Review はレビューエンティティを表す
type Review struct {
	ID        string
	UserID    string
	HostelID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewReview は新しいレビューを作成する
func NewReview(userID, hostelID string, rating int, comment string) *Review {
	return &Review{
		UserID:    userID,
		HostelID:  hostelID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
}

// Validate はレビューの検証を行う
func (r *Review) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.HostelID == "" {
		return ErrHostelIDRequired
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// AverageRating はレビューの平均評価を返す。レビューがなければ0
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
