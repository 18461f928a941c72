package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
)

type reviewRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	HostelID  string    `db:"hostel_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// ReviewRepository はレビューリポジトリのPostgreSQL実装
type ReviewRepository struct{ db *sqlx.DB }

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	query := `INSERT INTO reviews (user_id, hostel_id, rating, comment, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, rv.UserID, rv.HostelID, rv.Rating, rv.Comment, rv.CreatedAt).Scan(&rv.ID); err != nil {
		if hasCode(err, codeCheckViolation) {
			return review.ErrInvalidRating
		}
		return fmt.Errorf("レビュー作成に失敗: %w", err)
	}
	return nil
}

func (r *ReviewRepository) ListByHostel(ctx context.Context, hostelID string) ([]*review.Review, error) {
	var rows []reviewRow
	query := `SELECT id, user_id, hostel_id, rating, comment, created_at FROM reviews WHERE hostel_id = $1 ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &rows, query, hostelID); err != nil {
		return nil, fmt.Errorf("レビュー一覧取得に失敗: %w", err)
	}
	reviews := make([]*review.Review, len(rows))
	for i, row := range rows {
		reviews[i] = &review.Review{
			ID:        row.ID,
			UserID:    row.UserID,
			HostelID:  row.HostelID,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		}
	}
	return reviews, nil
}

var _ review.Repository = (*ReviewRepository)(nil)
