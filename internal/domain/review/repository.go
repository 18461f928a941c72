package review

import "context"

// Repository はレビューリポジトリのインターフェース
type Repository interface {
	// Create は新しいレビューを作成する
	Create(ctx context.Context, r *Review) error

	// ListByHostel はホステルのレビューを新しい順に取得する
	ListByHostel(ctx context.Context, hostelID string) ([]*Review, error)
}
