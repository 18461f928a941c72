package booking

import (
	"context"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// ListByUser はユーザーの予約一覧を取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// ListByHostels は複数ホステルの予約一覧を取得する
	ListByHostels(ctx context.Context, hostelIDs []string, limit, offset int) ([]*Booking, error)

	// UpdateStatus はステータスを更新する（トランザクション必須）
	// 現在のステータスが from でなければ ErrInvalidTransition を返す
	UpdateStatus(ctx context.Context, tx transaction.Tx, b *Booking, from Status) error
}
