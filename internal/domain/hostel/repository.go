package hostel

import (
	"context"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
)

// Repository はホステルリポジトリのインターフェース
type Repository interface {
	// Create は新しいホステルと部屋を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, h *Hostel) error

	// GetByID はIDからホステル（部屋を含む）を取得する
	GetByID(ctx context.Context, id string) (*Hostel, error)

	// List はホステル一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Hostel, error)

	// ListByOwner はオーナーのホステル一覧を取得する
	ListByOwner(ctx context.Context, ownerID string) ([]*Hostel, error)

	// ListIDs は全ホステルのIDを取得する
	ListIDs(ctx context.Context) ([]string, error)

	// UpdateDetails は部屋以外の属性を更新する（楽観的ロック、トランザクション必須）
	UpdateDetails(ctx context.Context, tx transaction.Tx, h *Hostel) error

	// UpdateRating は評価を更新する（後勝ち）
	UpdateRating(ctx context.Context, id string, rating float64) error

	// Delete はホステルを削除する
	Delete(ctx context.Context, id string) error

	// 以下は座席台帳専用。呼び出し側は同一トランザクション内で LockForUpdate を先に呼ぶこと

	// LockForUpdate はホステル行をロックし、部屋を含むホステルを返す
	LockForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Hostel, error)

	// ReserveSeat は空席がある場合のみ occupied を1増やし、部屋の価格を返す
	ReserveSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType RoomType) (price int, err error)

	// ReleaseSeat は occupied が1以上の場合のみ1減らす。減らしたかどうかを返す
	ReleaseSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType RoomType) (released bool, err error)

	// SaveRooms は部屋構成を置き換える
	SaveRooms(ctx context.Context, tx transaction.Tx, hostelID string, rooms []Room) error

	// RecomputeAvailableSeats は部屋の合計から available_seats を再計算して保存し、新しい値を返す
	RecomputeAvailableSeats(ctx context.Context, tx transaction.Tx, hostelID string) (int, error)
}
