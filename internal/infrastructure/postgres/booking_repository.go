package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
)

const bookingColumns = `id, user_id, hostel_id, room_type, check_in_date, price, status, created_at, updated_at`

type bookingRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	HostelID    string    `db:"hostel_id"`
	RoomType    string    `db:"room_type"`
	CheckInDate time.Time `db:"check_in_date"`
	Price       int       `db:"price"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID:          r.ID,
		UserID:      r.UserID,
		HostelID:    r.HostelID,
		RoomType:    hostel.RoomType(r.RoomType),
		CheckInDate: r.CheckInDate,
		Price:       r.Price,
		Status:      booking.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// BookingRepository は予約リポジトリのPostgreSQL実装
type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (user_id, hostel_id, room_type, check_in_date, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	if err := sqlxTx.QueryRowContext(ctx, query,
		b.UserID, b.HostelID, string(b.RoomType), b.CheckInDate, b.Price, string(b.Status), b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *BookingRepository) ListByHostels(ctx context.Context, hostelIDs []string, limit, offset int) ([]*booking.Booking, error) {
	if len(hostelIDs) == 0 {
		return []*booking.Booking{}, nil
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE hostel_id = ANY($1) ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, pq.Array(hostelIDs), limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]*booking.Booking, error) {
	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	bookings := make([]*booking.Booking, len(rows))
	for i := range rows {
		bookings[i] = rows[i].toEntity()
	}
	return bookings, nil
}

// UpdateStatus は現在のステータスが from の場合のみ更新する
func (r *BookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking, from booking.Status) error {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(b.Status), b.UpdatedAt, b.ID, string(from),
	)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := sqlxTx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, b.ID); err != nil {
		return fmt.Errorf("予約の確認に失敗: %w", err)
	}
	if !exists {
		return booking.ErrBookingNotFound
	}
	return booking.ErrInvalidTransition
}

var _ booking.Repository = (*BookingRepository)(nil)
