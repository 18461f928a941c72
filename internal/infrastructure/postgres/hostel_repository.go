package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
)

const hostelColumns = `id, owner_id, name, location, hostel_type, price, facilities, images, available_seats, rating, created_at, updated_at, version`

// hostelRow はDBの行を表す構造体
type hostelRow struct {
	ID             string         `db:"id"`
	OwnerID        string         `db:"owner_id"`
	Name           string         `db:"name"`
	Location       string         `db:"location"`
	HostelType     string         `db:"hostel_type"`
	Price          int            `db:"price"`
	Facilities     pq.StringArray `db:"facilities"`
	Images         pq.StringArray `db:"images"`
	AvailableSeats int            `db:"available_seats"`
	Rating         float64        `db:"rating"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	Version        int            `db:"version"`
}

type roomRow struct {
	ID         string `db:"id"`
	HostelID   string `db:"hostel_id"`
	RoomType   string `db:"room_type"`
	TotalSeats int    `db:"total_seats"`
	Occupied   int    `db:"occupied"`
	Price      int    `db:"price"`
}

func (r *hostelRow) toEntity(rooms []roomRow) *hostel.Hostel {
	h := &hostel.Hostel{
		ID:             r.ID,
		Name:           r.Name,
		Location:       r.Location,
		Type:           hostel.Type(r.HostelType),
		Price:          r.Price,
		Facilities:     []string(r.Facilities),
		Images:         []string(r.Images),
		OwnerID:        r.OwnerID,
		Rooms:          make([]hostel.Room, 0, len(rooms)),
		AvailableSeats: r.AvailableSeats,
		Rating:         r.Rating,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
	for _, rr := range rooms {
		h.Rooms = append(h.Rooms, hostel.Room{
			ID:         rr.ID,
			Type:       hostel.RoomType(rr.RoomType),
			TotalSeats: rr.TotalSeats,
			Occupied:   rr.Occupied,
			Price:      rr.Price,
		})
	}
	return h
}

// HostelRepository はホステルリポジトリのPostgreSQL実装
type HostelRepository struct {
	db *sqlx.DB
}

// NewHostelRepository はHostelRepositoryを作成する
func NewHostelRepository(db *sqlx.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

// Create は新しいホステルと部屋を作成する
func (r *HostelRepository) Create(ctx context.Context, tx transaction.Tx, h *hostel.Hostel) error {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO hostels (owner_id, name, location, hostel_type, price, facilities, images, available_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, version
	`
	err = sqlxTx.QueryRowContext(ctx, query,
		h.OwnerID, h.Name, h.Location, string(h.Type), h.Price,
		pq.Array(nonNil(h.Facilities)), pq.Array(nonNil(h.Images)),
		h.AvailableSeats, h.CreatedAt, h.UpdatedAt,
	).Scan(&h.ID, &h.Version)
	if err != nil {
		return fmt.Errorf("ホステル作成に失敗しました: %w", err)
	}
	return r.SaveRooms(ctx, tx, h.ID, h.Rooms)
}

// GetByID はIDからホステルを取得する
func (r *HostelRepository) GetByID(ctx context.Context, id string) (*hostel.Hostel, error) {
	return r.get(ctx, r.db, `SELECT `+hostelColumns+` FROM hostels WHERE id = $1`, id)
}

// LockForUpdate はホステル行を FOR UPDATE でロックして取得する
func (r *HostelRepository) LockForUpdate(ctx context.Context, tx transaction.Tx, id string) (*hostel.Hostel, error) {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, sqlxTx, `SELECT `+hostelColumns+` FROM hostels WHERE id = $1 FOR UPDATE`, id)
}

func (r *HostelRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*hostel.Hostel, error) {
	var row hostelRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hostel.ErrHostelNotFound
		}
		return nil, fmt.Errorf("ホステル取得に失敗しました: %w", err)
	}
	rooms, err := r.roomsOf(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	return row.toEntity(rooms[id]), nil
}

// roomsOf は複数ホステルの部屋をホステルIDごとにまとめて返す
func (r *HostelRepository) roomsOf(ctx context.Context, q sqlx.QueryerContext, hostelIDs []string) (map[string][]roomRow, error) {
	var rows []roomRow
	query := `
		SELECT id, hostel_id, room_type, total_seats, occupied, price
		FROM hostel_rooms
		WHERE hostel_id = ANY($1)
		ORDER BY hostel_id, room_type
	`
	if err := sqlx.SelectContext(ctx, q, &rows, query, pq.Array(hostelIDs)); err != nil {
		return nil, fmt.Errorf("部屋取得に失敗しました: %w", err)
	}
	byHostel := make(map[string][]roomRow, len(hostelIDs))
	for _, row := range rows {
		byHostel[row.HostelID] = append(byHostel[row.HostelID], row)
	}
	return byHostel, nil
}

func (r *HostelRepository) list(ctx context.Context, query string, args ...interface{}) ([]*hostel.Hostel, error) {
	var rows []hostelRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("ホステル一覧取得に失敗しました: %w", err)
	}
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	rooms, err := r.roomsOf(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	hostels := make([]*hostel.Hostel, len(rows))
	for i := range rows {
		hostels[i] = rows[i].toEntity(rooms[rows[i].ID])
	}
	return hostels, nil
}

// List はホステル一覧を新しい順に取得する
func (r *HostelRepository) List(ctx context.Context, limit, offset int) ([]*hostel.Hostel, error) {
	return r.list(ctx, `SELECT `+hostelColumns+` FROM hostels ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByOwner はオーナーのホステル一覧を取得する
func (r *HostelRepository) ListByOwner(ctx context.Context, ownerID string) ([]*hostel.Hostel, error) {
	return r.list(ctx, `SELECT `+hostelColumns+` FROM hostels WHERE owner_id = $1 ORDER BY created_at DESC, id`, ownerID)
}

// ListIDs は全ホステルのIDを取得する
func (r *HostelRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM hostels ORDER BY id`); err != nil {
		return nil, fmt.Errorf("ホステルID一覧取得に失敗しました: %w", err)
	}
	return ids, nil
}

// UpdateDetails は部屋以外の属性を更新する（楽観的ロック）
func (r *HostelRepository) UpdateDetails(ctx context.Context, tx transaction.Tx, h *hostel.Hostel) error {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}
	query := `
		UPDATE hostels
		SET name = $1, location = $2, hostel_type = $3, price = $4, facilities = $5, images = $6,
		    updated_at = $7, version = version + 1
		WHERE id = $8 AND version = $9
	`
	now := time.Now()
	result, err := sqlxTx.ExecContext(ctx, query,
		h.Name, h.Location, string(h.Type), h.Price,
		pq.Array(nonNil(h.Facilities)), pq.Array(nonNil(h.Images)),
		now, h.ID, h.Version,
	)
	if err != nil {
		return fmt.Errorf("ホステル更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return hostel.ErrOptimisticLockConflict
	}
	h.Version++
	h.UpdatedAt = now
	return nil
}

// UpdateRating は評価を更新する
func (r *HostelRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE hostels SET rating = $1, updated_at = NOW() WHERE id = $2`, rating, id)
	if err != nil {
		return fmt.Errorf("評価更新に失敗しました: %w", err)
	}
	return expectAffected(result, hostel.ErrHostelNotFound)
}

// Delete はホステルを削除する（部屋・予約・レビューは連鎖削除）
func (r *HostelRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hostels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ホステル削除に失敗しました: %w", err)
	}
	return expectAffected(result, hostel.ErrHostelNotFound)
}

// ReserveSeat は空席がある場合のみ occupied を1増やす
func (r *HostelRepository) ReserveSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType hostel.RoomType) (int, error) {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return 0, err
	}
	query := `
		UPDATE hostel_rooms
		SET occupied = occupied + 1
		WHERE hostel_id = $1 AND room_type = $2 AND occupied < total_seats
		RETURNING price
	`
	var price int
	err = sqlxTx.QueryRowContext(ctx, query, hostelID, string(roomType)).Scan(&price)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("座席確保に失敗しました: %w", err)
	}
	exists, err := roomExists(ctx, sqlxTx, hostelID, roomType)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, hostel.ErrRoomTypeNotFound
	}
	return 0, hostel.ErrNoSeatsAvailable
}

// ReleaseSeat は occupied が1以上の場合のみ1減らす
func (r *HostelRepository) ReleaseSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType hostel.RoomType) (bool, error) {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}
	query := `
		UPDATE hostel_rooms
		SET occupied = occupied - 1
		WHERE hostel_id = $1 AND room_type = $2 AND occupied > 0
	`
	result, err := sqlxTx.ExecContext(ctx, query, hostelID, string(roomType))
	if err != nil {
		return false, fmt.Errorf("座席解放に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("解放結果の確認に失敗しました: %w", err)
	}
	if rowsAffected > 0 {
		return true, nil
	}
	exists, err := roomExists(ctx, sqlxTx, hostelID, roomType)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, hostel.ErrRoomTypeNotFound
	}
	return false, nil
}

// SaveRooms は部屋構成を置き換える
// 既存の部屋タイプは座席数と価格のみ更新し、occupied は変更しない
func (r *HostelRepository) SaveRooms(ctx context.Context, tx transaction.Tx, hostelID string, rooms []hostel.Room) error {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	types := make([]string, len(rooms))
	for i := range rooms {
		types[i] = string(rooms[i].Type)
	}
	if _, err := sqlxTx.ExecContext(ctx,
		`DELETE FROM hostel_rooms WHERE hostel_id = $1 AND NOT (room_type = ANY($2))`,
		hostelID, pq.Array(types),
	); err != nil {
		return fmt.Errorf("部屋削除に失敗しました: %w", err)
	}

	query := `
		INSERT INTO hostel_rooms (hostel_id, room_type, total_seats, occupied, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hostel_id, room_type)
		DO UPDATE SET total_seats = EXCLUDED.total_seats, price = EXCLUDED.price
		RETURNING id
	`
	for i := range rooms {
		err := sqlxTx.QueryRowContext(ctx, query,
			hostelID, string(rooms[i].Type), rooms[i].TotalSeats, rooms[i].Occupied, rooms[i].Price,
		).Scan(&rooms[i].ID)
		if err != nil {
			if hasCode(err, codeCheckViolation) {
				return hostel.ErrCapacityBelowOccupancy
			}
			return fmt.Errorf("部屋保存に失敗しました: %w", err)
		}
	}
	return nil
}

// RecomputeAvailableSeats は部屋ごとの空席数の合計で available_seats を上書きする
func (r *HostelRepository) RecomputeAvailableSeats(ctx context.Context, tx transaction.Tx, hostelID string) (int, error) {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return 0, err
	}
	query := `
		UPDATE hostels
		SET available_seats = (
			SELECT COALESCE(SUM(total_seats - occupied), 0) FROM hostel_rooms WHERE hostel_id = $1
		), updated_at = NOW()
		WHERE id = $1
		RETURNING available_seats
	`
	var seats int
	if err := sqlxTx.QueryRowContext(ctx, query, hostelID).Scan(&seats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, hostel.ErrHostelNotFound
		}
		return 0, fmt.Errorf("空席数の再計算に失敗しました: %w", err)
	}
	return seats, nil
}

func roomExists(ctx context.Context, tx *sqlx.Tx, hostelID string, roomType hostel.RoomType) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM hostel_rooms WHERE hostel_id = $1 AND room_type = $2)`,
		hostelID, string(roomType),
	)
	if err != nil {
		return false, fmt.Errorf("部屋の確認に失敗しました: %w", err)
	}
	return exists, nil
}

func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// インターフェースを満たしているか確認
var _ hostel.Repository = (*HostelRepository)(nil)
