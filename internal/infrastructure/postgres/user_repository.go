package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

const userColumns = `id, name, email, password_hash, role, phone, joined_at`

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Phone        string    `db:"phone"`
	JoinedAt     time.Time `db:"joined_at"`
}

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Phone, u.JoinedAt).Scan(&u.ID); err != nil {
		if hasCode(err, codeUniqueViolation) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("ユーザー作成に失敗: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, user.NormalizeEmail(email))
}

func (r *UserRepository) get(ctx context.Context, query, arg string) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	saved := []string{}
	if err := r.db.SelectContext(ctx, &saved,
		`SELECT hostel_id FROM user_saved_hostels WHERE user_id = $1 ORDER BY saved_at, hostel_id`, row.ID,
	); err != nil {
		return nil, fmt.Errorf("保存済みホステル取得に失敗: %w", err)
	}
	return &user.User{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		PasswordHash:   row.PasswordHash,
		Role:           user.Role(row.Role),
		Phone:          row.Phone,
		JoinedAt:       row.JoinedAt,
		SavedHostelIDs: saved,
	}, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1, phone = $2 WHERE id = $3`, u.Name, u.Phone, u.ID)
	if err != nil {
		return fmt.Errorf("ユーザー更新に失敗: %w", err)
	}
	return expectAffected(result, user.ErrUserNotFound)
}

func (r *UserRepository) SaveHostel(ctx context.Context, userID, hostelID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_saved_hostels (user_id, hostel_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, hostelID,
	)
	if err != nil {
		return fmt.Errorf("ホステルの保存に失敗: %w", err)
	}
	return nil
}

func (r *UserRepository) UnsaveHostel(ctx context.Context, userID, hostelID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_saved_hostels WHERE user_id = $1 AND hostel_id = $2`, userID, hostelID)
	if err != nil {
		return fmt.Errorf("保存済みホステルの削除に失敗: %w", err)
	}
	return nil
}

var _ user.Repository = (*UserRepository)(nil)
