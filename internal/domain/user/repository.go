package user

import "context"

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する。メール重複時は ErrEmailAlreadyExists
	Create(ctx context.Context, u *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail はメールアドレスからユーザーを取得する
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile は名前と電話番号を更新する
	UpdateProfile(ctx context.Context, u *User) error

	// SaveHostel は保存済みホステルを追加する（既に保存済みなら何もしない）
	SaveHostel(ctx context.Context, userID, hostelID string) error

	// UnsaveHostel は保存済みホステルを削除する
	UnsaveHostel(ctx context.Context, userID, hostelID string) error
}
