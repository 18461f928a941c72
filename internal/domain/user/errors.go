package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound       = errors.New("ユーザーが見つかりません")
	ErrEmailAlreadyExists = errors.New("このメールアドレスは既に登録されています")
	ErrInvalidCredentials = errors.New("メールアドレスまたはパスワードが正しくありません")
	ErrNameRequired       = errors.New("名前は必須です")
	ErrInvalidEmail       = errors.New("メールアドレスが不正です")
	ErrPasswordTooShort   = errors.New("パスワードは6文字以上である必要があります")
	ErrInvalidRole        = errors.New("ロールが不正です")
)
