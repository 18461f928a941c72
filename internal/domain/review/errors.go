package review

import "errors"

// Review ドメインのエラー定義
var (
	ErrInvalidRating    = errors.New("評価は1〜5の整数である必要があります")
	ErrUserIDRequired   = errors.New("ユーザーIDは必須です")
	ErrHostelIDRequired = errors.New("ホステルIDは必須です")
	ErrCommentTooLong   = errors.New("コメントは2000文字以内である必要があります")
)
