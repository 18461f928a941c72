package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound     = errors.New("予約が見つかりません")
	ErrInvalidTransition   = errors.New("この予約ステータスへは変更できません")
	ErrInvalidStatus       = errors.New("予約ステータスが不正です")
	ErrAccessDenied        = errors.New("この予約を操作する権限がありません")
	ErrUserIDRequired      = errors.New("ユーザーIDは必須です")
	ErrHostelIDRequired    = errors.New("ホステルIDは必須です")
	ErrRoomTypeRequired    = errors.New("部屋タイプは必須です")
	ErrCheckInDateRequired = errors.New("入居日は必須です")
	ErrInvalidPrice        = errors.New("価格は0以上である必要があります")
)
