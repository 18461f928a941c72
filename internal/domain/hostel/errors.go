package hostel

import "errors"

// Hostel ドメインのエラー定義
var (
	ErrHostelNotFound         = errors.New("ホステルが見つかりません")
	ErrRoomTypeNotFound       = errors.New("指定された部屋タイプはこのホステルにありません")
	ErrNoSeatsAvailable       = errors.New("空席がありません")
	ErrHostelBusy             = errors.New("ホステルは他のリクエストを処理中です")
	ErrAccessDenied           = errors.New("このホステルを操作する権限がありません")
	ErrNameRequired           = errors.New("ホステル名は必須です")
	ErrLocationRequired       = errors.New("所在地は必須です")
	ErrOwnerRequired          = errors.New("オーナーは必須です")
	ErrInvalidHostelType      = errors.New("ホステル種別が不正です")
	ErrInvalidRoomType        = errors.New("部屋タイプが不正です")
	ErrInvalidPrice           = errors.New("価格は0以上である必要があります")
	ErrInvalidTotalSeats      = errors.New("座席数は1以上である必要があります")
	ErrInvalidOccupancy       = errors.New("使用中の座席数は0以上かつ座席数以下である必要があります")
	ErrDuplicateRoomType      = errors.New("同じ部屋タイプが重複しています")
	ErrCapacityBelowOccupancy = errors.New("座席数を使用中の座席数より少なくすることはできません")
	ErrRoomInUse              = errors.New("使用中の座席がある部屋タイプは削除できません")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
