package booking

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus は外部入力を Status に変換する（大文字小文字は区別しない）
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrInvalidStatus
}

// transitions は許可されたステータス遷移
// cancelled は終端状態
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

// CanTransition は from から to への遷移が許可されているかを返す
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking は予約エンティティを表す
type Booking struct {
	ID          string
	UserID      string
	HostelID    string
	RoomType    hostel.RoomType
	CheckInDate time.Time
	Price       int // 予約時点の部屋価格
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBooking は新しい予約を pending 状態で作成する
func NewBooking(userID, hostelID string, roomType hostel.RoomType, checkInDate time.Time, price int) *Booking {
	now := time.Now()
	return &Booking{
		UserID:      userID,
		HostelID:    hostelID,
		RoomType:    roomType,
		CheckInDate: checkInDate,
		Price:       price,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransitionTo はステータスを変更する
// 変更前のステータスを返す。許可されない遷移（同一ステータスを含む）は ErrInvalidTransition
func (b *Booking) TransitionTo(to Status) (Status, error) {
	from := b.Status
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return from, nil
}

// Confirm は予約を確定する
func (b *Booking) Confirm() error {
	_, err := b.TransitionTo(StatusConfirmed)
	return err
}

// Cancel は予約をキャンセルする
func (b *Booking) Cancel() error {
	_, err := b.TransitionTo(StatusCancelled)
	return err
}

// IsCancelled は予約がキャンセル済みかを返す
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if b.HostelID == "" {
		return ErrHostelIDRequired
	}
	if !b.RoomType.IsValid() {
		return ErrRoomTypeRequired
	}
	if b.CheckInDate.IsZero() {
		return ErrCheckInDateRequired
	}
	if b.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
