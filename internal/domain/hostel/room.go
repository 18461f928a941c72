package hostel

import "strings"

// RoomType は部屋タイプ（座席台帳のキー）を表す
type RoomType string

const (
	RoomSingle       RoomType = "single"
	RoomTwoSharing   RoomType = "two_sharing"
	RoomThreeSharing RoomType = "three_sharing"
	RoomFiveSharing  RoomType = "five_sharing"
)

// roomTypeAliases は外部入力で受け付ける表記ゆれ
var roomTypeAliases = map[string]RoomType{
	"single":        RoomSingle,
	"two_sharing":   RoomTwoSharing,
	"2-sharing":     RoomTwoSharing,
	"three_sharing": RoomThreeSharing,
	"3-sharing":     RoomThreeSharing,
	"five_sharing":  RoomFiveSharing,
	"5-sharing":     RoomFiveSharing,
}

// ParseRoomType は外部入力を RoomType に変換する
// 部分一致は行わず、既知の表記のみ受け付ける
func ParseRoomType(s string) (RoomType, error) {
	if rt, ok := roomTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return rt, nil
	}
	return "", ErrInvalidRoomType
}

// IsValid は RoomType が定義済みの値かを返す
func (t RoomType) IsValid() bool {
	switch t {
	case RoomSingle, RoomTwoSharing, RoomThreeSharing, RoomFiveSharing:
		return true
	}
	return false
}

// Room はホステルに属する部屋タイプごとの在庫を表す
type Room struct {
	ID         string
	Type       RoomType
	TotalSeats int
	Occupied   int
	Price      int
}

// Vacancies は空席数を返す
func (r *Room) Vacancies() int {
	return r.TotalSeats - r.Occupied
}

// HasVacancy は空席があるかを返す
func (r *Room) HasVacancy() bool {
	return r.Occupied < r.TotalSeats
}

// Occupy は座席を1つ確保する
func (r *Room) Occupy() error {
	if !r.HasVacancy() {
		return ErrNoSeatsAvailable
	}
	r.Occupied++
	return nil
}

// Vacate は座席を1つ解放する
// 既に0の場合は何もせず false を返す（二重解放対策）
func (r *Room) Vacate() bool {
	if r.Occupied <= 0 {
		r.Occupied = 0
		return false
	}
	r.Occupied--
	return true
}

// Validate は部屋の検証を行う
func (r *Room) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidRoomType
	}
	if r.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	if r.Occupied < 0 || r.Occupied > r.TotalSeats {
		return ErrInvalidOccupancy
	}
	if r.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
