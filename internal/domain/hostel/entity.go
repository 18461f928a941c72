package hostel

import (
	"strings"
	"time"
)

// Type はホステル種別を表す
type Type string

const (
	TypeBoys  Type = "boys_hostel"
	TypeGirls Type = "girls_hostel"
)

// ParseType は外部入力を Type に変換する
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boys_hostel", "boys hostel":
		return TypeBoys, nil
	case "girls_hostel", "girls hostel":
		return TypeGirls, nil
	}
	return "", ErrInvalidHostelType
}

// Hostel はホステルエンティティを表す
// AvailableSeats は Rooms から導出されるキャッシュで、座席台帳だけが更新する
type Hostel struct {
	ID             string
	Name           string
	Location       string
	Type           Type
	Price          int
	Facilities     []string
	Images         []string
	OwnerID        string
	Rooms          []Room
	AvailableSeats int
	Rating         float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int // 楽観的ロック用
}

// NewHostel は新しいホステルを作成する
func NewHostel(ownerID, name, location string, hostelType Type, price int, facilities, images []string, rooms []Room) *Hostel {
	now := time.Now()
	h := &Hostel{
		Name:       name,
		Location:   location,
		Type:       hostelType,
		Price:      price,
		Facilities: facilities,
		Images:     images,
		OwnerID:    ownerID,
		Rooms:      rooms,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	h.AvailableSeats = h.SumAvailableSeats()
	return h
}

// IsOwnedBy は指定ユーザーがオーナーかを返す
func (h *Hostel) IsOwnedBy(userID string) bool {
	return userID != "" && h.OwnerID == userID
}

// RoomByType は部屋タイプに対応する部屋を返す
func (h *Hostel) RoomByType(t RoomType) (*Room, error) {
	for i := range h.Rooms {
		if h.Rooms[i].Type == t {
			return &h.Rooms[i], nil
		}
	}
	return nil, ErrRoomTypeNotFound
}

// SumAvailableSeats は部屋ごとの空席数の合計を返す
func (h *Hostel) SumAvailableSeats() int {
	sum := 0
	for i := range h.Rooms {
		sum += h.Rooms[i].Vacancies()
	}
	return sum
}

// IsConsistent は AvailableSeats が部屋の合計と一致しているかを返す
func (h *Hostel) IsConsistent() bool {
	return h.AvailableSeats == h.SumAvailableSeats()
}

// ReplaceRooms は部屋構成を置き換える
// 使用中の座席数は部屋タイプごとに引き継ぎ、座席数の縮小や使用中の部屋の削除は拒否する
func (h *Hostel) ReplaceRooms(rooms []Room) error {
	current := make(map[RoomType]Room, len(h.Rooms))
	for _, r := range h.Rooms {
		current[r.Type] = r
	}

	next := make([]Room, 0, len(rooms))
	seen := make(map[RoomType]bool, len(rooms))
	for _, r := range rooms {
		if seen[r.Type] {
			return ErrDuplicateRoomType
		}
		seen[r.Type] = true

		r.Occupied = 0
		if cur, ok := current[r.Type]; ok {
			r.ID = cur.ID
			r.Occupied = cur.Occupied
			if r.TotalSeats < cur.Occupied {
				return ErrCapacityBelowOccupancy
			}
		}
		if err := r.Validate(); err != nil {
			return err
		}
		next = append(next, r)
	}

	for t, cur := range current {
		if !seen[t] && cur.Occupied > 0 {
			return ErrRoomInUse
		}
	}

	h.Rooms = next
	h.AvailableSeats = h.SumAvailableSeats()
	h.UpdatedAt = time.Now()
	return nil
}

// Validate はホステルの検証を行う
func (h *Hostel) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(h.Location) == "" {
		return ErrLocationRequired
	}
	if h.OwnerID == "" {
		return ErrOwnerRequired
	}
	if h.Type != TypeBoys && h.Type != TypeGirls {
		return ErrInvalidHostelType
	}
	if h.Price < 0 {
		return ErrInvalidPrice
	}
	seen := make(map[RoomType]bool, len(h.Rooms))
	for i := range h.Rooms {
		if err := h.Rooms[i].Validate(); err != nil {
			return err
		}
		if seen[h.Rooms[i].Type] {
			return ErrDuplicateRoomType
		}
		seen[h.Rooms[i].Type] = true
	}
	return nil
}
