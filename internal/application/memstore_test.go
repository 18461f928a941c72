package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
)

// memStore はシナリオテスト用のインメモリストア
// トランザクションは txMu で直列化し、ロールバック時は開始時点のスナップショットに戻す
type memStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex
	data   memData
	seq    int
}

type memData struct {
	hostels  map[string]*hostel.Hostel
	bookings map[string]*booking.Booking
}

func newMemStore() *memStore {
	return &memStore{data: memData{
		hostels:  map[string]*hostel.Hostel{},
		bookings: map[string]*booking.Booking{},
	}}
}

func (d memData) clone() memData {
	c := memData{
		hostels:  make(map[string]*hostel.Hostel, len(d.hostels)),
		bookings: make(map[string]*booking.Booking, len(d.bookings)),
	}
	for id, h := range d.hostels {
		c.hostels[id] = cloneHostel(h)
	}
	for id, b := range d.bookings {
		cp := *b
		c.bookings[id] = &cp
	}
	return c
}

func cloneHostel(h *hostel.Hostel) *hostel.Hostel {
	cp := *h
	cp.Rooms = append([]hostel.Room(nil), h.Rooms...)
	cp.Facilities = append([]string(nil), h.Facilities...)
	cp.Images = append([]string(nil), h.Images...)
	return &cp
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// === transaction.Manager ===

type memTx struct {
	s        *memStore
	snapshot memData
	done     bool
}

func (s *memStore) Begin(ctx context.Context) (transaction.Tx, error) {
	s.txMu.Lock()
	s.dataMu.Lock()
	snap := s.data.clone()
	s.dataMu.Unlock()
	return &memTx{s: s, snapshot: snap}, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.dataMu.Lock()
	t.s.data = t.snapshot
	t.s.dataMu.Unlock()
	t.s.txMu.Unlock()
	return nil
}

// === hostel.Repository ===

type memHostelRepo struct{ s *memStore }

func (r memHostelRepo) Create(ctx context.Context, tx transaction.Tx, h *hostel.Hostel) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if h.ID == "" {
		h.ID = r.s.nextID("hostel")
	}
	for i := range h.Rooms {
		if h.Rooms[i].ID == "" {
			h.Rooms[i].ID = r.s.nextID("room")
		}
	}
	h.Version = 1
	r.s.data.hostels[h.ID] = cloneHostel(h)
	return nil
}

func (r memHostelRepo) GetByID(ctx context.Context, id string) (*hostel.Hostel, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	h, ok := r.s.data.hostels[id]
	if !ok {
		return nil, hostel.ErrHostelNotFound
	}
	return cloneHostel(h), nil
}

func (r memHostelRepo) List(ctx context.Context, limit, offset int) ([]*hostel.Hostel, error) {
	ids, _ := r.ListIDs(ctx)
	var out []*hostel.Hostel
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		h, _ := r.GetByID(ctx, id)
		out = append(out, h)
	}
	return out, nil
}

func (r memHostelRepo) ListByOwner(ctx context.Context, ownerID string) ([]*hostel.Hostel, error) {
	ids, _ := r.ListIDs(ctx)
	out := []*hostel.Hostel{}
	for _, id := range ids {
		h, _ := r.GetByID(ctx, id)
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r memHostelRepo) ListIDs(ctx context.Context) ([]string, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	ids := make([]string, 0, len(r.s.data.hostels))
	for id := range r.s.data.hostels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r memHostelRepo) UpdateDetails(ctx context.Context, tx transaction.Tx, h *hostel.Hostel) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	cur, ok := r.s.data.hostels[h.ID]
	if !ok {
		return hostel.ErrHostelNotFound
	}
	if cur.Version != h.Version {
		return hostel.ErrOptimisticLockConflict
	}
	cur.Name, cur.Location, cur.Type, cur.Price = h.Name, h.Location, h.Type, h.Price
	cur.Facilities = append([]string(nil), h.Facilities...)
	cur.Images = append([]string(nil), h.Images...)
	cur.Version++
	h.Version = cur.Version
	return nil
}

func (r memHostelRepo) UpdateRating(ctx context.Context, id string, rating float64) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	h, ok := r.s.data.hostels[id]
	if !ok {
		return hostel.ErrHostelNotFound
	}
	h.Rating = rating
	return nil
}

func (r memHostelRepo) Delete(ctx context.Context, id string) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if _, ok := r.s.data.hostels[id]; !ok {
		return hostel.ErrHostelNotFound
	}
	delete(r.s.data.hostels, id)
	return nil
}

func (r memHostelRepo) LockForUpdate(ctx context.Context, tx transaction.Tx, id string) (*hostel.Hostel, error) {
	return r.GetByID(ctx, id)
}

func (r memHostelRepo) ReserveSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType hostel.RoomType) (int, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	h, ok := r.s.data.hostels[hostelID]
	if !ok {
		return 0, hostel.ErrHostelNotFound
	}
	room, err := h.RoomByType(roomType)
	if err != nil {
		return 0, err
	}
	if err := room.Occupy(); err != nil {
		return 0, err
	}
	return room.Price, nil
}

func (r memHostelRepo) ReleaseSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType hostel.RoomType) (bool, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	h, ok := r.s.data.hostels[hostelID]
	if !ok {
		return false, hostel.ErrHostelNotFound
	}
	room, err := h.RoomByType(roomType)
	if err != nil {
		return false, err
	}
	return room.Vacate(), nil
}

func (r memHostelRepo) SaveRooms(ctx context.Context, tx transaction.Tx, hostelID string, rooms []hostel.Room) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	h, ok := r.s.data.hostels[hostelID]
	if !ok {
		return hostel.ErrHostelNotFound
	}
	h.Rooms = append([]hostel.Room(nil), rooms...)
	for i := range h.Rooms {
		if h.Rooms[i].ID == "" {
			h.Rooms[i].ID = r.s.nextID("room")
		}
	}
	return nil
}

func (r memHostelRepo) RecomputeAvailableSeats(ctx context.Context, tx transaction.Tx, hostelID string) (int, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	h, ok := r.s.data.hostels[hostelID]
	if !ok {
		return 0, hostel.ErrHostelNotFound
	}
	h.AvailableSeats = h.SumAvailableSeats()
	return h.AvailableSeats, nil
}

// setAvailableSeats はズレを再現するためにキャッシュ値を直接書き換える
func (r memHostelRepo) setAvailableSeats(hostelID string, seats int) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.data.hostels[hostelID].AvailableSeats = seats
}

// === booking.Repository ===

type memBookingRepo struct{ s *memStore }

func (r memBookingRepo) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if b.ID == "" {
		b.ID = r.s.nextID("booking")
	}
	cp := *b
	r.s.data.bookings[b.ID] = &cp
	return nil
}

func (r memBookingRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	b, ok := r.s.data.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memBookingRepo) list(match func(*booking.Booking) bool, limit, offset int) []*booking.Booking {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	all := []*booking.Booking{}
	for _, b := range r.s.data.bookings {
		if match(b) {
			cp := *b
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []*booking.Booking{}
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (r memBookingRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.UserID == userID }, limit, offset), nil
}

func (r memBookingRepo) ListByHostels(ctx context.Context, hostelIDs []string, limit, offset int) ([]*booking.Booking, error) {
	set := make(map[string]bool, len(hostelIDs))
	for _, id := range hostelIDs {
		set[id] = true
	}
	return r.list(func(b *booking.Booking) bool { return set[b.HostelID] }, limit, offset), nil
}

func (r memBookingRepo) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking, from booking.Status) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	cur, ok := r.s.data.bookings[b.ID]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if cur.Status != from {
		return booking.ErrInvalidTransition
	}
	cur.Status = b.Status
	cur.UpdatedAt = b.UpdatedAt
	return nil
}

// failingBookingRepo は予約の保存に失敗するリポジトリ
type failingBookingRepo struct {
	memBookingRepo
	err error
}

func (r failingBookingRepo) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	return r.err
}

// === helpers ===

type scenarioEnv struct {
	store    *memStore
	hostels  memHostelRepo
	bookings memBookingRepo
	ledger   *InventoryLedger
	booking  *BookingService
	hostel   *HostelService
}

func newScenarioEnv() *scenarioEnv {
	s := newMemStore()
	hr := memHostelRepo{s: s}
	br := memBookingRepo{s: s}
	ledger := NewInventoryLedger(s, hr, nil, nil, nil)
	return &scenarioEnv{
		store:    s,
		hostels:  hr,
		bookings: br,
		ledger:   ledger,
		booking:  NewBookingService(ledger, br, hr, nil),
		hostel:   NewHostelService(s, hr, ledger),
	}
}

// seedHostel はオーナー owner-1 のホステルを作成する
func (e *scenarioEnv) seedHostel(rooms ...hostel.Room) *hostel.Hostel {
	h := hostel.NewHostel("owner-1", "さくらホステル", "京都", hostel.TypeGirls, 5000, nil, nil, rooms)
	_ = e.hostels.Create(context.Background(), nil, h)
	return h
}

func (e *scenarioEnv) room(hostelID string, t hostel.RoomType) hostel.Room {
	h, _ := e.hostels.GetByID(context.Background(), hostelID)
	r, _ := h.RoomByType(t)
	return *r
}
