package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockHostelRepository implements hostel.Repository
type MockHostelRepository struct {
	mock.Mock
}

func (m *MockHostelRepository) Create(ctx context.Context, tx transaction.Tx, h *hostel.Hostel) error {
	args := m.Called(ctx, tx, h)
	return args.Error(0)
}

func (m *MockHostelRepository) GetByID(ctx context.Context, id string) (*hostel.Hostel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostel.Hostel), args.Error(1)
}

func (m *MockHostelRepository) List(ctx context.Context, limit, offset int) ([]*hostel.Hostel, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hostel.Hostel), args.Error(1)
}

func (m *MockHostelRepository) ListByOwner(ctx context.Context, ownerID string) ([]*hostel.Hostel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hostel.Hostel), args.Error(1)
}

func (m *MockHostelRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHostelRepository) UpdateDetails(ctx context.Context, tx transaction.Tx, h *hostel.Hostel) error {
	args := m.Called(ctx, tx, h)
	return args.Error(0)
}

func (m *MockHostelRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *MockHostelRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHostelRepository) LockForUpdate(ctx context.Context, tx transaction.Tx, id string) (*hostel.Hostel, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostel.Hostel), args.Error(1)
}

func (m *MockHostelRepository) ReserveSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType hostel.RoomType) (int, error) {
	args := m.Called(ctx, tx, hostelID, roomType)
	return args.Int(0), args.Error(1)
}

func (m *MockHostelRepository) ReleaseSeat(ctx context.Context, tx transaction.Tx, hostelID string, roomType hostel.RoomType) (bool, error) {
	args := m.Called(ctx, tx, hostelID, roomType)
	return args.Bool(0), args.Error(1)
}

func (m *MockHostelRepository) SaveRooms(ctx context.Context, tx transaction.Tx, hostelID string, rooms []hostel.Room) error {
	args := m.Called(ctx, tx, hostelID, rooms)
	return args.Error(0)
}

func (m *MockHostelRepository) RecomputeAvailableSeats(ctx context.Context, tx transaction.Tx, hostelID string) (int, error) {
	args := m.Called(ctx, tx, hostelID)
	return args.Int(0), args.Error(1)
}

// MockBookingRepository implements booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByHostels(ctx context.Context, hostelIDs []string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, hostelIDs, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking, from booking.Status) error {
	args := m.Called(ctx, tx, b, from)
	return args.Error(0)
}

// MockReviewRepository implements review.Repository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByHostel(ctx context.Context, hostelID string) ([]*review.Review, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*review.Review), args.Error(1)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SaveHostel(ctx context.Context, userID, hostelID string) error {
	args := m.Called(ctx, userID, hostelID)
	return args.Error(0)
}

func (m *MockUserRepository) UnsaveHostel(ctx context.Context, userID, hostelID string) error {
	args := m.Called(ctx, userID, hostelID)
	return args.Error(0)
}

// MockHostelLocker implements HostelLocker
type MockHostelLocker struct {
	mock.Mock
}

func (m *MockHostelLocker) LockHostel(ctx context.Context, hostelID string) (func(context.Context) error, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

// MockAvailabilityCache implements AvailabilityCache
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) Get(ctx context.Context, hostelID string) (int, bool, error) {
	args := m.Called(ctx, hostelID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockAvailabilityCache) Generation(ctx context.Context, hostelID string) (int64, error) {
	args := m.Called(ctx, hostelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAvailabilityCache) SetIfGeneration(ctx context.Context, hostelID string, gen int64, seats int) (bool, error) {
	args := m.Called(ctx, hostelID, gen, seats)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, hostelID string) error {
	args := m.Called(ctx, hostelID)
	return args.Error(0)
}
