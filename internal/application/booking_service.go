package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/metrics"
)

const defaultBookingListLimit = 50

// BookingService は予約のライフサイクルを管理する
// 座席の確保と解放は InventoryLedger を通して予約の書き込みと同じトランザクションで行う
type BookingService struct {
	ledger      *InventoryLedger
	bookingRepo booking.Repository
	hostelRepo  hostel.Repository
	metrics     *metrics.Metrics
}

func NewBookingService(ledger *InventoryLedger, br booking.Repository, hr hostel.Repository, m *metrics.Metrics) *BookingService {
	return &BookingService{ledger: ledger, bookingRepo: br, hostelRepo: hr, metrics: m}
}

type CreateBookingInput struct {
	UserID      string
	HostelID    string
	RoomType    hostel.RoomType
	CheckInDate time.Time
}

// CreateBooking は座席を確保して pending の予約を作成する
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	b := booking.NewBooking(input.UserID, input.HostelID, input.RoomType, input.CheckInDate, 0)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	_, err := s.ledger.Reserve(ctx, input.HostelID, input.RoomType, func(tx transaction.Tx, res ReservationResult) error {
		b.Price = res.Price
		if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
			return fmt.Errorf("予約の保存に失敗: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(booking.StatusPending))
	logger.FromContext(ctx).Info("予約を作成しました",
		zap.String("booking_id", b.ID),
		zap.String("user_id", b.UserID),
		zap.String("hostel_id", b.HostelID),
	)
	return b, nil
}

// UpdateStatus はホステルのオーナーとして予約ステータスを変更する
func (s *BookingService) UpdateStatus(ctx context.Context, requesterID, bookingID string, to booking.Status) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	h, err := s.hostelRepo.GetByID(ctx, b.HostelID)
	if err != nil {
		return nil, err
	}
	if !h.IsOwnedBy(requesterID) {
		return nil, booking.ErrAccessDenied
	}
	return s.transition(ctx, b, to)
}

// CancelByUser は予約者本人として予約をキャンセルする
func (s *BookingService) CancelByUser(ctx context.Context, userID, bookingID string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, booking.ErrAccessDenied
	}
	return s.transition(ctx, b, booking.StatusCancelled)
}

// transition はステータスを書き込む
// cancelled への遷移では同じトランザクションで座席を解放する
func (s *BookingService) transition(ctx context.Context, b *booking.Booking, to booking.Status) (*booking.Booking, error) {
	from, err := b.TransitionTo(to)
	if err != nil {
		return nil, err
	}

	write := func(tx transaction.Tx) error {
		return s.bookingRepo.UpdateStatus(ctx, tx, b, from)
	}

	if to == booking.StatusCancelled {
		_, err = s.ledger.Release(ctx, b.HostelID, b.RoomType, func(tx transaction.Tx, _ ReleaseResult) error {
			return write(tx)
		})
	} else {
		err = transaction.Run(ctx, s.ledger.txManager, write)
	}
	if err != nil {
		b.Status = from
		return nil, err
	}

	s.metrics.ObserveTransition(string(to))
	logger.FromContext(ctx).Info("予約ステータスを変更しました",
		zap.String("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return b, nil
}

// GetBooking は予約者本人またはホステルのオーナーに予約を返す
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID == requesterID {
		return b, nil
	}
	h, err := s.hostelRepo.GetByID(ctx, b.HostelID)
	if err != nil {
		if errors.Is(err, hostel.ErrHostelNotFound) {
			return nil, booking.ErrAccessDenied
		}
		return nil, err
	}
	if !h.IsOwnedBy(requesterID) {
		return nil, booking.ErrAccessDenied
	}
	return b, nil
}

// ListUserBookings はユーザーの予約一覧を返す
func (s *BookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = defaultBookingListLimit
	}
	return s.bookingRepo.ListByUser(ctx, userID, limit, offset)
}

// ListOwnerBookings はオーナーの全ホステルの予約一覧を返す
func (s *BookingService) ListOwnerBookings(ctx context.Context, ownerID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = defaultBookingListLimit
	}
	hostels, err := s.hostelRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("オーナーのホステル取得に失敗: %w", err)
	}
	if len(hostels) == 0 {
		return []*booking.Booking{}, nil
	}
	ids := make([]string, 0, len(hostels))
	for _, h := range hostels {
		ids = append(ids, h.ID)
	}
	return s.bookingRepo.ListByHostels(ctx, ids, limit, offset)
}
