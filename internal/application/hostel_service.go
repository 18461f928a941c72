package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
)

const defaultHostelListLimit = 20

type HostelService struct {
	txManager  transaction.Manager
	hostelRepo hostel.Repository
	ledger     *InventoryLedger
}

func NewHostelService(tm transaction.Manager, hr hostel.Repository, ledger *InventoryLedger) *HostelService {
	return &HostelService{txManager: tm, hostelRepo: hr, ledger: ledger}
}

type CreateHostelInput struct {
	OwnerID    string
	Name       string
	Location   string
	Type       hostel.Type
	Price      int
	Facilities []string
	Images     []string
	Rooms      []hostel.Room
}

func (s *HostelService) CreateHostel(ctx context.Context, input CreateHostelInput) (*hostel.Hostel, error) {
	rooms := make([]hostel.Room, len(input.Rooms))
	for i, r := range input.Rooms {
		r.ID = ""
		r.Occupied = 0
		rooms[i] = r
	}
	h := hostel.NewHostel(input.OwnerID, input.Name, input.Location, input.Type, input.Price, input.Facilities, input.Images, rooms)
	if err := h.Validate(); err != nil {
		return nil, err
	}

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.hostelRepo.Create(ctx, tx, h); err != nil {
			return fmt.Errorf("ホステルの作成に失敗: %w", err)
		}
		seats, err := s.ledger.RecomputeAvailableSeatsTx(ctx, tx, h.ID)
		if err != nil {
			return err
		}
		h.AvailableSeats = seats
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("ホステルを作成しました", zap.String("hostel_id", h.ID), zap.String("owner_id", h.OwnerID))
	return h, nil
}

func (s *HostelService) GetHostel(ctx context.Context, id string) (*hostel.Hostel, error) {
	return s.hostelRepo.GetByID(ctx, id)
}

func (s *HostelService) ListHostels(ctx context.Context, limit, offset int) ([]*hostel.Hostel, error) {
	if limit <= 0 {
		limit = defaultHostelListLimit
	}
	return s.hostelRepo.List(ctx, limit, offset)
}

func (s *HostelService) ListOwnerHostels(ctx context.Context, ownerID string) ([]*hostel.Hostel, error) {
	return s.hostelRepo.ListByOwner(ctx, ownerID)
}

// UpdateHostelInput は部分更新の入力。nil のフィールドは変更しない
// Rooms を指定した場合は部屋構成全体を置き換え、Images は既存に追加する
type UpdateHostelInput struct {
	Name       *string
	Location   *string
	Type       *hostel.Type
	Price      *int
	Facilities []string
	Images     []string
	Rooms      []hostel.Room
}

// UpdateHostel はオーナーとしてホステルを更新する
func (s *HostelService) UpdateHostel(ctx context.Context, ownerID, id string, input UpdateHostelInput) (*hostel.Hostel, error) {
	h, err := s.ledger.ReconfigureRooms(ctx, id, input.Rooms, func(tx transaction.Tx, h *hostel.Hostel) error {
		if !h.IsOwnedBy(ownerID) {
			return hostel.ErrAccessDenied
		}
		applyHostelUpdate(h, input)
		if err := h.Validate(); err != nil {
			return err
		}
		return s.hostelRepo.UpdateDetails(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("ホステルを更新しました", zap.String("hostel_id", id), zap.Int("available_seats", h.AvailableSeats))
	return h, nil
}

func applyHostelUpdate(h *hostel.Hostel, input UpdateHostelInput) {
	if input.Name != nil {
		h.Name = *input.Name
	}
	if input.Location != nil {
		h.Location = *input.Location
	}
	if input.Type != nil {
		h.Type = *input.Type
	}
	if input.Price != nil {
		h.Price = *input.Price
	}
	if input.Facilities != nil {
		h.Facilities = input.Facilities
	}
	if len(input.Images) > 0 {
		h.Images = append(h.Images, input.Images...)
	}
}

// DeleteHostel はオーナーとしてホステルを削除する
func (s *HostelService) DeleteHostel(ctx context.Context, ownerID, id string) error {
	h, err := s.hostelRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !h.IsOwnedBy(ownerID) {
		return hostel.ErrAccessDenied
	}
	if err := s.hostelRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("ホステルを削除しました", zap.String("hostel_id", id))
	return nil
}

// Reconcile はオーナーとして空席数を再計算する
func (s *HostelService) Reconcile(ctx context.Context, ownerID, id string) (int, error) {
	h, err := s.hostelRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !h.IsOwnedBy(ownerID) {
		return 0, hostel.ErrAccessDenied
	}
	return s.ledger.RecomputeAvailableSeats(ctx, id)
}
