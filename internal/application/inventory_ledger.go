package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/metrics"
)

// HostelLocker はホステル単位の排他を提供する
// 取得できない場合は hostel.ErrHostelBusy を返すこと
// 使うのは Reconcile だけで、座席の確保と解放は行ロックで直列化する
type HostelLocker interface {
	LockHostel(ctx context.Context, hostelID string) (unlock func(context.Context) error, err error)
}

// AvailabilityCache はホステルの空席数のキャッシュ
// 世代番号は Invalidate のたびに進む
type AvailabilityCache interface {
	Get(ctx context.Context, hostelID string) (seats int, ok bool, err error)
	Generation(ctx context.Context, hostelID string) (int64, error)
	// SetIfGeneration は世代が gen のままの場合だけ保存し、保存したかを返す
	SetIfGeneration(ctx context.Context, hostelID string, gen int64, seats int) (bool, error)
	Invalidate(ctx context.Context, hostelID string) error
}

// ReservationResult は座席確保の結果
type ReservationResult struct {
	HostelID       string
	RoomType       hostel.RoomType
	Price          int
	AvailableSeats int
}

// ReleaseResult は座席解放の結果
// Released が false の場合、既に使用中の座席が0だったため何もしていない
type ReleaseResult struct {
	HostelID       string
	RoomType       hostel.RoomType
	Released       bool
	AvailableSeats int
}

// InventoryLedger は座席在庫の台帳
// occupied と available_seats を更新するのはこの型だけ
type InventoryLedger struct {
	txManager  transaction.Manager
	hostelRepo hostel.Repository
	locker     HostelLocker
	cache      AvailabilityCache
	metrics    *metrics.Metrics
	fill       singleflight.Group
}

// NewInventoryLedger は InventoryLedger を作成する
// locker と cache は nil でもよい
func NewInventoryLedger(tm transaction.Manager, hr hostel.Repository, locker HostelLocker, cache AvailabilityCache, m *metrics.Metrics) *InventoryLedger {
	return &InventoryLedger{txManager: tm, hostelRepo: hr, locker: locker, cache: cache, metrics: m}
}

// ReserveSeat は指定部屋タイプの座席を1つ確保する
func (l *InventoryLedger) ReserveSeat(ctx context.Context, hostelID string, roomType hostel.RoomType) (ReservationResult, error) {
	return l.Reserve(ctx, hostelID, roomType, nil)
}

// Reserve は座席を1つ確保し、同じトランザクション内で persist を実行する
// persist がエラーを返すと座席の確保もロールバックされる
func (l *InventoryLedger) Reserve(ctx context.Context, hostelID string, roomType hostel.RoomType, persist func(tx transaction.Tx, res ReservationResult) error) (ReservationResult, error) {
	var res ReservationResult
	err := transaction.Run(ctx, l.txManager, func(tx transaction.Tx) error {
		h, err := l.hostelRepo.LockForUpdate(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		if _, err := h.RoomByType(roomType); err != nil {
			return err
		}
		price, err := l.hostelRepo.ReserveSeat(ctx, tx, hostelID, roomType)
		if err != nil {
			return err
		}
		seats, err := l.hostelRepo.RecomputeAvailableSeats(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		res = ReservationResult{HostelID: hostelID, RoomType: roomType, Price: price, AvailableSeats: seats}
		if persist != nil {
			return persist(tx, res)
		}
		return nil
	})
	if err != nil {
		l.metrics.ObserveReservation(reservationStatus(err))
		return ReservationResult{}, err
	}

	l.metrics.ObserveReservation("success")
	l.invalidate(ctx, hostelID)
	logger.FromContext(ctx).Info("座席を確保しました",
		zap.String("hostel_id", hostelID),
		zap.String("room_type", string(roomType)),
		zap.Int("available_seats", res.AvailableSeats),
	)
	return res, nil
}

// ReleaseSeat は指定部屋タイプの座席を1つ解放する
func (l *InventoryLedger) ReleaseSeat(ctx context.Context, hostelID string, roomType hostel.RoomType) (ReleaseResult, error) {
	return l.Release(ctx, hostelID, roomType, nil)
}

// Release は座席を1つ解放し、同じトランザクション内で persist を実行する
// 使用中の座席が0の場合は警告を出して解放せず、persist は実行する
func (l *InventoryLedger) Release(ctx context.Context, hostelID string, roomType hostel.RoomType, persist func(tx transaction.Tx, res ReleaseResult) error) (ReleaseResult, error) {
	var res ReleaseResult
	err := transaction.Run(ctx, l.txManager, func(tx transaction.Tx) error {
		h, err := l.hostelRepo.LockForUpdate(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		if _, err := h.RoomByType(roomType); err != nil {
			return err
		}
		released, err := l.hostelRepo.ReleaseSeat(ctx, tx, hostelID, roomType)
		if err != nil {
			return err
		}
		seats, err := l.hostelRepo.RecomputeAvailableSeats(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		res = ReleaseResult{HostelID: hostelID, RoomType: roomType, Released: released, AvailableSeats: seats}
		if persist != nil {
			return persist(tx, res)
		}
		return nil
	})
	if err != nil {
		l.metrics.ObserveRelease("error")
		return ReleaseResult{}, err
	}

	log := logger.FromContext(ctx).With(zap.String("hostel_id", hostelID), zap.String("room_type", string(roomType)))
	if !res.Released {
		l.metrics.ObserveRelease("noop")
		log.Warn("使用中の座席が0のため解放をスキップしました")
	} else {
		l.metrics.ObserveRelease("released")
		log.Info("座席を解放しました", zap.Int("available_seats", res.AvailableSeats))
	}
	l.invalidate(ctx, hostelID)
	return res, nil
}

// RecomputeAvailableSeats は部屋ごとの空席数の合計から available_seats を再計算する
func (l *InventoryLedger) RecomputeAvailableSeats(ctx context.Context, hostelID string) (int, error) {
	var seats int
	err := transaction.Run(ctx, l.txManager, func(tx transaction.Tx) error {
		var err error
		seats, err = l.RecomputeAvailableSeatsTx(ctx, tx, hostelID)
		return err
	})
	if err != nil {
		return 0, err
	}
	l.invalidate(ctx, hostelID)
	return seats, nil
}

// RecomputeAvailableSeatsTx は呼び出し側のトランザクション内で再計算する
func (l *InventoryLedger) RecomputeAvailableSeatsTx(ctx context.Context, tx transaction.Tx, hostelID string) (int, error) {
	if _, err := l.hostelRepo.LockForUpdate(ctx, tx, hostelID); err != nil {
		return 0, err
	}
	return l.hostelRepo.RecomputeAvailableSeats(ctx, tx, hostelID)
}

// Reconcile は再計算を行い、再計算前の値とズレていたかを返す
// 他のインスタンスが同じホステルを処理中なら hostel.ErrHostelBusy を返す
func (l *InventoryLedger) Reconcile(ctx context.Context, hostelID string) (seats int, drifted bool, err error) {
	unlock, err := l.lock(ctx, hostelID)
	if err != nil {
		return 0, false, err
	}
	defer unlock()

	err = transaction.Run(ctx, l.txManager, func(tx transaction.Tx) error {
		h, err := l.hostelRepo.LockForUpdate(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		before := h.AvailableSeats
		seats, err = l.hostelRepo.RecomputeAvailableSeats(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		drifted = before != seats
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if drifted {
		l.invalidate(ctx, hostelID)
	}
	return seats, drifted, nil
}

// ReconfigureRooms は部屋構成を置き換えて available_seats を再計算する
// 使用中の座席数は部屋タイプごとに引き継ぐ。apply は同じトランザクション内で実行される
func (l *InventoryLedger) ReconfigureRooms(ctx context.Context, hostelID string, rooms []hostel.Room, apply func(tx transaction.Tx, h *hostel.Hostel) error) (*hostel.Hostel, error) {
	var updated *hostel.Hostel
	err := transaction.Run(ctx, l.txManager, func(tx transaction.Tx) error {
		h, err := l.hostelRepo.LockForUpdate(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		if apply != nil {
			if err := apply(tx, h); err != nil {
				return err
			}
		}
		if rooms != nil {
			if err := h.ReplaceRooms(rooms); err != nil {
				return err
			}
			if err := l.hostelRepo.SaveRooms(ctx, tx, hostelID, h.Rooms); err != nil {
				return err
			}
		}
		seats, err := l.hostelRepo.RecomputeAvailableSeats(ctx, tx, hostelID)
		if err != nil {
			return err
		}
		h.AvailableSeats = seats
		updated = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx, hostelID)
	return updated, nil
}

// AvailableSeats はホステルの空席数を返す
// キャッシュがあればキャッシュから返し、なければDBから読み込んでキャッシュする
func (l *InventoryLedger) AvailableSeats(ctx context.Context, hostelID string) (int, error) {
	if l.cache != nil {
		seats, ok, err := l.cache.Get(ctx, hostelID)
		if err != nil {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		} else if ok {
			logger.Debug("キャッシュヒット", zap.String("hostel_id", hostelID), zap.Int("seats", seats))
			return seats, nil
		}
	}

	v, err, _ := l.fill.Do(hostelID, func() (interface{}, error) {
		// 読み込み中に無効化されたら古い値を保存しない
		var gen int64
		cacheable := l.cache != nil
		if cacheable {
			var err error
			if gen, err = l.cache.Generation(ctx, hostelID); err != nil {
				logger.Warn("キャッシュ世代取得エラー", zap.Error(err))
				cacheable = false
			}
		}
		h, err := l.hostelRepo.GetByID(ctx, hostelID)
		if err != nil {
			return 0, err
		}
		if cacheable {
			stored, err := l.cache.SetIfGeneration(ctx, hostelID, gen, h.AvailableSeats)
			switch {
			case err != nil:
				logger.Warn("キャッシュ保存エラー", zap.Error(err))
			case !stored:
				logger.Debug("キャッシュが無効化されたため保存しません", zap.String("hostel_id", hostelID))
			}
		}
		return h.AvailableSeats, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// lock はホステルのロックを取得し、解放関数を返す
func (l *InventoryLedger) lock(ctx context.Context, hostelID string) (func(), error) {
	if l.locker == nil {
		return func() {}, nil
	}
	start := time.Now()
	unlock, err := l.locker.LockHostel(ctx, hostelID)
	if err != nil {
		l.metrics.ObserveLock("acquire", "failed", time.Since(start).Seconds())
		if errors.Is(err, hostel.ErrHostelBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	l.metrics.ObserveLock("acquire", "success", time.Since(start).Seconds())

	return func() {
		start := time.Now()
		// 呼び出し元のキャンセルに関わらずロックは解放する
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			l.metrics.ObserveLock("release", "failed", time.Since(start).Seconds())
			logger.Warn("ロック解放エラー", zap.String("hostel_id", hostelID), zap.Error(err))
			return
		}
		l.metrics.ObserveLock("release", "success", time.Since(start).Seconds())
	}, nil
}

func (l *InventoryLedger) invalidate(ctx context.Context, hostelID string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, hostelID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.String("hostel_id", hostelID), zap.Error(err))
	}
}

// reservationStatus はメトリクス用のステータスラベルを返す
func reservationStatus(err error) string {
	switch {
	case errors.Is(err, hostel.ErrNoSeatsAvailable):
		return "no_seats"
	case errors.Is(err, hostel.ErrRoomTypeNotFound):
		return "room_not_found"
	case errors.Is(err, hostel.ErrHostelNotFound):
		return "hostel_not_found"
	default:
		return "error"
	}
}
