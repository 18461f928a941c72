package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/metrics"
)

// HostelLister は再計算対象のホステルIDを列挙する
type HostelLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// SeatReconciler は1ホステルの空席数を再計算する
type SeatReconciler interface {
	Reconcile(ctx context.Context, hostelID string) (seats int, drifted bool, err error)
}

// ReconcileReport は1回の再計算の結果
type ReconcileReport struct {
	Checked int
	Drifted int
	Skipped int
	Failed  int
}

// AvailabilityReconciler は available_seats を部屋ごとの在庫から定期的に再計算するワーカー
type AvailabilityReconciler struct {
	hostels     HostelLister
	ledger      SeatReconciler
	metrics     *metrics.Metrics
	interval    time.Duration
	concurrency int
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewAvailabilityReconciler は新しいワーカーを作成
func NewAvailabilityReconciler(
	hostels HostelLister,
	ledger SeatReconciler,
	m *metrics.Metrics,
	interval time.Duration,
	concurrency int,
) *AvailabilityReconciler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AvailabilityReconciler{
		hostels:     hostels,
		ledger:      ledger,
		metrics:     m,
		interval:    interval,
		concurrency: concurrency,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start はワーカーを開始
func (r *AvailabilityReconciler) Start(ctx context.Context) {
	logger.Info("空席数リコンサイラー開始",
		zap.Duration("interval", r.interval),
		zap.Int("concurrency", r.concurrency),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空席数リコンサイラー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("空席数リコンサイラー停止（シグナル受信）")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				logger.Error("空席数の再計算に失敗", zap.Error(err))
			}
		}
	}
}

// Stop はワーカーを停止
func (r *AvailabilityReconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// RunOnce は全ホステルの空席数を並行数を制限して再計算する
// 個別のホステルの失敗は集計だけして続行する
func (r *AvailabilityReconciler) RunOnce(ctx context.Context) (ReconcileReport, error) {
	log := logger.FromContext(ctx)

	ids, err := r.hostels.ListIDs(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	var drifted, skipped, failed int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			seats, d, err := r.ledger.Reconcile(gctx, id)
			switch {
			case errors.Is(err, hostel.ErrHostelBusy), errors.Is(err, hostel.ErrHostelNotFound):
				// 予約処理中または削除済み
				atomic.AddInt64(&skipped, 1)
			case err != nil:
				atomic.AddInt64(&failed, 1)
				log.Warn("ホステルの空席数の再計算に失敗", zap.String("hostel_id", id), zap.Error(err))
			case d:
				atomic.AddInt64(&drifted, 1)
				log.Warn("空席数のズレを修正", zap.String("hostel_id", id), zap.Int("available_seats", seats))
			}
			return nil
		})
	}
	_ = g.Wait()

	report := ReconcileReport{
		Checked: len(ids),
		Drifted: int(drifted),
		Skipped: int(skipped),
		Failed:  int(failed),
	}
	r.metrics.ObserveDrift(report.Drifted)

	if report.Drifted > 0 || report.Failed > 0 {
		log.Info("空席数の再計算完了",
			zap.Int("checked", report.Checked),
			zap.Int("drifted", report.Drifted),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
	} else {
		log.Debug("空席数のズレなし", zap.Int("checked", report.Checked))
	}
	return report, ctx.Err()
}
