package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 座席確保の試行数（status: success, no_seats, room_not_found, hostel_not_found, lock_failed, error）
	ReservationsTotal *prometheus.CounterVec

	// 座席解放の試行数（status: released, noop, error）
	SeatReleasesTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 予約ステータス遷移の総数（to: pending, confirmed, cancelled）
	BookingTransitionsTotal *prometheus.CounterVec

	// 空席数の再計算で検出したズレ（ホステル数）
	AvailabilityDriftTotal prometheus.Counter
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_reservations_total",
				Help: "Total number of seat reservation attempts",
			},
			[]string{"status"},
		),
		SeatReleasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_releases_total",
				Help: "Total number of seat release attempts",
			},
			[]string{"status"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		BookingTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_transitions_total",
				Help: "Total number of booking status transitions",
			},
			[]string{"to"},
		),
		AvailabilityDriftTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "availability_drift_total",
				Help: "Number of hostels whose cached available seats had drifted when reconciled",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.SeatReleasesTotal,
		m.DistributedLockDuration,
		m.BookingTransitionsTotal,
		m.AvailabilityDriftTotal,
	)

	return m
}

// ObserveReservation は座席確保の結果を記録する（nil 安全）
func (m *Metrics) ObserveReservation(status string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(status).Inc()
}

// ObserveRelease は座席解放の結果を記録する（nil 安全）
func (m *Metrics) ObserveRelease(status string) {
	if m == nil {
		return
	}
	m.SeatReleasesTotal.WithLabelValues(status).Inc()
}

// ObserveLock は分散ロック操作の時間を記録する（nil 安全）
func (m *Metrics) ObserveLock(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
}

// ObserveTransition は予約ステータス遷移を記録する（nil 安全）
func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.BookingTransitionsTotal.WithLabelValues(to).Inc()
}

// ObserveDrift は再計算で検出したズレを記録する（nil 安全）
func (m *Metrics) ObserveDrift(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AvailabilityDriftTotal.Add(float64(n))
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
