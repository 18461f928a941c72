package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-hostel-booking/internal/api/middleware"
	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

// MockHostelService はHostelServiceInterfaceのモック
type MockHostelService struct {
	mock.Mock
}

func (m *MockHostelService) CreateHostel(ctx context.Context, input application.CreateHostelInput) (*hostel.Hostel, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostel.Hostel), args.Error(1)
}

func (m *MockHostelService) GetHostel(ctx context.Context, id string) (*hostel.Hostel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostel.Hostel), args.Error(1)
}

func (m *MockHostelService) ListHostels(ctx context.Context, limit, offset int) ([]*hostel.Hostel, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hostel.Hostel), args.Error(1)
}

func (m *MockHostelService) ListOwnerHostels(ctx context.Context, ownerID string) ([]*hostel.Hostel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hostel.Hostel), args.Error(1)
}

func (m *MockHostelService) UpdateHostel(ctx context.Context, ownerID, id string, input application.UpdateHostelInput) (*hostel.Hostel, error) {
	args := m.Called(ctx, ownerID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostel.Hostel), args.Error(1)
}

func (m *MockHostelService) DeleteHostel(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockHostelService) Reconcile(ctx context.Context, ownerID, id string) (int, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Int(0), args.Error(1)
}

// MockAvailabilityReader はAvailabilityReaderのモック
type MockAvailabilityReader struct {
	mock.Mock
}

func (m *MockAvailabilityReader) AvailableSeats(ctx context.Context, hostelID string) (int, error) {
	args := m.Called(ctx, hostelID)
	return args.Int(0), args.Error(1)
}

// MockBookingService はBookingServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, requesterID, bookingID string, to booking.Status) (*booking.Booking, error) {
	args := m.Called(ctx, requesterID, bookingID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) CancelByUser(ctx context.Context, userID, bookingID string) (*booking.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, requesterID, bookingID string) (*booking.Booking, error) {
	args := m.Called(ctx, requesterID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingService) ListOwnerBookings(ctx context.Context, ownerID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

// MockReviewService はReviewServiceInterfaceのモック
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, input application.CreateReviewInput) (*review.Review, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewService) ListHostelReviews(ctx context.Context, hostelID string) ([]*review.Review, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*review.Review), args.Error(1)
}

// MockUserService はUserServiceInterfaceのモック
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input application.RegisterInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, input application.UpdateProfileInput) (*user.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) SaveHostel(ctx context.Context, userID, hostelID string) (*user.User, error) {
	args := m.Called(ctx, userID, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) UnsaveHostel(ctx context.Context, userID, hostelID string) (*user.User, error) {
	args := m.Called(ctx, userID, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockTokenIssuer はTokenIssuerのモック
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID, role string) (string, time.Time, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// testRequest はハンドラーを直接呼び出すテスト用リクエスト
type testRequest struct {
	method string
	path   string
	body   string
	userID string
	role   string
	params map[string]string
}

// call はハンドラーを実行し、返されたエラーをエラーハンドラーでレスポンスに変換する
func call(e *echo.Echo, h echo.HandlerFunc, r testRequest) *httptest.ResponseRecorder {
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(r.params))
	values := make([]string, 0, len(r.params))
	for k, v := range r.params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if r.userID != "" {
		middleware.SetCurrentUser(c, r.userID, r.role)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}
