package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

// HostelServiceInterface はホステルサービスのインターフェース
type HostelServiceInterface interface {
	CreateHostel(ctx context.Context, input application.CreateHostelInput) (*hostel.Hostel, error)
	GetHostel(ctx context.Context, id string) (*hostel.Hostel, error)
	ListHostels(ctx context.Context, limit, offset int) ([]*hostel.Hostel, error)
	ListOwnerHostels(ctx context.Context, ownerID string) ([]*hostel.Hostel, error)
	UpdateHostel(ctx context.Context, ownerID, id string, input application.UpdateHostelInput) (*hostel.Hostel, error)
	DeleteHostel(ctx context.Context, ownerID, id string) error
	Reconcile(ctx context.Context, ownerID, id string) (int, error)
}

// AvailabilityReader は空席数の読み取り
type AvailabilityReader interface {
	AvailableSeats(ctx context.Context, hostelID string) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, requesterID, bookingID string, to booking.Status) (*booking.Booking, error)
	CancelByUser(ctx context.Context, userID, bookingID string) (*booking.Booking, error)
	GetBooking(ctx context.Context, requesterID, bookingID string) (*booking.Booking, error)
	ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
	ListOwnerBookings(ctx context.Context, ownerID string, limit, offset int) ([]*booking.Booking, error)
}

// ReviewServiceInterface はレビューサービスのインターフェース
type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, input application.CreateReviewInput) (*review.Review, error)
	ListHostelReviews(ctx context.Context, hostelID string) ([]*review.Review, error)
}

// UserServiceInterface はユーザーサービスのインターフェース
type UserServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetProfile(ctx context.Context, userID string) (*user.User, error)
	UpdateProfile(ctx context.Context, userID string, input application.UpdateProfileInput) (*user.User, error)
	SaveHostel(ctx context.Context, userID, hostelID string) (*user.User, error)
	UnsaveHostel(ctx context.Context, userID, hostelID string) (*user.User, error)
}

// TokenIssuer はアクセストークンを発行する
type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
}
