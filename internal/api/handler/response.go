package handler

import (
	"time"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

type RoomResponse struct {
	Type           string `json:"type" example:"three_sharing"`
	TotalSeats     int    `json:"total_seats" example:"3"`
	Occupied       int    `json:"occupied" example:"1"`
	AvailableSeats int    `json:"available_seats" example:"2"`
	Price          int    `json:"price" example:"25000"`
}

type HostelResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name" example:"さくらホステル"`
	Location       string         `json:"location" example:"京都"`
	Type           string         `json:"type" example:"boys_hostel"`
	Price          int            `json:"price" example:"30000"`
	Facilities     []string       `json:"facilities"`
	Images         []string       `json:"images"`
	OwnerID        string         `json:"owner_id"`
	Rooms          []RoomResponse `json:"rooms"`
	AvailableSeats int            `json:"available_seats" example:"5"`
	Rating         float64        `json:"rating" example:"4.5"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func toHostelResponse(h *hostel.Hostel) HostelResponse {
	rooms := make([]RoomResponse, len(h.Rooms))
	for i, r := range h.Rooms {
		rooms[i] = RoomResponse{
			Type: string(r.Type), TotalSeats: r.TotalSeats, Occupied: r.Occupied,
			AvailableSeats: r.Vacancies(), Price: r.Price,
		}
	}
	return HostelResponse{
		ID: h.ID, Name: h.Name, Location: h.Location, Type: string(h.Type),
		Price: h.Price, Facilities: nonNilStrings(h.Facilities), Images: nonNilStrings(h.Images),
		OwnerID: h.OwnerID, Rooms: rooms, AvailableSeats: h.AvailableSeats,
		Rating: h.Rating, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt,
	}
}

func toHostelResponses(hs []*hostel.Hostel) []HostelResponse {
	resp := make([]HostelResponse, len(hs))
	for i, h := range hs {
		resp[i] = toHostelResponse(h)
	}
	return resp
}

type BookingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	HostelID    string    `json:"hostel_id"`
	RoomType    string    `json:"room_type" example:"single"`
	CheckInDate time.Time `json:"check_in_date"`
	Price       int       `json:"price" example:"45000"`
	Status      string    `json:"status" example:"pending"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, UserID: b.UserID, HostelID: b.HostelID, RoomType: string(b.RoomType),
		CheckInDate: b.CheckInDate, Price: b.Price, Status: string(b.Status),
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

func toBookingResponses(bs []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bs))
	for i, b := range bs {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	HostelID  string    `json:"hostel_id"`
	Rating    int       `json:"rating" example:"5"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID: r.ID, UserID: r.UserID, HostelID: r.HostelID,
		Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt,
	}
}

// UserResponse はパスワードハッシュを含まない
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role" example:"student"`
	Phone          string    `json:"phone,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
	SavedHostelIDs []string  `json:"saved_hostel_ids"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role),
		Phone: u.Phone, JoinedAt: u.JoinedAt, SavedHostelIDs: nonNilStrings(u.SavedHostelIDs),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
