package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	UpsertUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	SetRole(ctx context.Context, id string, role Role) error
	AddSearchedCity(ctx context.Context, id, city string) error
}

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) error
	GetHotelByOwner(ctx context.Context, ownerID string) (Hotel, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) error
	GetRoom(ctx context.Context, id string) (RoomView, error)
	ListRooms(ctx context.Context, q RoomsQuery) ([]RoomView, error)
	ListHotelRooms(ctx context.Context, hotelID string) ([]RoomView, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type BookingRepository interface {
	// CreateBooking persists b only if no confirmed booking overlaps
	// [b.CheckIn, b.CheckOut) on the same room; the check and the insert
	// run in one serializable transaction. Returns ErrConflict on overlap.
	CreateBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	// CountOverlapping counts confirmed bookings on the room whose interval
	// intersects [checkIn, checkOut). Read-only.
	CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error)
	// CancelBooking transitions a confirmed booking to cancelled.
	CancelBooking(ctx context.Context, id string) error
	ListUserBookings(ctx context.Context, userID string) ([]BookingView, error)
	ListHotelBookings(ctx context.Context, hotelID string) ([]BookingView, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CheckoutClient creates a hosted checkout session with the payment
// provider. Completion is reported out of band and is not part of the
// booking contract.
type CheckoutClient interface {
	CreateSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error)
}

type CheckoutParams struct {
	BookingID   string
	Amount      int64 // minor currency units
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// EventPublisher hands booking events to the notification pipeline.
// Publishing is best-effort from the caller's point of view: failures are
// logged and never change a booking outcome.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev BookingEvent) error
}
