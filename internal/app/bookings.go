package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tourix/internal/adapters/observability"
	"tourix/internal/domain"
)

type BookingService struct {
	bookings domain.BookingRepository
	rooms    domain.RoomRepository
	hotels   domain.HotelRepository
	users    domain.UserRepository
	cache    domain.Cache
	events   domain.EventPublisher
}

func NewBookingService(
	b domain.BookingRepository,
	r domain.RoomRepository,
	h domain.HotelRepository,
	u domain.UserRepository,
	cache domain.Cache,
	events domain.EventPublisher,
) *BookingService {
	return &BookingService{bookings: b, rooms: r, hotels: h, users: u, cache: cache, events: events}
}

// IsAvailable reports whether the room has no confirmed booking overlapping
// [checkIn, checkOut). Half-open: a stay ending on the day another starts
// does not block it. Read-only; callers validate date ordering.
func (s *BookingService) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	n, err := s.bookings.CountOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

type CreateBookingInput struct {
	RoomID        string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	PaymentMethod string
}

func (s *BookingService) CreateBooking(ctx context.Context, userID string, in CreateBookingInput) (domain.Booking, error) {
	if !in.CheckOut.After(in.CheckIn) {
		observability.ObserveBooking("create", "invalid")
		return domain.Booking{}, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}

	rv, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.Booking{}, err
	}
	if capacity := rv.Type.Capacity(); in.Guests < 1 || in.Guests > capacity {
		observability.ObserveBooking("create", "invalid")
		return domain.Booking{}, fmt.Errorf("%w: %q sleeps at most %d guests", domain.ErrValidation, rv.Type, capacity)
	}

	// Nights round up; ordering was validated so this is always >= 1.
	nights := domain.Nights(in.CheckIn, in.CheckOut)
	pay := in.PaymentMethod
	if pay == "" {
		pay = "Pay At Hotel"
	}

	b := domain.Booking{
		ID:            uuid.NewString(),
		UserID:        userID,
		RoomID:        rv.ID,
		HotelID:       rv.HotelID,
		Guests:        in.Guests,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		TotalPrice:    rv.PricePerNight * int64(nights),
		PaymentMethod: pay,
		Status:        domain.BookingConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	// The repo re-checks availability inside a serializable transaction;
	// an overlap found there surfaces as ErrConflict.
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		if err == domain.ErrConflict {
			observability.ObserveBooking("create", "conflict")
		} else {
			observability.ObserveBooking("create", "error")
		}
		return domain.Booking{}, err
	}
	observability.ObserveBooking("create", "ok")

	s.invalidateRoomSearches(ctx, rv.HotelCity)
	s.publishEvent(ctx, domain.EventBookingCreated, b, rv)
	return b, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) error {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		observability.ObserveBooking("cancel", "denied")
		return fmt.Errorf("%w: booking belongs to another user", domain.ErrForbidden)
	}

	if err := s.bookings.CancelBooking(ctx, bookingID); err != nil {
		observability.ObserveBooking("cancel", "error")
		return err
	}
	observability.ObserveBooking("cancel", "ok")

	// Room/hotel snapshot for the email is best-effort; the cancellation
	// already committed.
	rv, err := s.rooms.GetRoom(ctx, b.RoomID)
	if err != nil {
		log.Warn().Err(err).Str("room", b.RoomID).Msg("room lookup for cancellation notice failed")
		rv = domain.RoomView{}
	}
	s.invalidateRoomSearches(ctx, rv.HotelCity)
	s.publishEvent(ctx, domain.EventBookingCancelled, b, rv)
	return nil
}

func (s *BookingService) UserBookings(ctx context.Context, userID string) ([]domain.BookingView, error) {
	return s.bookings.ListUserBookings(ctx, userID)
}

// HotelDashboard returns the owner's bookings with total count and revenue.
func (s *BookingService) HotelDashboard(ctx context.Context, ownerID string) (domain.Dashboard, error) {
	h, err := s.hotels.GetHotelByOwner(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	bs, err := s.bookings.ListHotelBookings(ctx, h.ID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	d := domain.Dashboard{TotalBookings: len(bs), Bookings: bs}
	for _, b := range bs {
		d.TotalRevenue += b.TotalPrice
	}
	return d, nil
}

// publishEvent hands the booking to the notification queue. Failures are
// logged only: email delivery never changes a booking outcome.
func (s *BookingService) publishEvent(ctx context.Context, kind string, b domain.Booking, rv domain.RoomView) {
	if s.events == nil {
		return
	}
	u, err := s.users.GetUser(ctx, b.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user", b.UserID).Msg("user lookup for booking event failed")
		return
	}
	ev := domain.BookingEvent{
		Kind:          kind,
		BookingID:     b.ID,
		Email:         u.Email,
		Username:      u.Username,
		HotelName:     rv.HotelName,
		HotelAddress:  rv.HotelAddress,
		RoomType:      string(rv.Type),
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: b.PaymentMethod,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
		log.Warn().Err(err).Str("booking", b.ID).Str("kind", kind).Msg("booking event publish failed")
	}
}

// invalidateRoomSearches drops the most common search cache variants for the
// city; date-filtered variants age out on TTL.
func (s *BookingService) invalidateRoomSearches(ctx context.Context, city string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, roomsKey(domain.RoomsQuery{}))
	if city != "" {
		_ = s.cache.Del(ctx, roomsKey(domain.RoomsQuery{City: &city}))
	}
}
