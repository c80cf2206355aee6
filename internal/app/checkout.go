package app

import (
	"context"
	"fmt"

	"tourix/internal/domain"
)

type CheckoutService struct {
	bookings domain.BookingRepository
	rooms    domain.RoomRepository
	checkout domain.CheckoutClient
	currency string
}

func NewCheckoutService(b domain.BookingRepository, r domain.RoomRepository, c domain.CheckoutClient, currency string) *CheckoutService {
	if currency == "" {
		currency = "usd"
	}
	return &CheckoutService{bookings: b, rooms: r, checkout: c, currency: currency}
}

// CreateSession starts a hosted checkout for the caller's booking and returns
// the redirect URL. Completion is reported by the provider out of band.
func (s *CheckoutService) CreateSession(ctx context.Context, bookingID, userID, origin string) (domain.CheckoutSession, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	if b.UserID != userID {
		return domain.CheckoutSession{}, fmt.Errorf("%w: booking belongs to another user", domain.ErrForbidden)
	}
	if b.Status != domain.BookingConfirmed {
		return domain.CheckoutSession{}, fmt.Errorf("%w: booking is cancelled", domain.ErrValidation)
	}

	rv, err := s.rooms.GetRoom(ctx, b.RoomID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	return s.checkout.CreateSession(ctx, domain.CheckoutParams{
		BookingID:   b.ID,
		Amount:      b.TotalPrice,
		Currency:    s.currency,
		ProductName: rv.HotelName,
		SuccessURL:  origin + "/loader/my-bookings",
		CancelURL:   origin + "/my-bookings",
	})
}
