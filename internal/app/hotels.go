package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tourix/internal/domain"
)

type HotelService struct {
	hotels domain.HotelRepository
	users  domain.UserRepository
}

func NewHotelService(h domain.HotelRepository, u domain.UserRepository) *HotelService {
	return &HotelService{hotels: h, users: u}
}

type RegisterHotelInput struct {
	Name    string
	Address string
	Contact string
	City    string
}

// RegisterHotel creates the owner's hotel and promotes them to the
// hotel-owner role. One hotel per owner: a second registration returns the
// existing hotel with created=false instead of failing.
func (s *HotelService) RegisterHotel(ctx context.Context, ownerID string, in RegisterHotelInput) (domain.Hotel, bool, error) {
	existing, err := s.hotels.GetHotelByOwner(ctx, ownerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, false, err
	}

	h := domain.Hotel{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Address:   in.Address,
		Contact:   in.Contact,
		City:      in.City,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.hotels.CreateHotel(ctx, h); err != nil {
		return domain.Hotel{}, false, err
	}
	if err := s.users.SetRole(ctx, ownerID, domain.RoleHotelOwner); err != nil {
		return domain.Hotel{}, false, err
	}
	return h, true, nil
}
