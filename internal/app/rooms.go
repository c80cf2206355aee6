package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tourix/internal/domain"
)

type RoomService struct {
	rooms    domain.RoomRepository
	hotels   domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewRoomService(r domain.RoomRepository, h domain.HotelRepository, c domain.Cache, ttl time.Duration) *RoomService {
	return &RoomService{rooms: r, hotels: h, cache: c, cacheTTL: ttl}
}

func roomsKey(q domain.RoomsQuery) string {
	city, in, out := "", "", ""
	guests := 0
	if q.City != nil {
		city = *q.City
	}
	if q.CheckIn != nil {
		in = q.CheckIn.Format("2006-01-02")
	}
	if q.CheckOut != nil {
		out = q.CheckOut.Format("2006-01-02")
	}
	if q.Guests != nil {
		guests = *q.Guests
	}
	return fmt.Sprintf("rooms:%s:%s:%s:%d", city, in, out, guests)
}

// SearchRooms lists available rooms for an optional city / stay / guest
// count. The repo excludes rooms with overlapping confirmed bookings; the
// guest filter is applied here against the room-type capacity table.
func (s *RoomService) SearchRooms(ctx context.Context, q domain.RoomsQuery) ([]domain.RoomView, error) {
	if (q.CheckIn == nil) != (q.CheckOut == nil) {
		return nil, fmt.Errorf("%w: check-in and check-out must be given together", domain.ErrValidation)
	}
	if q.CheckIn != nil && !q.CheckOut.After(*q.CheckIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}

	key := roomsKey(q)
	var out []domain.RoomView
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rooms, err := s.rooms.ListRooms(ctx, q)
	if err != nil {
		return nil, err
	}
	if q.Guests != nil {
		kept := rooms[:0]
		for _, rv := range rooms {
			if rv.Type.Capacity() >= *q.Guests {
				kept = append(kept, rv)
			}
		}
		rooms = kept
	}

	_ = s.cache.Set(ctx, key, rooms, int(s.cacheTTL.Seconds()))
	return rooms, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (domain.RoomView, error) {
	key := "room:" + id
	var rv domain.RoomView
	if ok, _ := s.cache.Get(ctx, key, &rv); ok {
		return rv, nil
	}
	rv, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.RoomView{}, err
	}
	_ = s.cache.Set(ctx, key, rv, int(s.cacheTTL.Seconds()))
	return rv, nil
}

type CreateRoomInput struct {
	Type          domain.RoomType
	PricePerNight int64
	Amenities     []string
	Images        []string
}

// CreateRoom adds a room under the owner's hotel. Owners without a
// registered hotel get ErrNotFound.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID string, in CreateRoomInput) (domain.Room, error) {
	h, err := s.hotels.GetHotelByOwner(ctx, ownerID)
	if err != nil {
		return domain.Room{}, err
	}
	if in.PricePerNight <= 0 {
		return domain.Room{}, fmt.Errorf("%w: price per night must be positive", domain.ErrValidation)
	}

	r := domain.Room{
		ID:            uuid.NewString(),
		HotelID:       h.ID,
		Type:          in.Type,
		PricePerNight: in.PricePerNight,
		Amenities:     in.Amenities,
		Images:        in.Images,
		Available:     true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.rooms.CreateRoom(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidateSearches(ctx, h.City)
	return r, nil
}

// ToggleAvailability flips the owner-controlled availability flag.
func (s *RoomService) ToggleAvailability(ctx context.Context, ownerID, roomID string) (bool, error) {
	h, err := s.hotels.GetHotelByOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	rv, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if rv.HotelID != h.ID {
		return false, fmt.Errorf("%w: room belongs to another hotel", domain.ErrForbidden)
	}

	next := !rv.Available
	if err := s.rooms.SetAvailability(ctx, roomID, next); err != nil {
		return false, err
	}
	_ = s.cache.Del(ctx, "room:"+roomID)
	s.invalidateSearches(ctx, h.City)
	return next, nil
}

func (s *RoomService) OwnerRooms(ctx context.Context, ownerID string) ([]domain.RoomView, error) {
	h, err := s.hotels.GetHotelByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.rooms.ListHotelRooms(ctx, h.ID)
}

func (s *RoomService) invalidateSearches(ctx context.Context, city string) {
	_ = s.cache.Del(ctx, roomsKey(domain.RoomsQuery{}))
	if city != "" {
		_ = s.cache.Del(ctx, roomsKey(domain.RoomsQuery{City: &city}))
	}
}
