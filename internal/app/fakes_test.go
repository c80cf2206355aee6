package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tourix/internal/domain"
)

// ---- fakes ----

type fakeRooms struct {
	rooms     map[string]domain.RoomView
	listCalls int
}

func newFakeRooms(rvs ...domain.RoomView) *fakeRooms {
	f := &fakeRooms{rooms: map[string]domain.RoomView{}}
	for _, rv := range rvs {
		f.rooms[rv.ID] = rv
	}
	return f
}

func (f *fakeRooms) CreateRoom(ctx context.Context, r domain.Room) error {
	f.rooms[r.ID] = domain.RoomView{Room: r}
	return nil
}

func (f *fakeRooms) GetRoom(ctx context.Context, id string) (domain.RoomView, error) {
	rv, ok := f.rooms[id]
	if !ok {
		return domain.RoomView{}, domain.ErrNotFound
	}
	return rv, nil
}

func (f *fakeRooms) ListRooms(ctx context.Context, q domain.RoomsQuery) ([]domain.RoomView, error) {
	f.listCalls++
	var out []domain.RoomView
	for _, rv := range f.rooms {
		if !rv.Available {
			continue
		}
		if q.City != nil && rv.HotelCity != *q.City {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

func (f *fakeRooms) ListHotelRooms(ctx context.Context, hotelID string) ([]domain.RoomView, error) {
	var out []domain.RoomView
	for _, rv := range f.rooms {
		if rv.HotelID == hotelID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeRooms) SetAvailability(ctx context.Context, id string, available bool) error {
	rv, ok := f.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	rv.Available = available
	f.rooms[id] = rv
	return nil
}

// fakeBookings mirrors the repo contract, including the conflict check on
// insert and the status filter on listings.
type fakeBookings struct {
	byID map[string]*domain.Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{byID: map[string]*domain.Booking{}}
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b domain.Booking) error {
	for _, ex := range f.byID {
		if ex.RoomID == b.RoomID && ex.Status == domain.BookingConfirmed &&
			domain.Overlaps(ex.CheckIn, ex.CheckOut, b.CheckIn, b.CheckOut) {
			return domain.ErrConflict
		}
	}
	cp := b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *b, nil
}

func (f *fakeBookings) CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error) {
	n := 0
	for _, b := range f.byID {
		if b.RoomID == roomID && b.Status == domain.BookingConfirmed &&
			domain.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) CancelBooking(ctx context.Context, id string) error {
	b, ok := f.byID[id]
	if !ok || b.Status != domain.BookingConfirmed {
		return domain.ErrNotFound
	}
	b.Status = domain.BookingCancelled
	return nil
}

func (f *fakeBookings) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingView, error) {
	var out []domain.BookingView
	for _, b := range f.byID {
		if b.UserID == userID && b.Status == domain.BookingConfirmed {
			out = append(out, domain.BookingView{Booking: *b})
		}
	}
	return out, nil
}

func (f *fakeBookings) ListHotelBookings(ctx context.Context, hotelID string) ([]domain.BookingView, error) {
	var out []domain.BookingView
	for _, b := range f.byID {
		if b.HotelID == hotelID && b.Status == domain.BookingConfirmed {
			out = append(out, domain.BookingView{Booking: *b})
		}
	}
	return out, nil
}

type fakeHotels struct {
	byOwner map[string]domain.Hotel
}

func newFakeHotels(hs ...domain.Hotel) *fakeHotels {
	f := &fakeHotels{byOwner: map[string]domain.Hotel{}}
	for _, h := range hs {
		f.byOwner[h.OwnerID] = h
	}
	return f
}

func (f *fakeHotels) CreateHotel(ctx context.Context, h domain.Hotel) error {
	if _, ok := f.byOwner[h.OwnerID]; ok {
		return fmt.Errorf("duplicate owner %s", h.OwnerID)
	}
	f.byOwner[h.OwnerID] = h
	return nil
}

func (f *fakeHotels) GetHotelByOwner(ctx context.Context, ownerID string) (domain.Hotel, error) {
	h, ok := f.byOwner[ownerID]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

type fakeUsers struct {
	byID map[string]*domain.User
}

func newFakeUsers(us ...domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for _, u := range us {
		cp := u
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) UpsertUser(ctx context.Context, u domain.User) error {
	cp := u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return *u, nil
}

func (f *fakeUsers) SetRole(ctx context.Context, id string, role domain.Role) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) AddSearchedCity(ctx context.Context, id, city string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	cities := []string{city}
	for _, c := range u.RecentSearchedCities {
		if c != city {
			cities = append(cities, c)
		}
	}
	u.RecentSearchedCities = cities
	return nil
}

type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

type fakePublisher struct {
	events []domain.BookingEvent
	fail   bool
}

func (p *fakePublisher) PublishBookingEvent(ctx context.Context, ev domain.BookingEvent) error {
	if p.fail {
		return fmt.Errorf("broker unavailable")
	}
	p.events = append(p.events, ev)
	return nil
}

// ---- small helpers ----

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
