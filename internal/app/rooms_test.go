package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourix/internal/app"
	"tourix/internal/domain"
)

func newRoomService(rooms *fakeRooms, hotels *fakeHotels, cache *fakeCache) *app.RoomService {
	return app.NewRoomService(rooms, hotels, cache, 5*time.Minute)
}

func TestSearchRooms_CachesResults(t *testing.T) {
	rooms := newFakeRooms(
		testRoom("r1", domain.RoomDoubleBed, 10000),
		testRoom("r2", domain.RoomSingleBed, 6000),
	)
	cache := &fakeCache{}
	svc := newRoomService(rooms, newFakeHotels(), cache)

	city := "Dubai"
	q := domain.RoomsQuery{City: &city}

	first, err := svc.SearchRooms(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d rooms, want 2", len(first))
	}
	if rooms.listCalls != 1 {
		t.Fatalf("repo hit %d times, want 1", rooms.listCalls)
	}

	second, err := svc.SearchRooms(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchRooms (cached): %v", err)
	}
	if rooms.listCalls != 1 {
		t.Fatalf("repo hit %d times after cached search, want 1", rooms.listCalls)
	}
	if len(second) != len(first) {
		t.Fatalf("cached result size %d, want %d", len(second), len(first))
	}
}

func TestSearchRooms_FiltersByGuestCapacity(t *testing.T) {
	rooms := newFakeRooms(
		testRoom("single", domain.RoomSingleBed, 6000),
		testRoom("double", domain.RoomDoubleBed, 10000),
		testRoom("suite", domain.RoomFamilySuite, 25000),
	)
	svc := newRoomService(rooms, newFakeHotels(), &fakeCache{})

	out, err := svc.SearchRooms(context.Background(), domain.RoomsQuery{Guests: ptr(3)})
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	if len(out) != 1 || out[0].ID != "suite" {
		t.Fatalf("guests=3 should keep only the suite, got %+v", out)
	}
}

func TestSearchRooms_DateValidation(t *testing.T) {
	svc := newRoomService(newFakeRooms(), newFakeHotels(), &fakeCache{})

	in := day("2024-01-10")
	if _, err := svc.SearchRooms(context.Background(), domain.RoomsQuery{CheckIn: &in}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("lone check-in: err = %v, want ErrValidation", err)
	}

	out := day("2024-01-10")
	if _, err := svc.SearchRooms(context.Background(), domain.RoomsQuery{CheckIn: &in, CheckOut: &out}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("zero-length stay: err = %v, want ErrValidation", err)
	}
}

func TestCreateRoom_RequiresHotel(t *testing.T) {
	svc := newRoomService(newFakeRooms(), newFakeHotels(), &fakeCache{})

	_, err := svc.CreateRoom(context.Background(), "owner-1", app.CreateRoomInput{
		Type: domain.RoomDoubleBed, PricePerNight: 10000,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for owner without a hotel", err)
	}
}

func TestCreateRoom_RejectsNonPositivePrice(t *testing.T) {
	hotels := newFakeHotels(domain.Hotel{ID: "h1", OwnerID: "owner-1", City: "Dubai"})
	svc := newRoomService(newFakeRooms(), hotels, &fakeCache{})

	_, err := svc.CreateRoom(context.Background(), "owner-1", app.CreateRoomInput{
		Type: domain.RoomDoubleBed, PricePerNight: 0,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreateRoom_StartsAvailable(t *testing.T) {
	rooms := newFakeRooms()
	hotels := newFakeHotels(domain.Hotel{ID: "h1", OwnerID: "owner-1", City: "Dubai"})
	svc := newRoomService(rooms, hotels, &fakeCache{})

	r, err := svc.CreateRoom(context.Background(), "owner-1", app.CreateRoomInput{
		Type:          domain.RoomFamilySuite,
		PricePerNight: 25000,
		Amenities:     []string{"wifi", "minibar"},
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if !r.Available {
		t.Fatalf("new room should be available")
	}
	if r.HotelID != "h1" {
		t.Fatalf("room attached to %q, want h1", r.HotelID)
	}
	if _, err := rooms.GetRoom(context.Background(), r.ID); err != nil {
		t.Fatalf("room not persisted: %v", err)
	}
}

func TestToggleAvailability_OwnHotelOnly(t *testing.T) {
	rv := testRoom("r1", domain.RoomDoubleBed, 10000)
	rooms := newFakeRooms(rv)
	hotels := newFakeHotels(
		domain.Hotel{ID: "h1", OwnerID: "owner-1", City: "Dubai"},
		domain.Hotel{ID: "h2", OwnerID: "owner-2", City: "Amman"},
	)
	svc := newRoomService(rooms, hotels, &fakeCache{})

	if _, err := svc.ToggleAvailability(context.Background(), "owner-2", "r1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden for another owner's room", err)
	}

	next, err := svc.ToggleAvailability(context.Background(), "owner-1", "r1")
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if next {
		t.Fatalf("toggle of an available room should return false")
	}
	got, _ := rooms.GetRoom(context.Background(), "r1")
	if got.Available {
		t.Fatalf("availability flag not persisted")
	}
}
