package domain

import "time"

type RoomType string

const (
	RoomSingleBed   RoomType = "Single Bed"
	RoomDoubleBed   RoomType = "Double Bed"
	RoomLuxury      RoomType = "Luxury Room"
	RoomFamilySuite RoomType = "Family Suite"
)

// Capacity returns the maximum guest count for the room type.
// Unknown types fall back to 1.
func (t RoomType) Capacity() int {
	switch t {
	case RoomSingleBed:
		return 1
	case RoomDoubleBed, RoomLuxury:
		return 2
	case RoomFamilySuite:
		return 4
	default:
		return 1
	}
}

type Room struct {
	ID            string
	HotelID       string
	Type          RoomType
	PricePerNight int64 // minor currency units per night
	Amenities     []string
	Images        []string
	Available     bool
	CreatedAt     time.Time
}

// RoomView is the read model for room queries: the room plus the owning
// hotel denormalized.
type RoomView struct {
	Room
	HotelName    string
	HotelAddress string
	HotelCity    string
	HotelContact string
}

// RoomsQuery filters the public room search. Nil fields are not applied.
// CheckIn/CheckOut, when both set, exclude rooms with an overlapping
// confirmed booking.
type RoomsQuery struct {
	City     *string
	CheckIn  *time.Time
	CheckOut *time.Time
	Guests   *int
	Limit    int
}
