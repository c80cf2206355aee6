package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking occupies the half-open interval [CheckIn, CheckOut) on a room.
// Cancellation is a status transition, not a delete, so history survives.
type Booking struct {
	ID            string
	UserID        string
	RoomID        string
	HotelID       string
	Guests        int
	CheckIn       time.Time
	CheckOut      time.Time
	TotalPrice    int64
	PaymentMethod string
	Status        BookingStatus
	CreatedAt     time.Time
}

// BookingView denormalizes room and hotel data for listings.
type BookingView struct {
	Booking
	RoomType     RoomType
	HotelName    string
	HotelAddress string
}

// Dashboard is the owner's hotel booking summary.
type Dashboard struct {
	TotalBookings int
	TotalRevenue  int64
	Bookings      []BookingView
}

// Nights counts billable nights between check-in and check-out, rounding
// partial days up. A non-positive interval yields zero; callers validate
// ordering before pricing.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

// Overlaps reports whether the half-open intervals [aIn, aOut) and
// [bIn, bOut) intersect. Touching ranges (checkout == next check-in)
// do not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// BookingEvent is the notification payload published to the queue when a
// booking is created or cancelled. It carries enough for the notifier to
// render the email without querying the database.
type BookingEvent struct {
	Kind          string    `json:"kind"` // created|cancelled
	BookingID     string    `json:"booking_id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	HotelName     string    `json:"hotel_name"`
	HotelAddress  string    `json:"hotel_address"`
	RoomType      string    `json:"room_type"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalPrice    int64     `json:"total_price"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

const (
	EventBookingCreated   = "created"
	EventBookingCancelled = "cancelled"
)
