package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tourix/internal/app"
	"tourix/internal/domain"
)

type bookingDTO struct {
	ID            string   `json:"id"`
	Room          string   `json:"room"`
	Hotel         hotelDTO `json:"hotel"`
	RoomType      string   `json:"roomType"`
	Guests        int      `json:"guests"`
	CheckInDate   string   `json:"checkInDate"`
	CheckOutDate  string   `json:"checkOutDate"`
	TotalPrice    int64    `json:"totalPrice"`
	PaymentMethod string   `json:"paymentMethod"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"createdAt"`
}

func toBookingDTO(bv domain.BookingView) bookingDTO {
	return bookingDTO{
		ID:            bv.ID,
		Room:          bv.RoomID,
		Hotel:         hotelDTO{ID: bv.HotelID, Name: bv.HotelName, Address: bv.HotelAddress},
		RoomType:      string(bv.RoomType),
		Guests:        bv.Guests,
		CheckInDate:   bv.CheckIn.UTC().Format(dateLayout),
		CheckOutDate:  bv.CheckOut.UTC().Format(dateLayout),
		TotalPrice:    bv.TotalPrice,
		PaymentMethod: bv.PaymentMethod,
		Status:        string(bv.Status),
		CreatedAt:     bv.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookingDTOs(bvs []domain.BookingView) []bookingDTO {
	out := make([]bookingDTO, 0, len(bvs))
	for _, bv := range bvs {
		out = append(out, toBookingDTO(bv))
	}
	return out
}

type createBookingRequest struct {
	Room          string `json:"room" validate:"required"`
	CheckInDate   string `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate  string `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	Guests        int    `json:"guests" validate:"required,gte=1"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=32"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req createBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// layouts already validated by the datetime tag
	checkIn, _ := parseDate(req.CheckInDate)
	checkOut, _ := parseDate(req.CheckOutDate)

	b, err := h.Bookings.CreateBooking(r.Context(), id.UserID, app.CreateBookingInput{
		RoomID:        req.Room,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        req.Guests,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         b.ID,
		"totalPrice": b.TotalPrice,
		"message":    "Booking created successfully",
	})
}

func (h *Handlers) userBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	bs, err := h.Bookings.UserBookings(r.Context(), id.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": toBookingDTOs(bs)})
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.Bookings.CancelBooking(r.Context(), chi.URLParam(r, "id"), id.UserID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Booking cancelled successfully"})
}

func (h *Handlers) hotelDashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	d, err := h.Bookings.HotelDashboard(r.Context(), id.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dashboardData": map[string]any{
			"totalBookings": d.TotalBookings,
			"totalRevenue":  d.TotalRevenue,
			"bookings":      toBookingDTOs(d.Bookings),
		},
	})
}

// ---- hotels ----

type registerHotelRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"required,max=512"`
	Contact string `json:"contact" validate:"required,max=64"`
	City    string `json:"city" validate:"required,max=128"`
}

func (h *Handlers) registerHotel(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req registerHotelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hotel, created, err := h.Hotels.RegisterHotel(r.Context(), id.UserID, app.RegisterHotelInput{
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
		City:    req.City,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	msg := "Hotel Registered"
	status := http.StatusCreated
	if !created {
		msg = "Hotel Already Registered"
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{"id": hotel.ID, "message": msg})
}

// ---- users ----

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	u, err := h.Users.Me(r.Context(), id.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                   u.ID,
		"username":             u.Username,
		"email":                u.Email,
		"image":                u.Image,
		"role":                 string(u.Role),
		"recentSearchedCities": u.RecentSearchedCities,
	})
}

type searchedCityRequest struct {
	City string `json:"recentSearchedCity" validate:"required,max=128"`
}

func (h *Handlers) searchedCity(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req searchedCityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Users.RecordSearchedCity(r.Context(), id.UserID, req.City); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "City added"})
}

// ---- checkout ----

func (h *Handlers) checkout(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	origin := r.Header.Get("Origin")
	if origin == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "Origin header is required")
		return
	}

	sess, err := h.Checkout.CreateSession(r.Context(), chi.URLParam(r, "id"), id.UserID, origin)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": sess.URL})
}
