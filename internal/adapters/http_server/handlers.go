package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"tourix/internal/app"
	"tourix/internal/domain"
)

type Handlers struct {
	Rooms    *app.RoomService
	Bookings *app.BookingService
	Hotels   *app.HotelService
	Users    *app.UserService
	Checkout *app.CheckoutService
}

var validate = validator.New()

func (s *Server) MountHandlers(h *Handlers, jwtSecret string) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// public
	s.mux.Get("/v1/rooms", h.searchRooms)
	s.mux.Get("/v1/rooms/{id}", h.getRoom)
	s.mux.Get("/v1/rooms/{id}/availability", h.roomAvailability)

	// authenticated
	s.mux.Group(func(r chi.Router) {
		r.Use(Auth(jwtSecret))

		r.Post("/v1/bookings", h.createBooking)
		r.Get("/v1/bookings", h.userBookings)
		r.Delete("/v1/bookings/{id}", h.cancelBooking)
		r.Post("/v1/bookings/{id}/checkout", h.checkout)

		r.Post("/v1/hotels", h.registerHotel)
		r.Get("/v1/users/me", h.me)
		r.Post("/v1/users/searched-cities", h.searchedCity)

		// owner-only
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleHotelOwner))
			r.Post("/v1/rooms", h.createRoom)
			r.Get("/v1/rooms/owner", h.ownerRooms)
			r.Post("/v1/rooms/{id}/toggle-availability", h.toggleRoom)
			r.Get("/v1/hotels/bookings", h.hotelDashboard)
		})
	})
}

// ---- problem+json and error taxonomy ----

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps domain errors onto the HTTP taxonomy: validation 400,
// forbidden 403, not-found 404, conflict 409, anything else 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- date handling ----

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// ---- room DTOs ----

type hotelDTO struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type roomDTO struct {
	ID            string   `json:"id"`
	Hotel         hotelDTO `json:"hotel"`
	RoomType      string   `json:"roomType"`
	PricePerNight int64    `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	IsAvailable   bool     `json:"isAvailable"`
	CreatedAt     string   `json:"createdAt"`
}

func toRoomDTO(rv domain.RoomView) roomDTO {
	return roomDTO{
		ID: rv.ID,
		Hotel: hotelDTO{
			ID:      rv.HotelID,
			Name:    rv.HotelName,
			Address: rv.HotelAddress,
			City:    rv.HotelCity,
			Contact: rv.HotelContact,
		},
		RoomType:      string(rv.Type),
		PricePerNight: rv.PricePerNight,
		Amenities:     rv.Amenities,
		Images:        rv.Images,
		IsAvailable:   rv.Available,
		CreatedAt:     rv.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRoomDTOs(rvs []domain.RoomView) []roomDTO {
	out := make([]roomDTO, 0, len(rvs))
	for _, rv := range rvs {
		out = append(out, toRoomDTO(rv))
	}
	return out
}

// ---- room handlers ----

func (h *Handlers) searchRooms(w http.ResponseWriter, r *http.Request) {
	var q domain.RoomsQuery
	qs := r.URL.Query()
	if c := qs.Get("city"); c != "" {
		q.City = &c
	}
	if s := qs.Get("check_in"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "check_in must be a YYYY-MM-DD date")
			return
		}
		q.CheckIn = &t
	}
	if s := qs.Get("check_out"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "check_out must be a YYYY-MM-DD date")
			return
		}
		q.CheckOut = &t
	}
	if s := qs.Get("guests"); s != "" {
		g, err := strconv.Atoi(s)
		if err != nil || g < 1 {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "guests must be a positive integer")
			return
		}
		q.Guests = &g
	}

	rooms, err := h.Rooms.SearchRooms(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, map[string]any{"rooms": toRoomDTOs(rooms)})
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Rooms.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, map[string]any{"room": toRoomDTO(rv)})
}

func (h *Handlers) roomAvailability(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	in, err := parseDate(r.URL.Query().Get("check_in"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "check_in must be a YYYY-MM-DD date")
		return
	}
	out, err := parseDate(r.URL.Query().Get("check_out"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "check_out must be a YYYY-MM-DD date")
		return
	}
	if !out.After(in) {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "check_out must be after check_in")
		return
	}

	available, err := h.Bookings.IsAvailable(r.Context(), roomID, in, out)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

type createRoomRequest struct {
	RoomType      string   `json:"roomType" validate:"required,max=32"`
	PricePerNight int64    `json:"pricePerNight" validate:"required,gt=0"`
	Amenities     []string `json:"amenities" validate:"max=32,dive,max=64"`
	Images        []string `json:"images" validate:"max=8,dive,url"`
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req createRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.Rooms.CreateRoom(r.Context(), id.UserID, app.CreateRoomInput{
		Type:          domain.RoomType(req.RoomType),
		PricePerNight: req.PricePerNight,
		Amenities:     req.Amenities,
		Images:        req.Images,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": room.ID, "message": "Room Created Successfully"})
}

func (h *Handlers) ownerRooms(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	rooms, err := h.Rooms.OwnerRooms(r.Context(), id.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": toRoomDTOs(rooms)})
}

func (h *Handlers) toggleRoom(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	available, err := h.Rooms.ToggleAvailability(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"isAvailable": available, "message": "Room Availability Updated"})
}
