package domain

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleHotelOwner Role = "hotel_owner"
)

type User struct {
	ID       string
	Username string
	Email    string
	Image    string
	Role     Role
	// RecentSearchedCities is newest-first. The 3-city cap shown in the UI
	// is a client concern; the server keeps the full list.
	RecentSearchedCities []string
	CreatedAt            time.Time
}
