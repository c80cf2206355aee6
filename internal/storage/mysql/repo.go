package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"tourix/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- users ----

func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	cities, _ := json.Marshal(u.RecentSearchedCities)
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	_, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.ID, u.Username, u.Email, u.Image, string(role), string(cities))
	return err
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, id)

	var u domain.User
	var role string
	var citiesJSON []byte
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Image, &role, &citiesJSON, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	_ = json.Unmarshal(citiesJSON, &u.RecentSearchedCities)
	return u, nil
}

func (r *Repo) SetRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, setRoleSQL, string(role), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddSearchedCity moves city to the front of the user's list, de-duplicated.
// No server-side cap; the client trims what it shows.
func (r *Repo) AddSearchedCity(ctx context.Context, id, city string) error {
	u, err := r.GetUser(ctx, id)
	if err != nil {
		return err
	}
	cities := make([]string, 0, len(u.RecentSearchedCities)+1)
	cities = append(cities, city)
	for _, c := range u.RecentSearchedCities {
		if c != city {
			cities = append(cities, c)
		}
	}
	b, _ := json.Marshal(cities)
	_, err = r.db.ExecContext(ctx, setSearchedCitiesSQL, string(b), id)
	return err
}

// ---- hotels ----

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.ID, h.OwnerID, h.Name, h.Address, h.Contact, h.City)
	return err
}

func (r *Repo) GetHotelByOwner(ctx context.Context, ownerID string) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, getHotelByOwnerSQL, ownerID)

	var h domain.Hotel
	if err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Address, &h.Contact, &h.City, &h.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	return h, nil
}
