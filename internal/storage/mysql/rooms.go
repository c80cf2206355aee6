package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"tourix/internal/domain"
)

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) error {
	amen, _ := json.Marshal(rm.Amenities)
	imgs, _ := json.Marshal(rm.Images)
	_, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.ID, rm.HotelID, string(rm.Type), rm.PricePerNight,
		string(amen), string(imgs), rm.Available)
	return err
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.RoomView, error) {
	row := r.db.QueryRowContext(ctx, getRoomSQL, id)
	rv, err := scanRoomView(row)
	if err == sql.ErrNoRows {
		return domain.RoomView{}, domain.ErrNotFound
	}
	return rv, err
}

// ListRooms returns available rooms, optionally filtered by city and by a
// requested stay. The date filter is a single anti-join on the half-open
// overlap predicate, so rooms with any overlapping confirmed booking drop
// out in one query.
func (r *Repo) ListRooms(ctx context.Context, q domain.RoomsQuery) ([]domain.RoomView, error) {
	var sb strings.Builder
	sb.WriteString(roomSelect)
	sb.WriteString("WHERE r.is_available = 1\n")
	args := make([]any, 0, 4)

	if q.City != nil {
		sb.WriteString("  AND h.city = ?\n")
		args = append(args, *q.City)
	}
	if q.CheckIn != nil && q.CheckOut != nil {
		sb.WriteString(`  AND NOT EXISTS (
    SELECT 1 FROM bookings b
    WHERE b.room_id = r.id
      AND b.status = 'confirmed'
      AND b.check_in < ?
      AND b.check_out > ?
  )
`)
		args = append(args, *q.CheckOut, *q.CheckIn)
	}
	sb.WriteString("ORDER BY r.created_at DESC, r.id DESC\n")
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	sb.WriteString("LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoomViews(rows)
}

func (r *Repo) ListHotelRooms(ctx context.Context, hotelID string) ([]domain.RoomView, error) {
	rows, err := r.db.QueryContext(ctx, listHotelRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoomViews(rows)
}

func (r *Repo) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx, setRoomAvailabilitySQL, available, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 when the flag already holds the value, so
		// confirm the room is actually missing before reporting not-found.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, id).Scan(&one); err == sql.ErrNoRows {
			return domain.ErrNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// ---- scanning ----

type rowScanner interface{ Scan(dst ...any) error }

func scanRoomView(row rowScanner) (domain.RoomView, error) {
	var rv domain.RoomView
	var roomType string
	var amenitiesJSON, imagesJSON []byte
	if err := row.Scan(
		&rv.ID, &rv.HotelID, &roomType, &rv.PricePerNight,
		&amenitiesJSON, &imagesJSON, &rv.Available, &rv.CreatedAt,
		&rv.HotelName, &rv.HotelAddress, &rv.HotelCity, &rv.HotelContact,
	); err != nil {
		return domain.RoomView{}, err
	}
	rv.Type = domain.RoomType(roomType)
	_ = json.Unmarshal(amenitiesJSON, &rv.Amenities)
	_ = json.Unmarshal(imagesJSON, &rv.Images)
	return rv, nil
}

func collectRoomViews(rows *sql.Rows) ([]domain.RoomView, error) {
	var out []domain.RoomView
	for rows.Next() {
		rv, err := scanRoomView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
