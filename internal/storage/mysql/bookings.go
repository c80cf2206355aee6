package mysql

import (
	"context"
	"database/sql"
	"time"

	"tourix/internal/domain"
)

// CreateBooking re-checks availability and inserts in one serializable
// transaction. Two concurrent requests for the same room and overlapping
// dates serialize on the locked range; the loser sees the winner's row and
// gets ErrConflict instead of double-booking.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, countOverlappingForUpdateSQL,
		b.RoomID, b.CheckOut, b.CheckIn).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ID, b.UserID, b.RoomID, b.HotelID, b.Guests,
		b.CheckIn, b.CheckOut, b.TotalPrice, b.PaymentMethod,
		string(b.Status), b.CreatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, getBookingSQL, id)

	var b domain.Booking
	var status string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.HotelID, &b.Guests,
		&b.CheckIn, &b.CheckOut, &b.TotalPrice, &b.PaymentMethod,
		&status, &b.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *Repo) CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countOverlappingSQL, roomID, checkOut, checkIn).Scan(&n)
	return n, err
}

func (r *Repo) CancelBooking(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, cancelBookingSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, listUserBookingsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

func (r *Repo) ListHotelBookings(ctx context.Context, hotelID string) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, listHotelBookingsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

func collectBookingViews(rows *sql.Rows) ([]domain.BookingView, error) {
	var out []domain.BookingView
	for rows.Next() {
		var bv domain.BookingView
		var status, roomType string
		if err := rows.Scan(
			&bv.ID, &bv.UserID, &bv.RoomID, &bv.HotelID, &bv.Guests,
			&bv.CheckIn, &bv.CheckOut, &bv.TotalPrice, &bv.PaymentMethod,
			&status, &bv.CreatedAt,
			&roomType, &bv.HotelName, &bv.HotelAddress,
		); err != nil {
			return nil, err
		}
		bv.Status = domain.BookingStatus(status)
		bv.RoomType = domain.RoomType(roomType)
		out = append(out, bv)
	}
	return out, rows.Err()
}
