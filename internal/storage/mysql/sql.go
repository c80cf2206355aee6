package mysql

const upsertUserSQL = `
INSERT INTO users (id, username, email, image, role, recent_cities)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  username   = VALUES(username),
  email      = VALUES(email),
  image      = VALUES(image),
  updated_at = CURRENT_TIMESTAMP
`

const getUserSQL = `
SELECT id, username, email, image, role, recent_cities, created_at
FROM users
WHERE id = ?
`

const setRoleSQL = `UPDATE users SET role = ? WHERE id = ?`

const setSearchedCitiesSQL = `UPDATE users SET recent_cities = ? WHERE id = ?`

const insertHotelSQL = `
INSERT INTO hotels (id, owner_id, name, address, contact, city)
VALUES (?, ?, ?, ?, ?, ?)
`

const getHotelByOwnerSQL = `
SELECT id, owner_id, name, address, contact, city, created_at
FROM hotels
WHERE owner_id = ?
`

const insertRoomSQL = `
INSERT INTO rooms (id, hotel_id, room_type, price_per_night, amenities, images, is_available)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const setRoomAvailabilitySQL = `UPDATE rooms SET is_available = ? WHERE id = ?`

// roomSelect joins the owning hotel; every room read goes through it.
const roomSelect = `
SELECT
  r.id, r.hotel_id, r.room_type, r.price_per_night,
  r.amenities, r.images, r.is_available, r.created_at,
  h.name, h.address, h.city, h.contact
FROM rooms r
JOIN hotels h ON h.id = r.hotel_id
`

const getRoomSQL = roomSelect + `WHERE r.id = ?`

const listHotelRoomsSQL = roomSelect + `WHERE r.hotel_id = ? ORDER BY r.created_at DESC, r.id DESC`

// Half-open overlap predicate: existing.check_in < requested.check_out AND
// existing.check_out > requested.check_in. Touching ranges do not overlap.
// Cancelled bookings never block a room.
const countOverlappingSQL = `
SELECT COUNT(*)
FROM bookings
WHERE room_id = ?
  AND status = 'confirmed'
  AND check_in < ?
  AND check_out > ?
`

// Same predicate, run inside the serializable booking transaction. FOR UPDATE
// locks the overlapping rows (and the predicate gap under SERIALIZABLE) so a
// concurrent insert for the same room/range blocks until commit.
const countOverlappingForUpdateSQL = countOverlappingSQL + `FOR UPDATE`

const insertBookingSQL = `
INSERT INTO bookings
  (id, user_id, room_id, hotel_id, guests, check_in, check_out, total_price, payment_method, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `
SELECT id, user_id, room_id, hotel_id, guests, check_in, check_out,
       total_price, payment_method, status, created_at
FROM bookings
WHERE id = ?
`

const cancelBookingSQL = `
UPDATE bookings SET status = 'cancelled' WHERE id = ? AND status = 'confirmed'
`

// bookingViewSelect denormalizes room type and hotel identity for listings.
// Cancelled bookings are filtered out: a cancelled id must no longer resolve
// in user or hotel listings even though the row is retained.
const bookingViewSelect = `
SELECT
  b.id, b.user_id, b.room_id, b.hotel_id, b.guests, b.check_in, b.check_out,
  b.total_price, b.payment_method, b.status, b.created_at,
  r.room_type, h.name, h.address
FROM bookings b
JOIN rooms r  ON r.id = b.room_id
JOIN hotels h ON h.id = b.hotel_id
WHERE b.status = 'confirmed'
`

const listUserBookingsSQL = bookingViewSelect + `AND b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`

const listHotelBookingsSQL = bookingViewSelect + `AND b.hotel_id = ? ORDER BY b.created_at DESC, b.id DESC`
