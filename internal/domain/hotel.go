package domain

import "time"

// Hotel is a property registered by an owner. One hotel per owner,
// backed by a unique key on owner_id.
type Hotel struct {
	ID        string
	OwnerID   string
	Name      string
	Address   string
	Contact   string
	City      string
	CreatedAt time.Time
}
