package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        string    // ID is the unique identifier (24-character hex ObjectID)
	Name      string    // Name is the full name of the user
	Email     string    // Email is the unique email address of the user
	Age       int       // Age in years
	Phone     string    // Phone number, optional
	Address   string    // Postal address, optional
	CreatedAt time.Time // Set on insert, immutable afterwards
	UpdatedAt time.Time // Refreshed on every update
}

// Patch describes a partial update of a user. Nil fields are left untouched.
type Patch struct {
	Name    *string
	Email   *string
	Age     *int
	Phone   *string
	Address *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.Phone == nil && p.Address == nil
}
