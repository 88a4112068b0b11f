package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether s is one of the two supported roles.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}

// User models a registered account. A user owns zero or more devices;
// deleting a user cascades to those devices and their readings.
type User struct {
	ID                int64      `bson:"_id"`
	FirstName         string     `bson:"first_name"`
	LastName          string     `bson:"last_name"`
	Email             string     `bson:"email"`
	PasswordHash      string     `bson:"pwd_hash"`
	Role              string     `bson:"role"`
	LoginFailureCount int        `bson:"login_failure_count"`
	LoginLockedAt     *time.Time `bson:"login_locked_timestamp,omitempty"`
	UpdatedAt         time.Time  `bson:"timestamp"`
}
