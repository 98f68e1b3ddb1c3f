package quizlive

import "github.com/google/uuid"

// Identity is the resolved identity attached to a realtime connection.
// Resolved once at connection time and immutable for the connection's
// lifetime.
type Identity struct {
	UserID      uuid.UUID
	Role        string
	DisplayName string
}

// Resolved reports whether the identity carries a real user.
func (i Identity) Resolved() bool {
	return i.UserID != uuid.Nil
}
