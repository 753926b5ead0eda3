package entity

import "github.com/google/uuid"

// Customer is read from the identity subsystem; this service never writes it.
type Customer struct {
	ID       uuid.UUID `db:"id"`
	FullName string    `db:"full_name"`
	Phone    *string   `db:"phone"`
	Email    *string   `db:"email"`
}
