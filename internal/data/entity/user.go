package entity

type UserRole string

const (
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// User is the administrator/staff identity owned by the authentication subsystem.
type User struct {
	Base
	Username string   `db:"username"`
	Email    string   `db:"email"`
	Role     UserRole `db:"role"`
	IsActive bool     `db:"is_active"`
}
