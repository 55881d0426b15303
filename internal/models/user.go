package models

import "time"

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSupplier Role = "supplier"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSupplier
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Company      *string   `json:"company"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the public listing shape of a user.
type UserSummary struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is what a token asserts about its bearer.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     Role    `json:"role"`
	Company  *string `json:"company"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}
