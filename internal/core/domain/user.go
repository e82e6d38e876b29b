package domain

import "time"

// Role is the authorization role carried by a user and embedded in tokens.
type Role string

const (
	RoleUser         Role = "USER"
	RoleAdmin        Role = "ADMIN"
	RoleVeterinary   Role = "VETERINARY"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleTrainer      Role = "TRAINER"
	RoleDriver       Role = "DRIVER"
)

var knownRoles = map[Role]struct{}{
	RoleUser:         {},
	RoleAdmin:        {},
	RoleVeterinary:   {},
	RoleReceptionist: {},
	RoleTrainer:      {},
	RoleDriver:       {},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// User models an account in the system.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claims returns the identity subset that is signed into tokens.
func (u *User) Claims() TokenClaims {
	return TokenClaims{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// View returns the user-safe projection of u.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserView is everything about a user that may leave the service.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
