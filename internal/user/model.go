package user

import "time"

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the contact data checkout needs for the gateway and notifications.
type Profile struct {
	Name  string
	Email string
	Phone string
}

type Customer struct {
	User
	OrderCount int `json:"orderCount"`
}

// ProfileRequest is the profile update payload.
// swagger:model ProfileRequest
type ProfileRequest struct {
	Name string `json:"name" binding:"required,max=120" example:"Asha Rao"`
}

// NotesRequest is the admin customer notes payload.
// swagger:model NotesRequest
type NotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}
