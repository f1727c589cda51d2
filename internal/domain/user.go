package domain

import "time"

// User is the stored account row.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated principal handed to handlers.
type Identity struct {
	ID          int64  `json:"id"`
	Subject     string `json:"email"`
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
}

// Identity projects the user onto its principal view.
func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Subject:     u.Email,
		DisplayName: u.Name,
		Role:        u.Role,
	}
}
