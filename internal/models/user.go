package models

import "time"

// UserRole represents the account roles of the marketplace.
type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleLandlord UserRole = "landlord"
	RoleAdmin    UserRole = "admin"
)

// User represents an account stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Phone        string     `db:"phone" json:"phone"`
	Role         UserRole   `db:"role" json:"role"`
	Bio          string     `db:"bio" json:"bio,omitempty"`
	AvatarURL    *string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	Verified     bool       `db:"verified" json:"verified"`
	Blocked      bool       `db:"blocked" json:"blocked"`
	BlockedAt    *time.Time `db:"blocked_at" json:"blockedAt,omitempty"`
	BlockedBy    *string    `db:"blocked_by" json:"blockedBy,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Profile is the client-facing shape of an account.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile reshapes the row for API responses.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AdminUser is the moderation view of an account.
type AdminUser struct {
	ID        string     `db:"id" json:"id"`
	Email     string     `db:"email" json:"email"`
	FirstName string     `db:"first_name" json:"firstName"`
	LastName  string     `db:"last_name" json:"lastName"`
	Phone     string     `db:"phone" json:"phone"`
	Role      UserRole   `db:"role" json:"role"`
	Verified  bool       `db:"verified" json:"verified"`
	Blocked   bool       `db:"blocked" json:"blocked"`
	BlockedAt *time.Time `db:"blocked_at" json:"blockedAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// BlockAction is the moderation transition applied to an account.
type BlockAction string

const (
	BlockActionBlock   BlockAction = "block"
	BlockActionUnblock BlockAction = "unblock"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
