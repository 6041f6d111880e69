package model

import "time"

type User struct {
	ID              int        `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Role            string     `json:"role" db:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at" db:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusPending  UserStatus = "pending"
)

// inactiveAfter is how long without an update before a user counts as inactive.
const inactiveAfter = 30 * 24 * time.Hour

func (u User) Status(now time.Time) UserStatus {
	if u.EmailVerifiedAt == nil {
		return UserStatusPending
	}
	if now.Sub(u.UpdatedAt) > inactiveAfter {
		return UserStatusInactive
	}
	return UserStatusActive
}

type UserListItem struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     UserStatus `json:"status"`
	Joined     string     `json:"joined"`
	LastActive string     `json:"lastActive"`
}

func (u User) ListItem(now time.Time) UserListItem {
	return UserListItem{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Status:     u.Status(now),
		Joined:     u.CreatedAt.Format(time.DateOnly),
		LastActive: u.UpdatedAt.Format(time.DateOnly),
	}
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"omitempty,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     string `json:"role" validate:"required,oneof=admin librarian student"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin librarian student"`
}

// NewUser is what the repository persists on register or admin create.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

type Session struct {
	ID        string
	UserID    int
	ExpiresAt time.Time
}
