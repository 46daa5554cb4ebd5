package responses

import (
	"time"

	"pinshare/internal/domain/user"
)

// UserSummary is the credential-free account representation.
type UserSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// BuildUserSummary creates the response shape from a domain user.
func BuildUserSummary(usr *user.User) UserSummary {
	return UserSummary{
		ID:        usr.ID,
		Username:  usr.Username,
		Email:     usr.Email,
		CreatedAt: usr.CreatedAt,
	}
}

// TokenResponse wraps a successful registration or login.
type TokenResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// ProfileResponse wraps a profile lookup.
type ProfileResponse struct {
	User UserSummary `json:"user"`
}
