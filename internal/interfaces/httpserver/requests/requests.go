package requests

// RegisterRequest represents a new account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a credential check.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ShareRequest grants read access to the listed users.
type ShareRequest struct {
	UserIDs []uint `json:"userIds" binding:"required"`
}
