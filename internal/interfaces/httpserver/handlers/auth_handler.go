package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pinshare/internal/domain/user"
	"pinshare/internal/infrastructure/auth"
	"pinshare/internal/interfaces/httpserver/middlewares"
	"pinshare/internal/interfaces/httpserver/requests"
	"pinshare/internal/interfaces/httpserver/responses"
	"pinshare/internal/utils/platformerrors"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenManager
	log    zerolog.Logger
}

func NewAuthHandler(users *user.Service, tokens *auth.TokenManager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("component", "auth-handler").Logger(),
	}
}

// Register creates an account and returns a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req requests.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"username, email and password are required", "67b5c2f8-9e04-4d31-a8f7-12d6e09c5b3a")
		return
	}

	usr, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.log.Warn().Err(err).Msg("registration rejected")
		responses.HandleError(c, err, "registration failed")
		return
	}

	token, err := h.tokens.Issue(usr.ID, usr.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("token issuance failed")
		responses.HandleError(c, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, responses.TokenResponse{
		Message: "User created successfully",
		Token:   token,
		User:    responses.BuildUserSummary(usr),
	})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"email and password are required", "d14a82e5-07c6-4b98-bf30-5e29c7d0a681")
		return
	}

	usr, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.HandleError(c, err, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(usr.ID, usr.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("token issuance failed")
		responses.HandleError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, responses.TokenResponse{
		Message: "Login successful",
		Token:   token,
		User:    responses.BuildUserSummary(usr),
	})
}

// Profile returns the authenticated account without its credential.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"authentication required", "f85e03b2-41d7-4a6c-9028-c67d1ae59f04")
		return
	}

	usr, err := h.users.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		responses.HandleError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusOK, responses.ProfileResponse{User: responses.BuildUserSummary(usr)})
}
