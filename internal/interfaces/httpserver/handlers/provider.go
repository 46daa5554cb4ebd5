package handlers

import (
	"github.com/rs/zerolog"

	"pinshare/internal/config"
	"pinshare/internal/domain/file"
	"pinshare/internal/domain/user"
	"pinshare/internal/infrastructure/auth"
)

// Provider wires HTTP handlers.
type Provider struct {
	Auth  *AuthHandler
	Files *FileHandler
}

func NewProvider(cfg *config.Config, users *user.Service, files *file.Service, tokens *auth.TokenManager, log zerolog.Logger) *Provider {
	return &Provider{
		Auth:  NewAuthHandler(users, tokens, log),
		Files: NewFileHandler(cfg, files, log),
	}
}
