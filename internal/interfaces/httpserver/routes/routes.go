package routes

import (
	"github.com/gin-gonic/gin"

	"pinshare/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration.
type Routes struct {
	handlers *handlers.Provider
	auth     gin.HandlerFunc
}

func NewRoutes(provider *handlers.Provider, auth gin.HandlerFunc) *Routes {
	return &Routes{handlers: provider, auth: auth}
}

// Register attaches all routes. Public endpoints carry no auth middleware;
// everything else requires a bearer token.
func (r *Routes) Register(router gin.IRouter) {
	router.POST("/register", r.handlers.Auth.Register)
	router.POST("/login", r.handlers.Auth.Login)
	router.GET("/public-files", r.handlers.Files.ListPublic)
	router.GET("/health", r.handlers.Files.Health)

	authed := router.Group("/", r.auth)
	authed.GET("/profile", r.handlers.Auth.Profile)
	authed.POST("/upload", r.handlers.Files.Upload)
	authed.GET("/file/:hash", r.handlers.Files.Download)
	authed.GET("/metadata/:hash", r.handlers.Files.Metadata)
	authed.GET("/files", r.handlers.Files.ListMine)
	authed.POST("/share/:hash", r.handlers.Files.Share)
	authed.DELETE("/file/:hash", r.handlers.Files.Delete)
}
