package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/vaani-ai/vaani/pkg/config"
)

// NewCORS builds the CORS middleware. Credentials are always allowed because
// the session cookie must travel with cross-origin requests, which also
// means origins must be listed explicitly in production.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	origins := "http://localhost:3000"
	if len(cfg.AllowedOrigins) > 0 {
		origins = strings.Join(cfg.AllowedOrigins, ",")
	}

	methods := "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	if len(cfg.AllowedMethods) > 0 {
		methods = strings.Join(cfg.AllowedMethods, ",")
	}

	return fibercors.New(fibercors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	})
}
