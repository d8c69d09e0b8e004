package middleware

import (
	"strings"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		// AuthMiddleware rejects requests without a valid token.
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		// OptionalAuthMiddleware lets anonymous requests through but still
		// rejects a token that is present and invalid.
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}
		return authenticate(c, jwtService, token)
	}
}

func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		return authenticate(c, jwtService, token)
	}
}

func authenticate(c *fiber.Ctx, jwtService jwt.JWTService, token string) error {
	userID, role, err := jwtService.GetUserIDByToken(token)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalRole, role)
	return c.Next()
}

// GetViewer returns the identity set by the auth middlewares. Anonymous
// requests get the zero Viewer.
func GetViewer(c *fiber.Ctx) domain.Viewer {
	id, _ := c.Locals(LocalUserID).(uint)
	role, _ := c.Locals(LocalRole).(string)
	return domain.Viewer{ID: id, Role: role}
}
