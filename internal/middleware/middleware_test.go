package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, jwtService jwt.JWTService) *fiber.App {
	t.Helper()
	m := NewMiddleware()
	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		v := GetViewer(c)
		return c.JSON(fiber.Map{"id": v.ID, "role": v.Role})
	}
	app.Get("/private", m.AuthMiddleware(jwtService), whoami)
	app.Get("/public", m.OptionalAuthMiddleware(jwtService), whoami)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Hour)
	app := newTestApp(t, jwtService)
	token, err := jwtService.GenerateTokenUser(9, domain.RoleUser)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"private without token", "/private", "", fiber.StatusUnauthorized},
		{"private with bearer", "/private", "Bearer " + token, fiber.StatusOK},
		{"private with token scheme", "/private", "Token " + token, fiber.StatusOK},
		{"private with garbage", "/private", "Bearer nope", fiber.StatusUnauthorized},
		{"public anonymous", "/public", "", fiber.StatusOK},
		{"public with token", "/public", "Bearer " + token, fiber.StatusOK},
		{"public with garbage", "/public", "Bearer nope", fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
