package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/rs/zerolog"
)

type stubTokens struct {
	secret  []byte
	revoked map[string]bool
}

func (s stubTokens) Secret() []byte { return s.secret }

func (s stubTokens) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

type stubPermissions map[uint]bool

func (s stubPermissions) HasPermission(ctx context.Context, userID uint, resource, action string) (bool, error) {
	return s[userID], nil
}

func signToken(t *testing.T, secret []byte, userID uint, jti, kind string, ttl time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		UserID:    userID,
		Email:     "admin@careforme.com",
		Role:      "admin",
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func newProtectedApp(tokens stubTokens, perms stubPermissions) *fiber.App {
	app := fiber.New()
	app.Use(Recovery(zerolog.Nop()))
	app.Use(Logger(zerolog.Nop()))
	app.Get("/secure", Protected(tokens), RequirePermission(perms, "doctors", "read"), func(c *fiber.Ctx) error {
		claims, _ := ClaimsFrom(c)
		return c.SendString(claims.Email)
	})
	app.Get("/admin", Protected(tokens), RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	return app
}

func TestProtected(t *testing.T) {
	secret := []byte("test-secret")
	tokens := stubTokens{secret: secret, revoked: map[string]bool{"revoked-jti": true}}
	app := newProtectedApp(tokens, stubPermissions{1: true, 2: false})

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"garbage", "not-a-jwt", fiber.StatusUnauthorized},
		{"valid", signToken(t, secret, 1, "a", auth.TokenAccess, time.Hour), fiber.StatusOK},
		{"expired", signToken(t, secret, 1, "b", auth.TokenAccess, -time.Hour), fiber.StatusUnauthorized},
		{"refresh token", signToken(t, secret, 1, "c", auth.TokenRefresh, time.Hour), fiber.StatusUnauthorized},
		{"revoked", signToken(t, secret, 1, "revoked-jti", auth.TokenAccess, time.Hour), fiber.StatusUnauthorized},
		{"wrong secret", signToken(t, []byte("other"), 1, "d", auth.TokenAccess, time.Hour), fiber.StatusUnauthorized},
		{"no permission", signToken(t, secret, 2, "e", auth.TokenAccess, time.Hour), fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/secure", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	secret := []byte("test-secret")
	app := newProtectedApp(stubTokens{secret: secret}, nil)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, 1, "a", auth.TokenAccess, time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

func TestRecovery(t *testing.T) {
	app := newProtectedApp(stubTokens{secret: []byte("x")}, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}
