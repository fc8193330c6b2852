package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// Header carries the API key.
const Header = "X-API-Key"

// Config holds the auth middleware options.
type Config struct {
	// ApiKey is the expected key. An empty key disables the check.
	ApiKey string
	// Skip lists path prefixes served without a key.
	Skip []string
}

// New creates a middleware rejecting requests without the API key.
func New(cfg Config) fiber.Handler {
	if cfg.ApiKey == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	expected := []byte(cfg.ApiKey)
	return keyauth.New(keyauth.Config{
		KeyLookup: "header:" + Header,
		Next: func(c *fiber.Ctx) bool {
			for _, prefix := range cfg.Skip {
				if strings.HasPrefix(c.Path(), prefix) {
					return true
				}
			}
			return false
		},
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		},
	})
}
