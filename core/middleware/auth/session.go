package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v4"
)

// Role is the coarse permission level of a user.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleUser     Role = "user"
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// sessionKey is the Fiber locals key holding the resolved *Session.
const sessionKey = "session"

// Session is the identity resolved for a request.
type Session struct {
	UserID           int    `json:"userId"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	IsMerchant       bool   `json:"isMerchant"`
	MerchantApproved bool   `json:"merchantApproved"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the session has the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// CanSell reports whether the session may manage vendor listings.
func (s *Session) CanSell() bool {
	if s == nil {
		return false
	}
	return s.IsAdmin() || (s.IsMerchant && s.MerchantApproved)
}

// Owns reports whether the session is userID or an admin.
func (s *Session) Owns(userID int) bool {
	return s != nil && (s.IsAdmin() || s.UserID == userID)
}

// Issue signs a token for the session valid for ttl.
func Issue(secret string, s Session, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	s.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", s.UserID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "rainbow-recipes",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &s)
	return token.SignedString([]byte(secret))
}

// Parse verifies a token and returns its session.
func Parse(secret, tokenString string) (*Session, error) {
	var s Session
	token, err := jwt.ParseWithClaims(tokenString, &s, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if s.Role == "" {
		s.Role = RoleUser
	}
	return &s, nil
}

// Sessions resolves the bearer token of each request into a *Session.
// Requests without a token continue as guests; a malformed or expired token is rejected.
func Sessions(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		s, err := Parse(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(sessionKey, s)
		return c.Next()
	}
}

// FromCtx returns the session of the request, or nil for guests.
func FromCtx(c *fiber.Ctx) *Session {
	s, _ := c.Locals(sessionKey).(*Session)
	return s
}

// WithSession stores s on the context. Useful in tests and internal calls.
func WithSession(c *fiber.Ctx, s *Session) {
	c.Locals(sessionKey, s)
}

// RequireLogin rejects guests.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if FromCtx(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "you must be logged in"})
		}
		return c.Next()
	}
}

// RequireMerchant admits approved merchants and admins.
func RequireMerchant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := FromCtx(c)
		if s == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "you must be logged in"})
		}
		if !s.CanSell() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "an approved vendor account is required"})
		}
		return c.Next()
	}
}

// RequireAdmin admits admins only.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := FromCtx(c)
		if s == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "you must be logged in"})
		}
		if !s.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}
