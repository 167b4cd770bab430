package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func bearer(t *testing.T, s Session) string {
	t.Helper()
	token, err := Issue(testSecret, s, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(testSecret, Session{UserID: 4, Email: "a@uni.edu", Role: RoleMerchant, IsMerchant: true}, time.Hour)
	require.NoError(t, err)

	s, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, 4, s.UserID)
	assert.Equal(t, RoleMerchant, s.Role)
	assert.True(t, s.IsMerchant)
	assert.False(t, s.CanSell())

	_, err = Parse("other-secret", token)
	assert.Error(t, err)

	expired, err := Issue(testSecret, Session{UserID: 4}, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(testSecret, expired)
	assert.Error(t, err)

	_, err = Issue("", Session{UserID: 1}, time.Hour)
	assert.Error(t, err)
}

func TestSession_Permissions(t *testing.T) {
	var guest *Session
	assert.False(t, guest.IsAdmin())
	assert.False(t, guest.CanSell())
	assert.False(t, guest.Owns(1))

	merchant := &Session{UserID: 2, Role: RoleMerchant, IsMerchant: true, MerchantApproved: true}
	assert.True(t, merchant.CanSell())
	assert.True(t, merchant.Owns(2))
	assert.False(t, merchant.Owns(3))

	admin := &Session{UserID: 9, Role: RoleAdmin}
	assert.True(t, admin.CanSell())
	assert.True(t, admin.Owns(3))
}

func TestGuards(t *testing.T) {
	app := fiber.New()
	app.Use(Sessions(testSecret))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	app.Get("/login", RequireLogin(), ok)
	app.Get("/vendor", RequireMerchant(), ok)
	app.Get("/admin", RequireAdmin(), ok)

	user := Session{UserID: 1, Role: RoleUser}
	pending := Session{UserID: 2, Role: RoleMerchant, IsMerchant: true}
	vendor := Session{UserID: 3, Role: RoleMerchant, IsMerchant: true, MerchantApproved: true}
	admin := Session{UserID: 4, Role: RoleAdmin}

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{"Guest login", "/login", "", fiber.StatusUnauthorized},
		{"User login", "/login", bearer(t, user), fiber.StatusNoContent},
		{"Garbage token", "/login", "Bearer nope", fiber.StatusUnauthorized},
		{"User vendor", "/vendor", bearer(t, user), fiber.StatusForbidden},
		{"Pending vendor", "/vendor", bearer(t, pending), fiber.StatusForbidden},
		{"Approved vendor", "/vendor", bearer(t, vendor), fiber.StatusNoContent},
		{"Admin vendor", "/vendor", bearer(t, admin), fiber.StatusNoContent},
		{"Vendor admin", "/admin", bearer(t, vendor), fiber.StatusForbidden},
		{"Admin admin", "/admin", bearer(t, admin), fiber.StatusNoContent},
		{"Guest admin", "/admin", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPIKey(t *testing.T) {
	app := fiber.New()
	app.Use(APIKey("k1"))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(APIKeyHeader, "k1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	open := fiber.New()
	open.Use(APIKey(""))
	open.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	resp, err = open.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
