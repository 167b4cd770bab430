package catalog_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"rainbow-recipes/core/middleware/auth"
	"rainbow-recipes/feature/catalog"
	"rainbow-recipes/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newApp(t *testing.T) (*fiber.App, *catalog.Service) {
	t.Helper()
	db := setupDB(t)
	feature := catalog.NewFeature(db, zap.NewNop(), nil)

	app := fiber.New()
	app.Use(auth.Sessions(testSecret))
	require.NoError(t, feature.Load(app))
	return app, feature.Service()
}

func token(t *testing.T, role auth.Role) string {
	t.Helper()
	tok, err := auth.Issue(testSecret, auth.Session{UserID: 9, Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, body, bearer string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestHandleCreate(t *testing.T) {
	app, _ := newApp(t)

	status, _ := call(t, app, "POST", "/catalog", `{"name":"Tofu"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := call(t, app, "POST", "/catalog", `{"name":"  Tofu ","category":"produce"}`, token(t, auth.RoleUser))
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Tofu", body["name"])

	status, _ = call(t, app, "POST", "/catalog", `{"name":"tofu"}`, token(t, auth.RoleUser))
	assert.Equal(t, fiber.StatusOK, status)

	status, body = call(t, app, "POST", "/catalog", `{"name":"Tofu","category":"soy"}`, token(t, auth.RoleUser))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "unknown category")
}

func TestHandleGet(t *testing.T) {
	app, svc := newApp(t)

	status, _ := call(t, app, "GET", "/catalog/17", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "GET", "/catalog/abc", "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	item, _, err := svc.FindOrCreate(t.Context(), "Egg", models.CategoryDairyEggs)
	require.NoError(t, err)
	status, body := call(t, app, "GET", "/catalog/"+strconv.Itoa(item.ID), "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Egg", body["name"])
}

func TestHandleUpdate_AdminOnly(t *testing.T) {
	app, svc := newApp(t)
	item, _, err := svc.FindOrCreate(t.Context(), "Kale", models.CategoryProduce)
	require.NoError(t, err)

	status, _ := call(t, app, "PATCH", "/catalog/"+strconv.Itoa(item.ID), `{"approved":true}`, token(t, auth.RoleUser))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := call(t, app, "PATCH", "/catalog/"+strconv.Itoa(item.ID), `{"approved":true}`, token(t, auth.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["approved"])
}

func TestHandleMerge(t *testing.T) {
	app, svc := newApp(t)
	target, _, err := svc.FindOrCreate(t.Context(), "Scallion", models.CategoryProduce)
	require.NoError(t, err)
	source, _, err := svc.FindOrCreate(t.Context(), "Green Onion", models.CategoryProduce)
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   string
		bearer string
		status int
	}{
		{"guest", `{"sourceId":1,"targetId":2}`, "", fiber.StatusUnauthorized},
		{"not admin", `{"sourceId":1,"targetId":2}`, token(t, auth.RoleMerchant), fiber.StatusForbidden},
		{"non numeric", `{"sourceId":"abc","targetId":2}`, token(t, auth.RoleAdmin), fiber.StatusBadRequest},
		{"fractional", `{"sourceId":1.5,"targetId":2}`, token(t, auth.RoleAdmin), fiber.StatusBadRequest},
		{"self", `{"sourceId":` + strconv.Itoa(target.ID) + `,"targetId":"` + strconv.Itoa(target.ID) + `"}`, token(t, auth.RoleAdmin), fiber.StatusBadRequest},
		{"missing", `{"sourceId":500,"targetId":` + strconv.Itoa(target.ID) + `}`, token(t, auth.RoleAdmin), fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, "POST", "/catalog/merge", tt.body, tt.bearer)
			assert.Equal(t, tt.status, status)
		})
	}

	body := `{"sourceId":"` + strconv.Itoa(source.ID) + `","targetId":` + strconv.Itoa(target.ID) + `}`
	status, resp := call(t, app, "POST", "/catalog/merge", body, token(t, auth.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, resp["success"])

	status, _ = call(t, app, "GET", "/catalog/"+strconv.Itoa(source.ID), "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleListMerges_WithoutStorage(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest("GET", "/catalog/merges", nil)
	req.Header.Set("Authorization", token(t, auth.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestHandleList(t *testing.T) {
	app, svc := newApp(t)
	_, _, err := svc.FindOrCreate(t.Context(), "Oats", models.CategoryDry)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/catalog?approved=false&category=dry", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []models.CatalogItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Oats", items[0].Name)

	status, _ := call(t, app, "GET", "/catalog?category=spicy", "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleCategories(t *testing.T) {
	app, _ := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/categories", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, models.Categories, got)
	assert.Contains(t, got, models.CategoryOther)
}
