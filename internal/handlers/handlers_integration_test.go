package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kedai/internal/app"
	"kedai/internal/config"
	"kedai/internal/database"
	"kedai/internal/handlers"
	"kedai/internal/middleware"
	"kedai/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@kedai.test"
	adminPassword = "admin-password"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:             "test",
		DatabaseDriver:          "sqlite",
		DatabaseDSN:             fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()),
		JWTSecret:               "test_jwt_secret",
		SessionTTL:              time.Hour,
		AdminEmail:              adminEmail,
		AdminPassword:           adminPassword,
		DefaultEstimatedMinutes: 35,
		TaxPercent:              10,
		TrackingPollInterval:    3 * time.Second,
		OrderListPollInterval:   5 * time.Second,
		StatsPollInterval:       30 * time.Second,
	}
}

// setupApp builds the full application on a private in-memory database.
func setupApp(t *testing.T) *app.App {
	t.Helper()
	cfg := testConfig()
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	application := app.New(cfg, db, nil, zap.NewNop())
	require.NoError(t, application.Seed(cfg, zap.NewNop()))
	return application
}

func doRequest(t *testing.T, a *app.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Fiber.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func register(t *testing.T, a *app.App, email string) string {
	t.Helper()
	resp := doRequest(t, a, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"firstName": "Sari",
		"lastName":  "Wulandari",
		"email":     email,
		"phone":     "0812",
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func login(t *testing.T, a *app.App, email, password string) string {
	t.Helper()
	resp := doRequest(t, a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	return body.Token
}

func pizzaOrder() map[string]interface{} {
	return map[string]interface{}{
		"items":           []map[string]interface{}{{"name": "Pizza", "quantity": 2, "price": 380}},
		"total":           836,
		"deliveryAddress": "Jl. Merdeka 1",
		"paymentMethod":   "cash",
		"customerName":    "Sari",
		"customerPhone":   "0812",
	}
}

func placeOrder(t *testing.T, a *app.App, token string) models.Order {
	t.Helper()
	resp := doRequest(t, a, http.MethodPost, "/api/v1/orders", token, pizzaOrder())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decode(t, resp, &order)
	return order
}

func TestAuthRegisterAndLogin(t *testing.T) {
	a := setupApp(t)

	body := map[string]string{
		"firstName": "Sari",
		"lastName":  "Wulandari",
		"email":     "sari@example.com",
		"password":  "password123",
	}
	resp := doRequest(t, a, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.SessionHeader))

	var registerResp map[string]interface{}
	decode(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	user := registerResp["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
	assert.Equal(t, "customer", user["role"])

	// Duplicate registration
	resp = doRequest(t, a, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Validation failure
	resp = doRequest(t, a, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var validationResp struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decode(t, resp, &validationResp)
	assert.Equal(t, "Validation failed", validationResp.Message)
	assert.Contains(t, validationResp.Errors, "email")
	assert.Contains(t, validationResp.Errors, "password")

	// Wrong password
	resp = doRequest(t, a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "sari@example.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	token := login(t, a, "SARI@example.com", "password123")

	resp = doRequest(t, a, http.MethodGet, "/api/v1/auth/user", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &me)
	assert.Equal(t, "sari@example.com", me.User.Email)

	// The session header works as well as a bearer token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user", nil)
	req.Header.Set(middleware.SessionHeader, token)
	resp, err := a.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/auth/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProfileUpdateRefreshesSession(t *testing.T) {
	a := setupApp(t)
	first := register(t, a, "budi@example.com")
	second := login(t, a, "budi@example.com", "password123")

	resp := doRequest(t, a, http.MethodPatch, "/api/v1/auth/profile", first, map[string]string{"firstName": "Budiman"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodGet, "/api/v1/auth/user", second, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &me)
	assert.Equal(t, "Budiman", me.User.FirstName)
}

func TestOrderLifecycle(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")
	admin := login(t, a, adminEmail, adminPassword)

	order := placeOrder(t, a, customer)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, 35, order.EstimatedDeliveryTime)
	assert.Equal(t, 836, order.Total)
	assert.Equal(t, []models.OrderItem{{Name: "Pizza", Quantity: 2, Price: 380}}, order.Items)

	statusPath := "/api/v1/admin/orders/" + order.ID + "/status"

	resp := doRequest(t, a, http.MethodPatch, statusPath, admin, map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Order
	decode(t, resp, &updated)
	assert.Equal(t, models.StatusPreparing, updated.Status)

	// Going backwards is rejected with the valid next states.
	resp = doRequest(t, a, http.MethodPatch, statusPath, admin, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp map[string]string
	decode(t, resp, &errResp)
	assert.Contains(t, errResp["message"], "on_the_way, cancelled")

	resp = doRequest(t, a, http.MethodPatch, statusPath, admin, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	deliveryPath := "/api/v1/admin/orders/" + order.ID + "/delivery-time"
	resp = doRequest(t, a, http.MethodPatch, deliveryPath, admin, map[string]int{"estimatedDeliveryTime": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPatch, deliveryPath, admin, map[string]int{"estimatedDeliveryTime": 45})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &updated)
	assert.Equal(t, 45, updated.EstimatedDeliveryTime)
	assert.Equal(t, models.StatusPreparing, updated.Status)

	// The owner polls the order.
	resp = doRequest(t, a, http.MethodGet, "/api/v1/orders/"+order.ID, customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get(handlers.PollIntervalHeader))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	var tracking models.OrderTracking
	decode(t, resp, &tracking)
	assert.Equal(t, models.StatusPreparing, tracking.Status)
	assert.Equal(t, 1, tracking.Progress.Step)
	assert.Equal(t, 4, tracking.Progress.TotalSteps)
	assert.True(t, tracking.EstimatedArrival.Equal(tracking.CreatedAt.Add(45*time.Minute)))

	_, err := a.Orders.TransitionStatus(order.ID, models.StatusOnTheWay)
	require.NoError(t, err)
	_, err = a.Orders.TransitionStatus(order.ID, models.StatusDelivered)
	require.NoError(t, err)

	resp = doRequest(t, a, http.MethodPatch, statusPath, admin, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	resp = doRequest(t, a, http.MethodPatch, deliveryPath, admin, map[string]int{"estimatedDeliveryTime": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPatch, "/api/v1/admin/orders/missing/status", admin, map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTrackingPollsAreStable(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")
	order := placeOrder(t, a, customer)

	readBody := func() []byte {
		resp := doRequest(t, a, http.MethodGet, "/api/v1/orders/"+order.ID, customer, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return raw
	}

	first := readBody()
	time.Sleep(10 * time.Millisecond)
	second := readBody()
	assert.Equal(t, string(first), string(second))

	_, err := a.Orders.UpdateDeliveryTime(order.ID, 50)
	require.NoError(t, err)
	assert.NotEqual(t, string(second), string(readBody()))
}

func TestOrderOwnership(t *testing.T) {
	a := setupApp(t)
	owner := register(t, a, "owner@example.com")
	other := register(t, a, "other@example.com")
	admin := login(t, a, adminEmail, adminPassword)

	order := placeOrder(t, a, owner)

	resp := doRequest(t, a, http.MethodGet, "/api/v1/orders/"+order.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodGet, "/api/v1/orders/"+order.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodGet, "/api/v1/orders/does-not-exist", owner, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/orders/"+order.ID, admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Each customer only lists their own orders.
	resp = doRequest(t, a, http.MethodGet, "/api/v1/orders", other, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get(handlers.PollIntervalHeader))
	var orders []models.Order
	decode(t, resp, &orders)
	assert.Empty(t, orders)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/orders", owner, nil)
	decode(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCreateOrderAcceptsEncodedItems(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")

	body := pizzaOrder()
	body["items"] = `[{"name":"Pizza","quantity":2,"price":380}]`
	resp := doRequest(t, a, http.MethodPost, "/api/v1/orders", customer, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decode(t, resp, &order)
	assert.Equal(t, []models.OrderItem{{Name: "Pizza", Quantity: 2, Price: 380}}, order.Items)

	body["items"] = `not json`
	resp = doRequest(t, a, http.MethodPost, "/api/v1/orders", customer, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	body["items"] = []interface{}{}
	resp = doRequest(t, a, http.MethodPost, "/api/v1/orders", customer, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")

	for _, path := range []string{"/api/v1/admin/orders", "/api/v1/admin/stats", "/api/v1/admin/users"} {
		resp := doRequest(t, a, http.MethodGet, path, customer, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()

		resp = doRequest(t, a, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestAdminResetOrders(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")
	admin := login(t, a, adminEmail, adminPassword)

	placeOrder(t, a, customer)
	placeOrder(t, a, customer)

	resp := doRequest(t, a, http.MethodGet, "/api/v1/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get(handlers.PollIntervalHeader))
	var stats models.Stats
	decode(t, resp, &stats)
	assert.Equal(t, 2, stats.Orders.Total)
	assert.Equal(t, 2, stats.Orders.Today)
	assert.Equal(t, 1672, stats.Revenue.Total)
	assert.Equal(t, 2, stats.Orders.ByStatus[models.StatusConfirmed])
	assert.Equal(t, []models.PopularItem{{Name: "Pizza", Count: 4}}, stats.PopularItems)
	assert.Equal(t, 2, stats.Users.Total)

	// The reset needs explicit confirmation.
	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/orders", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/orders?confirm=true", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decode(t, resp, &orders)
	assert.Empty(t, orders)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/stats", admin, nil)
	decode(t, resp, &stats)
	assert.Zero(t, stats.Orders.Total)
	assert.Zero(t, stats.Revenue.Total)
	assert.Empty(t, stats.PopularItems)
	for _, status := range models.AllStatuses {
		assert.Zero(t, stats.Orders.ByStatus[status])
	}
}

func TestAdminOrderManagement(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")
	admin := login(t, a, adminEmail, adminPassword)

	first := placeOrder(t, a, customer)
	second := placeOrder(t, a, customer)

	_, err := a.Orders.TransitionStatus(first.ID, models.StatusCancelled)
	require.NoError(t, err)

	resp := doRequest(t, a, http.MethodGet, "/api/v1/admin/orders?status=cancelled", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decode(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/orders?status=lost", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/orders/"+second.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/orders/"+second.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/orders", admin, nil)
	decode(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
}

func TestAdminDeleteUserEndsSessions(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")
	admin := login(t, a, adminEmail, adminPassword)

	resp := doRequest(t, a, http.MethodGet, "/api/v1/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decode(t, resp, &users)
	require.Len(t, users, 2)
	var customerID string
	for _, u := range users {
		if u.Email == "sari@example.com" {
			customerID = u.ID
		}
	}
	require.NotEmpty(t, customerID)

	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/users/"+customerID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/orders", customer, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "sari@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/users/"+customerID, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFoodCatalog(t *testing.T) {
	a := setupApp(t)
	customer := register(t, a, "sari@example.com")
	admin := login(t, a, adminEmail, adminPassword)

	newFood := map[string]interface{}{
		"name":        "Rendang",
		"description": "Slow-cooked beef",
		"price":       450,
		"category":    "mains",
		"isVeg":       false,
	}

	resp := doRequest(t, a, http.MethodPost, "/api/v1/admin/foods", customer, newFood)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPost, "/api/v1/admin/foods", admin, newFood)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var food models.FoodItem
	decode(t, resp, &food)
	assert.NotEmpty(t, food.ID)
	assert.True(t, food.Available)
	assert.False(t, food.IsVeg)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/foods/"+food.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPatch, "/api/v1/admin/foods/"+food.ID, admin, map[string]interface{}{"available": false})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodGet, "/api/v1/foods", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var menu []models.FoodItem
	decode(t, resp, &menu)
	assert.Empty(t, menu)

	resp = doRequest(t, a, http.MethodDelete, "/api/v1/admin/foods/"+food.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/foods/"+food.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminUserManagement(t *testing.T) {
	a := setupApp(t)
	admin := login(t, a, adminEmail, adminPassword)

	resp := doRequest(t, a, http.MethodPost, "/api/v1/admin/users", admin, map[string]string{
		"firstName": "Rina",
		"lastName":  "Kurnia",
		"email":     "rina@example.com",
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.User
	decode(t, resp, &created)
	assert.Equal(t, models.RoleCustomer, created.Role)

	resp = doRequest(t, a, http.MethodPost, "/api/v1/admin/users", admin, map[string]string{
		"firstName": "Rina",
		"lastName":  "Kurnia",
		"email":     "RINA@example.com",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	rina := login(t, a, "rina@example.com", "password123")
	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/stats", rina, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Promotion reaches the live session.
	resp = doRequest(t, a, http.MethodPatch, "/api/v1/admin/users/"+created.ID, admin, map[string]string{"role": "admin", "phone": "0815"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.User
	decode(t, resp, &updated)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "0815", updated.Phone)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/admin/stats", rina, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPatch, "/api/v1/admin/users/"+created.ID, admin, map[string]string{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPatch, "/api/v1/admin/users/missing", admin, map[string]string{"firstName": "X"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Reset signs the user out and only the temporary password works.
	resp = doRequest(t, a, http.MethodPatch, "/api/v1/admin/users/"+created.ID+"/reset-password", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reset struct {
		Message      string `json:"message"`
		TempPassword string `json:"tempPassword"`
	}
	decode(t, resp, &reset)
	assert.Equal(t, "Password reset successfully", reset.Message)
	require.NotEmpty(t, reset.TempPassword)

	resp = doRequest(t, a, http.MethodGet, "/api/v1/auth/user", rina, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "rina@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	login(t, a, "rina@example.com", reset.TempPassword)
}
