package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/mocks"
	"storefront-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type testServer struct {
	router *gin.Engine
	store  *mocks.MemStore
	auth   *services.AuthService
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	store := mocks.NewMemStore()
	auth := services.NewAuthService(store, nil, "test-secret", time.Hour, "")
	handler := NewHandler(
		services.NewOrderService(store, nil),
		services.NewProductService(store),
		auth,
		services.NewCartService(store),
		services.NewReviewService(store),
		services.NewContentService(store),
		services.NewSalesService(store),
		nil,
	)
	router := gin.New()
	handler.RegisterRoutes(router)
	return &testServer{router: router, store: store, auth: auth}
}

func (s *testServer) registerUser(t *testing.T, email string, role domain.Role) (uint64, string) {
	t.Helper()
	user, token, err := s.auth.Register(context.Background(), "Test User", email, "supersecret", "supersecret", role)
	assert.NoError(t, err)
	return user.ID, token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func orderPayload(productID uint64, qty int64) gin.H {
	return gin.H{
		"items": []gin.H{{"product": productID, "quantity": qty}},
		"shippingAddress": gin.H{
			"name":   "Jordan Tester",
			"email":  "jordan@example.com",
			"street": "1 Main St",
			"city":   "Springfield",
			"zip":    "12345",
		},
		"paymentMethod": "cod",
	}
}

func TestOrderEndpoints_CreateOrder(t *testing.T) {
	srv := newTestServer()
	_, token := srv.registerUser(t, "buyer@example.com", domain.RoleUser)
	productID := srv.store.SeedProduct(domain.Product{Name: "Widget", Price: 10, Quantity: 5, Status: true})

	w := srv.do("POST", "/api/orders", token, orderPayload(productID, 2))
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			ID     uint64             `json:"id"`
			Total  float64            `json:"total"`
			Status domain.OrderStatus `json:"status"`
		} `json:"order"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 20.00, resp.Order.Total)
	assert.Equal(t, domain.StatusPending, resp.Order.Status)
	assert.Equal(t, int64(3), srv.store.Product(productID).Quantity)
}

func TestOrderEndpoints_CreateOrder_InsufficientStock(t *testing.T) {
	srv := newTestServer()
	_, token := srv.registerUser(t, "buyer@example.com", domain.RoleUser)
	productID := srv.store.SeedProduct(domain.Product{Name: "Widget", Price: 10, Quantity: 1, Status: true})

	w := srv.do("POST", "/api/orders", token, orderPayload(productID, 3))
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Available int64  `json:"available"`
		Requested int64  `json:"requested"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "not enough stock for Widget")
	assert.Equal(t, int64(1), resp.Available)
	assert.Equal(t, int64(3), resp.Requested)
}

func TestOrderEndpoints_CreateOrder_RequiresAuth(t *testing.T) {
	srv := newTestServer()
	productID := srv.store.SeedProduct(domain.Product{Name: "Widget", Price: 10, Quantity: 5, Status: true})

	w := srv.do("POST", "/api/orders", "", orderPayload(productID, 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do("POST", "/api/orders", "garbage-token", orderPayload(productID, 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderEndpoints_UpdateStatus(t *testing.T) {
	srv := newTestServer()
	userID, _ := srv.registerUser(t, "buyer@example.com", domain.RoleUser)
	adminID, adminToken := srv.registerUser(t, "admin@example.com", domain.RoleAdmin)
	orderID := srv.store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending})

	w := srv.do("PATCH", fmt.Sprintf("/api/orders/%d", orderID), adminToken,
		gin.H{"status": "processing", "changedBy": adminID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusProcessing, srv.store.Order(orderID).Status)

	// Regressions are rejected with the allowed set in the body.
	w = srv.do("PATCH", fmt.Sprintf("/api/orders/%d", orderID), adminToken,
		gin.H{"status": "pending", "changedBy": adminID})
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Success            bool                 `json:"success"`
		AllowedTransitions []domain.OrderStatus `json:"allowedTransitions"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled},
		resp.AllowedTransitions)
}

func TestOrderEndpoints_UpdateStatus_AdminOnly(t *testing.T) {
	srv := newTestServer()
	userID, userToken := srv.registerUser(t, "buyer@example.com", domain.RoleUser)
	orderID := srv.store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending})

	w := srv.do("PATCH", fmt.Sprintf("/api/orders/%d", orderID), userToken,
		gin.H{"status": "processing", "changedBy": userID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, domain.StatusPending, srv.store.Order(orderID).Status)
}

func TestOrderEndpoints_CancelOrder(t *testing.T) {
	srv := newTestServer()
	ownerID, ownerToken := srv.registerUser(t, "owner@example.com", domain.RoleUser)
	_, strangerToken := srv.registerUser(t, "stranger@example.com", domain.RoleUser)
	orderID := srv.store.SeedOrder(domain.Order{UserID: ownerID, Status: domain.StatusPending})

	w := srv.do("PATCH", fmt.Sprintf("/api/orders/%d/cancel", orderID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, domain.StatusPending, srv.store.Order(orderID).Status)

	w = srv.do("PATCH", fmt.Sprintf("/api/orders/%d/cancel", orderID), ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusCancelled, srv.store.Order(orderID).Status)
}

func TestOrderEndpoints_MyOrders(t *testing.T) {
	srv := newTestServer()
	userID, token := srv.registerUser(t, "buyer@example.com", domain.RoleUser)
	otherID, _ := srv.registerUser(t, "other@example.com", domain.RoleUser)
	srv.store.SeedOrder(domain.Order{UserID: userID, Status: domain.StatusPending})
	srv.store.SeedOrder(domain.Order{UserID: otherID, Status: domain.StatusPending})

	w := srv.do("GET", "/api/orders/my-orders", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Orders  []domain.Order `json:"orders"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, userID, resp.Orders[0].UserID)
}

func TestOrderEndpoints_ListOrdersAndStats_AdminOnly(t *testing.T) {
	srv := newTestServer()
	_, userToken := srv.registerUser(t, "buyer@example.com", domain.RoleUser)
	_, adminToken := srv.registerUser(t, "admin@example.com", domain.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, srv.do("GET", "/api/orders", userToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, srv.do("GET", "/api/orders/stats", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, srv.do("GET", "/api/orders", adminToken, nil).Code)
	assert.Equal(t, http.StatusOK, srv.do("GET", "/api/orders/stats", adminToken, nil).Code)
}
