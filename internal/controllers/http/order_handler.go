package http

import (
	"net/http"
	"strconv"

	"storefront-api/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	user, _ := currentUser(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), user.ID, items, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

func (h *Handler) MyOrders(c *gin.Context) {
	user, _ := currentUser(c)
	orders, err := h.orders.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Status and changedBy are required")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status, req.ChangedBy, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	user, _ := currentUser(c)
	orderID, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), orderID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully", "order": order})
}

func parseID(c *gin.Context, param string) (uint64, error) {
	return strconv.ParseUint(c.Param(param), 10, 64)
}
