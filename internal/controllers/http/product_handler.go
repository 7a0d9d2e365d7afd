package http

import (
	"net/http"
	"strconv"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	product.ID = 0

	created, err := h.products.Create(c.Request.Context(), &product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created", "product": created})
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		FeaturedOnly: c.Query("featured") == "true",
		ActiveOnly:   c.Query("status") == "true",
		Category:     c.Query("category"),
	}
	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *Handler) FeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	products, err := h.products.Featured(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// UpdateProduct only ever binds the allow-listed patch struct; unknown keys
// in the request body are dropped, never persisted.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var upd domain.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

func (h *Handler) ToggleFeatured(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Product removed from featured"
	if product.Featured {
		message = "Product added to featured"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "product": product})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func (h *Handler) GetCart(c *gin.Context) {
	user, _ := currentUser(c)
	items, err := h.cart.Get(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": items, "userId": user.ID})
}

func (h *Handler) ReplaceCart(c *gin.Context) {
	user, _ := currentUser(c)

	var req ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Cart must be an array of items")
		return
	}

	items := make([]domain.CartItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		items = append(items, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	cart, err := h.cart.Replace(c.Request.Context(), user.ID, user.Role, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}
