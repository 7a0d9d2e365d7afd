package http

import (
	"errors"
	"net/http"

	"storefront-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	orders   *services.OrderService
	products *services.ProductService
	auth     *services.AuthService
	cart     *services.CartService
	reviews  *services.ReviewService
	content  *services.ContentService
	sales    *services.SalesService
	rdb      *redis.Client
}

func NewHandler(
	orders *services.OrderService,
	products *services.ProductService,
	auth *services.AuthService,
	cart *services.CartService,
	reviews *services.ReviewService,
	content *services.ContentService,
	sales *services.SalesService,
	rdb *redis.Client,
) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		auth:     auth,
		cart:     cart,
		reviews:  reviews,
		content:  content,
		sales:    sales,
		rdb:      rdb,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)
	auth.GET("/me", h.RequireAuth, h.Me)

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/featured", h.FeaturedProducts)
	products.GET("/:id", h.GetProduct)
	products.GET("/:id/reviews", h.ListReviews)
	products.POST("/:id/reviews", h.RequireAuth, h.CreateReview)
	products.POST("", h.RequireAuth, h.RequireAdmin, h.CreateProduct)
	products.PATCH("/:id", h.RequireAuth, h.RequireAdmin, h.UpdateProduct)
	products.PATCH("/:id/toggle-featured", h.RequireAuth, h.RequireAdmin, h.ToggleFeatured)
	products.DELETE("/:id", h.RequireAuth, h.RequireAdmin, h.DeleteProduct)

	cart := api.Group("/cart", h.RequireAuth)
	cart.GET("", h.GetCart)
	cart.PUT("", h.ReplaceCart)

	orders := api.Group("/orders", h.RequireAuth)
	orders.POST("", h.CreateOrder)
	orders.GET("", h.RequireAdmin, h.ListOrders)
	orders.GET("/my-orders", h.MyOrders)
	orders.GET("/stats", h.RequireAdmin, h.OrderStats)
	orders.PATCH("/:id", h.RequireAdmin, h.UpdateOrderStatus)
	orders.PATCH("/:id/cancel", h.CancelOrder)

	cms := api.Group("/cms")
	cms.GET("/:slug", h.GetPage)
	cms.PUT("/:slug", h.RequireAuth, h.RequireAdmin, h.SavePage)

	slides := api.Group("/hero-slides")
	slides.GET("", h.ListSlides)
	slides.POST("", h.RequireAuth, h.RequireAdmin, h.CreateSlide)
	slides.PATCH("/:id", h.RequireAuth, h.RequireAdmin, h.UpdateSlide)
	slides.DELETE("/:id", h.RequireAuth, h.RequireAdmin, h.DeleteSlide)

	api.GET("/sales/analytics", h.RequireAuth, h.RequireAdmin, h.SalesAnalytics)
}

// fail writes the standard error envelope. extras carry the conflict details
// (available stock, allowed transitions) clients react to.
func fail(c *gin.Context, status int, message string, extras ...gin.H) {
	body := gin.H{"success": false, "message": message}
	for _, extra := range extras {
		for k, v := range extra {
			body[k] = v
		}
	}
	c.JSON(status, body)
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var validation services.ValidationError
	var notFound services.ProductNotFoundError
	var stock services.InsufficientStockError
	var transition services.InvalidTransitionError

	switch {
	case errors.As(err, &validation):
		fail(c, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		fail(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &stock):
		fail(c, http.StatusConflict, stock.Error(), gin.H{
			"available": stock.Available,
			"requested": stock.Requested,
		})
	case errors.As(err, &transition):
		fail(c, http.StatusConflict, transition.Error(), gin.H{
			"allowedTransitions": transition.Allowed,
		})
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPageNotFound),
		errors.Is(err, services.ErrSlideNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotOrderOwner),
		errors.Is(err, services.ErrAdminCart):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrWrongCredential):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrResetExpired),
		errors.Is(err, services.ErrFeaturedLimit):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, "Server error")
	}
}
