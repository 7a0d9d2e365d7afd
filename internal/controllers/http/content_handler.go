package http

import (
	"net/http"
	"strconv"

	"storefront-api/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListReviews(c *gin.Context) {
	productID, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	reviews, err := h.reviews.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
}

func (h *Handler) CreateReview(c *gin.Context) {
	user, _ := currentUser(c)
	productID, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Rating between 1 and 5 is required")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), productID, user.ID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
}

func (h *Handler) GetPage(c *gin.Context) {
	page, err := h.content.GetPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

func (h *Handler) SavePage(c *gin.Context) {
	user, _ := currentUser(c)

	var req SavePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Page content is required")
		return
	}

	page, err := h.content.SavePage(c.Request.Context(), c.Param("slug"), req.Title, req.Content, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

func (h *Handler) ListSlides(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	slides, err := h.content.ListSlides(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": slides})
}

func (h *Handler) CreateSlide(c *gin.Context) {
	var req HeroSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Slide image is required")
		return
	}

	slide := slideFromRequest(req)
	created, err := h.content.CreateSlide(c.Request.Context(), slide)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

func (h *Handler) UpdateSlide(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid slide id")
		return
	}

	var req HeroSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Slide image is required")
		return
	}

	slide := slideFromRequest(req)
	slide.ID = id
	updated, err := h.content.UpdateSlide(c.Request.Context(), slide)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func (h *Handler) DeleteSlide(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid slide id")
		return
	}
	if err := h.content.DeleteSlide(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Slide deleted"})
}

func (h *Handler) SalesAnalytics(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	analytics, err := h.sales.Analytics(c.Request.Context(), c.Query("period"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "period": analytics.Period, "analytics": analytics})
}

func slideFromRequest(req HeroSlideRequest) *domain.HeroSlide {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &domain.HeroSlide{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Image:     req.Image,
		Link:      req.Link,
		SortOrder: req.SortOrder,
		Active:    active,
	}
}
