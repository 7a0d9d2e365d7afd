package http

import (
	"net/http"
	"os"

	"storefront-api/internal/domain"

	"github.com/gin-gonic/gin"
)

const jwtCookieMaxAge = 7 * 24 * 60 * 60

func setSessionCookie(c *gin.Context, token string) {
	secure := os.Getenv("GIN_MODE") == "release"
	c.SetCookie("jwt", token, jwtCookieMaxAge, "/", "", secure, true)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.PasswordConfirm, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "data": gin.H{"user": user}})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "data": gin.H{"user": user}})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("jwt", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *Handler) Me(c *gin.Context) {
	authUser, _ := currentUser(c)
	user, err := h.auth.CurrentUser(c.Request.Context(), authUser.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user}})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token sent to email if the account exists"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Token and new password are required")
		return
	}

	user, token, err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password, req.PasswordConfirm)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "data": gin.H{"user": user}})
}
