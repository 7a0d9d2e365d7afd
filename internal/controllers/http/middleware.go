package http

import (
	"net/http"
	"strings"

	"storefront-api/internal/domain"

	"github.com/gin-gonic/gin"
)

const authUserKey = "authUser"

// AuthUser is the request-scoped identity set by RequireAuth.
type AuthUser struct {
	ID    uint64
	Role  domain.Role
	Email string
}

func (u AuthUser) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// RequireAuth accepts the session either as a bearer token or as the
// httpOnly jwt cookie, and confirms the user behind it still exists.
func (h *Handler) RequireAuth(c *gin.Context) {
	var token string
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	} else if cookie, err := c.Cookie("jwt"); err == nil {
		token = cookie
	}
	if token == "" {
		fail(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		c.Abort()
		return
	}

	claims, err := h.auth.ParseToken(token)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Unauthorized or invalid token")
		c.Abort()
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "The user belonging to this token no longer exists.")
		c.Abort()
		return
	}

	c.Set(authUserKey, AuthUser{ID: user.ID, Role: user.Role, Email: user.Email})
	c.Next()
}

func (h *Handler) RequireAdmin(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok || !user.IsAdmin() {
		fail(c, http.StatusForbidden, "Admin access required")
		c.Abort()
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) (AuthUser, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return AuthUser{}, false
	}
	user, ok := v.(AuthUser)
	return user, ok
}
