package httpapi

import (
	"errors"
	"net/http"

	"admin-gateway/internal/auth"
	"admin-gateway/internal/credentials"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the admin credentials, sets the token cookie and returns the token.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "invalid json")
		return
	}
	sess, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			abortMessage(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		_ = c.Error(err)
		abortMessage(c, http.StatusInternalServerError, "token issuance failed")
		return
	}
	credentials.FromGin(c).SetToken(sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{"token": sess.Token})
}

// Logout clears both cookies and revokes the session. Safe without a session.
func (h Handlers) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), credentials.FromGin(c)); err != nil {
		_ = c.Error(err)
		abortMessage(c, http.StatusInternalServerError, "logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RouteGuard answers the navigation decision for ?path=.
func (h Handlers) RouteGuard(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		abortMessage(c, http.StatusBadRequest, "path is required")
		return
	}
	valid := h.Auth.Valid(c.Request.Context(), credentials.FromGin(c))
	c.JSON(http.StatusOK, auth.Guard(path, valid))
}
