package views

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/models"
)

type signInRequest struct {
	Token string      `json:"token" binding:"required"`
	User  models.User `json:"user"`
}

// signIn adopts a credential and starts the background poller. An identity
// change fires the registered reset hooks before the new account's state is
// built, so nothing optimistic leaks across accounts.
func (v *Views) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	if err := v.session.SignIn(req.Token, req.User); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Restart the poller so the first tick belongs to the new identity
	v.poller.Stop()
	v.poller.Start()

	// Prime the follow set; a failure here only delays the first render
	if err := v.follows.Load(c.Request.Context()); err != nil {
		v.logger.Warn("Failed to prime following list", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"user": v.session.CurrentUser()})
}

// signOut clears the session, stops the poller, and lets the reset hooks
// drop every store
func (v *Views) signOut(c *gin.Context) {
	v.poller.Stop()
	v.session.SignOut()
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}
