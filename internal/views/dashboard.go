package views

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getDashboard renders the creator dashboard: the user's own posts plus the
// rollup derived from them. Refresh pulls audience counters and reseeds the
// per-post aggregates before the rollup is read, so a like received while
// the user was elsewhere shows up here without a restart.
func (v *Views) getDashboard(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}

	v.analytics.Refresh(c.Request.Context())

	posts, err := v.backend.ListUserPosts(c.Request.Context())
	if err != nil {
		v.fail(c, err)
		return
	}
	v.likes.Seed(posts)

	c.JSON(http.StatusOK, gin.H{
		"posts": v.mergeAll(posts),
		"stats": v.analytics.Rollup(),
	})
}
