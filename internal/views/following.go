package views

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steemit/condenser/internal/models"
)

type followedPost struct {
	models.Post
	IsFollowingAuthor bool `json:"is_following_author"`
}

// getFollowing renders the feed of posts by followed authors, each annotated
// with the current follow state so an unfollow elsewhere is reflected here
// without a refetch.
func (v *Views) getFollowing(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}
	limit, offset := pagination(c)

	if err := v.follows.Load(c.Request.Context()); err != nil {
		v.fail(c, err)
		return
	}

	posts, err := v.backend.ListFollowingPosts(c.Request.Context(), limit, offset)
	if err != nil {
		v.fail(c, err)
		return
	}
	v.likes.Seed(posts)

	out := make([]followedPost, len(posts))
	for i, p := range posts {
		out[i] = followedPost{
			Post:              v.merge(p),
			IsFollowingAuthor: v.follows.IsFollowing(p.Author.ID),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":           out,
		"following_count": v.follows.Count(),
	})
}

// followUser toggles following a user and reports the reconciled state
func (v *Views) followUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	following, err := v.follows.Toggle(c.Request.Context(), id)
	if err != nil {
		v.fail(c, err)
		return
	}

	v.analytics.SetAudience(v.analytics.Rollup().Followers, v.follows.Count())

	c.JSON(http.StatusOK, gin.H{"following": following})
}
