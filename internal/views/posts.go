package views

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/cache"
	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/internal/store"
)

const feedCacheTTL = 30 * time.Second

// getFeed renders the public feed. The fetched page seeds the stores, then
// the response is rendered with overrides merged back over it, so a like
// toggled on another page survives navigation here.
func (v *Views) getFeed(c *gin.Context) {
	limit, offset := pagination(c)

	// Anonymous pages carry no personalized flags, so they are safe to
	// serve from the projection cache.
	cacheKey := fmt.Sprintf("condenser:feed:%d:%d", limit, offset)
	if !v.session.SignedIn() {
		var posts []models.Post
		if err := v.cache.GetJSON(cacheKey, &posts); err == nil {
			v.likes.Seed(posts)
			c.JSON(http.StatusOK, gin.H{"posts": v.mergeAll(posts)})
			return
		} else if err != cache.ErrCacheDisabled && !cache.IsMiss(err) {
			v.logger.Warn("Feed cache read failed", zap.Error(err))
		}
	}

	posts, err := v.backend.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		v.fail(c, err)
		return
	}

	if !v.session.SignedIn() {
		if err := v.cache.SetJSON(cacheKey, posts, feedCacheTTL); err != nil && err != cache.ErrCacheDisabled {
			v.logger.Warn("Feed cache write failed", zap.Error(err))
		}
	}

	v.likes.Seed(posts)
	c.JSON(http.StatusOK, gin.H{"posts": v.mergeAll(posts)})
}

// getPost renders a post detail page. The detail fetch counts the view on
// the backend; the local increment keeps the on-screen number moving without
// waiting for the next fetch.
func (v *Views) getPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	post, err := v.backend.GetPost(c.Request.Context(), id)
	if err != nil {
		v.fail(c, err)
		return
	}

	v.likes.Seed([]models.Post{*post})
	v.analytics.IncrementViews(id)

	c.JSON(http.StatusOK, gin.H{"post": v.merge(*post)})
}

type likeRequest struct {
	IsLiked   bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// likePost toggles the like on a post. The request body carries the state
// the client is currently displaying; the store uses it as the baseline for
// the optimistic flip and the revert snapshot.
func (v *Views) likePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// No body means the client trusts whatever the store holds
		current := v.likes.Get(id, false, 0)
		req.IsLiked = current.IsLiked
		req.LikeCount = current.LikeCount
	}

	state, err := v.likes.Toggle(c.Request.Context(), id, req.IsLiked, req.LikeCount)
	if err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_liked":   state.IsLiked,
		"like_count": state.LikeCount,
	})
}

type saveRequest struct {
	IsSaved bool `json:"is_saved"`
}

// savePost toggles the saved flag with the same optimistic shape as a like:
// flip immediately, reconcile with the server's answer, snap back on failure.
func (v *Views) savePost(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.IsSaved = v.analytics.Get(id, models.PostStats{}).IsSaved
	}
	snapshot := req.IsSaved

	var saved bool
	var message string
	err := store.RunMutation(c.Request.Context(), store.Mutation{
		Apply: func() {
			v.analytics.ApplySaved(id, !snapshot)
			saved = !snapshot
		},
		Commit: func(ctx context.Context) error {
			result, err := v.backend.SavePost(ctx, id)
			if err != nil {
				return err
			}
			v.analytics.ApplySaved(id, result.Saved)
			saved = result.Saved
			message = result.Message
			return nil
		},
		Revert: func() {
			v.analytics.ApplySaved(id, snapshot)
		},
	})
	if err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved, "message": message})
}

type commentRequest struct {
	Content      string `json:"content" binding:"required"`
	CommentCount int    `json:"comment_count"`
}

// createComment posts a comment with an optimistic count bump. A pending
// placeholder stands in for the record until the backend confirms; on success
// the placeholder is swapped for the server's comment, on failure it is
// dropped and the captured count restored.
func (v *Views) createComment(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}
	if req.CommentCount == 0 {
		req.CommentCount = v.analytics.Get(id, models.PostStats{}).CommentCount
	}
	before := req.CommentCount

	placeholder := models.Comment{
		ID:        -time.Now().UnixNano(),
		Content:   req.Content,
		CreatedAt: time.Now(),
		Pending:   true,
	}
	if u := v.session.CurrentUser(); u != nil {
		placeholder.Author = *u
	}

	comment := placeholder
	err := store.RunMutation(c.Request.Context(), store.Mutation{
		Apply: func() {
			v.bus.PublishComment(store.CommentEvent{PostID: id, CommentCount: before + 1})
		},
		Commit: func(ctx context.Context) error {
			created, err := v.backend.CreateComment(ctx, id, req.Content)
			if err != nil {
				return err
			}
			comment = *created
			return nil
		},
		Revert: func() {
			v.bus.PublishComment(store.CommentEvent{PostID: id, CommentCount: before})
		},
	})
	if err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment":       comment,
		"comment_count": before + 1,
	})
}
