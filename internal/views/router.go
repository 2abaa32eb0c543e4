package views

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/backend"
	"github.com/steemit/condenser/internal/cache"
	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/internal/session"
	"github.com/steemit/condenser/internal/store"
	"github.com/steemit/condenser/pkg/logging"
)

// Views composes the stores with per-page backend fetches. Each handler is
// the server-side equivalent of a page component: it fetches its own post
// list, seeds the stores, and renders with the overrides merged over the
// fetched values.
type Views struct {
	backend       *backend.Client
	session       *session.Manager
	likes         *store.LikeStore
	analytics     *store.AnalyticsStore
	notifications *store.NotificationStore
	follows       *store.FollowStore
	poller        *store.Poller
	bus           *store.Bus
	cache         *cache.Cache
	logger        *zap.Logger
}

// New creates the view layer over the given stores
func New(
	client *backend.Client,
	sess *session.Manager,
	likes *store.LikeStore,
	analytics *store.AnalyticsStore,
	notifications *store.NotificationStore,
	follows *store.FollowStore,
	poller *store.Poller,
	bus *store.Bus,
	redisCache *cache.Cache,
) *Views {
	return &Views{
		backend:       client,
		session:       sess,
		likes:         likes,
		analytics:     analytics,
		notifications: notifications,
		follows:       follows,
		poller:        poller,
		bus:           bus,
		cache:         redisCache,
		logger:        logging.WithComponent("views"),
	}
}

// SetupRoutes registers all routes on the engine
func (v *Views) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", v.healthHandler)
	engine.GET("/.well-known/healthcheck.json", v.healthHandler)

	engine.POST("/session", v.signIn)
	engine.DELETE("/session", v.signOut)

	engine.GET("/feed", v.getFeed)
	engine.GET("/posts/:id", v.getPost)
	engine.POST("/posts/:id/like", v.likePost)
	engine.POST("/posts/:id/save", v.savePost)
	engine.POST("/posts/:id/comments", v.createComment)

	engine.GET("/dashboard", v.getDashboard)
	engine.GET("/following", v.getFollowing)
	engine.POST("/users/:id/follow", v.followUser)

	engine.GET("/notifications", v.getNotifications)
	engine.GET("/notifications/count", v.getUnreadCount)
	engine.PUT("/notifications/:id/read", v.markNotificationRead)
	engine.POST("/notifications/read-all", v.markAllNotificationsRead)
	engine.DELETE("/notifications/:id", v.deleteNotification)
}

func (v *Views) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "condenser",
	})
}

// fail maps the error taxonomy to responses. By the time a handler gets
// here the stores have already snapped back to their pre-action state, so
// the client is never shown a mutation that silently failed to persist.
func (v *Views) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backend.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to continue"})
	case backend.IsRejected(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "The server rejected the request"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Network error, please try again"})
	}
}

// requireUser rejects the request when no user is signed in
func (v *Views) requireUser(c *gin.Context) bool {
	if !v.session.SignedIn() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to continue"})
		return false
	}
	return true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// merge lays the store overrides over a fetched post projection
func (v *Views) merge(p models.Post) models.Post {
	like := v.likes.Get(p.ID, p.IsLiked, p.LikeCount)
	p.IsLiked = like.IsLiked
	p.LikeCount = like.LikeCount

	stats := v.analytics.Get(p.ID, models.PostStats{
		Views:        p.ViewCount,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		IsLiked:      p.IsLiked,
		IsSaved:      p.IsSaved,
	})
	p.ViewCount = stats.Views
	p.CommentCount = stats.CommentCount
	p.IsSaved = stats.IsSaved

	return p
}

func (v *Views) mergeAll(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = v.merge(p)
	}
	return out
}
