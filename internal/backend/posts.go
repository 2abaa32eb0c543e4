package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/steemit/condenser/internal/models"
)

// LikeResult is the authoritative like state returned by the backend
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// SaveResult is the backend response to a save toggle
type SaveResult struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

// FollowResult is the backend response to a follow toggle
type FollowResult struct {
	Following bool `json:"following"`
}

// ListPosts fetches a page of posts for the feed
func (c *Client) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	ctx, end := span(ctx, "backend.list_posts")
	defer end()

	var posts []models.Post
	path := fmt.Sprintf("/posts?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, &posts, false); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost fetches a single post with its comments. The backend counts the
// view during this fetch; the client-side view increment is cosmetic only.
func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	ctx, end := span(ctx, "backend.get_post")
	defer end()

	var post models.Post
	if err := c.get(ctx, fmt.Sprintf("/posts/%d", id), &post, false); err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// ListUserPosts fetches the signed-in user's own posts for the dashboard
func (c *Client) ListUserPosts(ctx context.Context) ([]models.Post, error) {
	ctx, end := span(ctx, "backend.list_user_posts")
	defer end()

	var posts []models.Post
	if err := c.get(ctx, "/users/posts", &posts, true); err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	return posts, nil
}

// ListFollowingPosts fetches the feed of posts by followed authors
func (c *Client) ListFollowingPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	ctx, end := span(ctx, "backend.list_following_posts")
	defer end()

	var posts []models.Post
	path := fmt.Sprintf("/posts/following?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, &posts, true); err != nil {
		return nil, fmt.Errorf("failed to list following posts: %w", err)
	}
	return posts, nil
}

// ListFollowing fetches the users the signed-in user follows
func (c *Client) ListFollowing(ctx context.Context) ([]models.User, error) {
	ctx, end := span(ctx, "backend.list_following")
	defer end()

	var users []models.User
	if err := c.get(ctx, "/users/following", &users, true); err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

// GetUserStats fetches audience counters for the signed-in user
func (c *Client) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	ctx, end := span(ctx, "backend.get_user_stats")
	defer end()

	var stats models.UserStats
	if err := c.get(ctx, "/users/stats", &stats, true); err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &stats, nil
}

// LikePost toggles the like on a post and returns the server's authoritative
// state, which may differ from the optimistic guess under concurrent likes.
func (c *Client) LikePost(ctx context.Context, id int64) (*LikeResult, error) {
	ctx, end := span(ctx, "backend.like_post")
	defer end()

	var result LikeResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", id), nil, &result, true); err != nil {
		return nil, fmt.Errorf("failed to like post %d: %w", id, err)
	}
	return &result, nil
}

// SavePost toggles the saved flag on a post
func (c *Client) SavePost(ctx context.Context, id int64) (*SaveResult, error) {
	ctx, end := span(ctx, "backend.save_post")
	defer end()

	var result SaveResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/save", id), nil, &result, true); err != nil {
		return nil, fmt.Errorf("failed to save post %d: %w", id, err)
	}
	return &result, nil
}

// CreateComment posts a comment and returns the created record
func (c *Client) CreateComment(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	ctx, end := span(ctx, "backend.create_comment")
	defer end()

	body := map[string]string{"content": content}
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), body, &comment, true); err != nil {
		return nil, fmt.Errorf("failed to create comment on post %d: %w", postID, err)
	}
	return &comment, nil
}

// FollowUser toggles following a user
func (c *Client) FollowUser(ctx context.Context, userID int64) (*FollowResult, error) {
	ctx, end := span(ctx, "backend.follow_user")
	defer end()

	var result FollowResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/follow", userID), nil, &result, true); err != nil {
		return nil, fmt.Errorf("failed to follow user %d: %w", userID, err)
	}
	return &result, nil
}
