package models

import "time"

// Post is the client-side projection of a post as served by the backend.
// It is never owned locally: it is fetched per page and patched by
// optimistic overrides from the stores.
type Post struct {
	ID           int64     `json:"id"`
	Author       User      `json:"author"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LikeCount    int       `json:"like_count"`
	IsLiked      bool      `json:"is_liked"`
	CommentCount int       `json:"comment_count"`
	IsSaved      bool      `json:"is_saved"`
	ViewCount    int       `json:"view_count"`
	CreatedAt    time.Time `json:"created_at"`

	Comments []Comment `json:"comments,omitempty"`
}

// Comment is a comment on a post
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	Pending   bool      `json:"pending,omitempty"`
}

// LikeState is the per-post like override held by the like store
type LikeState struct {
	IsLiked   bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// PostStats is the per-post aggregate tracked by the analytics store
type PostStats struct {
	Views        int  `json:"views"`
	LikeCount    int  `json:"like_count"`
	CommentCount int  `json:"comment_count"`
	IsLiked      bool `json:"is_liked"`
	IsSaved      bool `json:"is_saved"`
}

// CreatorStats is the derived per-user rollup over all known post stats
type CreatorStats struct {
	TotalPosts    int     `json:"total_posts"`
	TotalViews    int     `json:"total_views"`
	TotalLikes    int     `json:"total_likes"`
	TotalComments int     `json:"total_comments"`
	AvgLikes      float64 `json:"avg_likes"`
	AvgComments   float64 `json:"avg_comments"`
	AvgViews      float64 `json:"avg_views"`
	Followers     int     `json:"followers"`
	Following     int     `json:"following"`
}
