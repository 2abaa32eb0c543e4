package models

// User is the client-side projection of a platform user
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsPremium bool   `json:"is_premium,omitempty"`
}

// UserStats carries audience counters served by the backend stats endpoint
type UserStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
