package models

import "time"

// Notification represents a notification record fetched from the backend.
// Records are created server-side; the client only flips the read flag or
// deletes them.
type Notification struct {
	ID        int64          `json:"id"`
	Type      string         `json:"notification_type"`
	IsRead    bool           `json:"is_read"`
	Sender    *User          `json:"sender,omitempty"`
	Related   *RelatedObject `json:"related_object_data,omitempty"`
	TimeLabel string         `json:"time_label"`
	CreatedAt time.Time      `json:"created_at"`
}

// RelatedObject points at the entity a notification is about
type RelatedObject struct {
	Type  string `json:"type"`
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

// NotificationPage is a page of notification records
type NotificationPage struct {
	Results []Notification `json:"results"`
	Next    string         `json:"next,omitempty"`
}

// Notification type tags
const (
	NotifyTypeLike          = "like"
	NotifyTypeComment       = "comment"
	NotifyTypeFollow        = "follow"
	NotifyTypeTrending      = "trending"
	NotifyTypeGoalCompleted = "goal_completed"
)

// KnownNotifyType reports whether the given type tag is one the client renders
func KnownNotifyType(t string) bool {
	switch t {
	case NotifyTypeLike, NotifyTypeComment, NotifyTypeFollow, NotifyTypeTrending, NotifyTypeGoalCompleted:
		return true
	}
	return false
}

// NotifyMessage renders the human-readable message for a notification
func NotifyMessage(n *Notification) string {
	sender := "Someone"
	if n.Sender != nil && n.Sender.Username != "" {
		sender = "@" + n.Sender.Username
	}

	switch n.Type {
	case NotifyTypeLike:
		return sender + " liked your post"
	case NotifyTypeComment:
		return sender + " commented on your post"
	case NotifyTypeFollow:
		return sender + " followed you"
	case NotifyTypeTrending:
		if n.Related != nil && n.Related.Title != "" {
			return "Your post \"" + n.Related.Title + "\" is trending"
		}
		return "Your post is trending"
	case NotifyTypeGoalCompleted:
		return "You completed a goal"
	}
	return "unknown notification"
}
