package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePostCreated = "post.created"
	TypePostUpdated = "post.updated"
	TypePostDeleted = "post.deleted"
)

type PostPayload struct {
	PostID uuid.UUID `json:"post_id"`
	UserID uuid.UUID `json:"user_id"`
	Slug   string    `json:"slug"`
	Title  string    `json:"title"`
}

// PostEvent describes one change to a post's lifecycle.
type PostEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   PostPayload `json:"payload"`
}

func NewPostEvent(eventType string, postID, userID uuid.UUID, slug, title string) PostEvent {
	return PostEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload: PostPayload{
			PostID: postID,
			UserID: userID,
			Slug:   slug,
			Title:  title,
		},
	}
}
