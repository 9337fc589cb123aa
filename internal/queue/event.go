// Package queue defines the activity events exchanged over the message
// broker and the background consumer that records them.
package queue

// QueueName is the durable queue carrying all activity events.
const QueueName = "activity.events"

// Event kinds.
const (
	KindUserRegistered = "user.registered"
	KindPostCreated    = "post.created"
)

// UserRegisteredEvent is published after a successful registration.
type UserRegisteredEvent struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
	UserID  uint64 `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	At      string `json:"at"`
}

// PostCreatedEvent is published after a post lands on the feed. It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type PostCreatedEvent struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
	PostID  uint64 `json:"post_id"`
	UserID  uint64 `json:"user_id"`
	Name    string `json:"name"`
	At      string `json:"at"`
}
