// Package notify is the engine's notification bridge. Events are
// fire-and-forget: Publish never blocks the caller and a delivery failure
// is logged, never surfaced to the sender.
package notify

const (
	EventNewMessage     = "new_message"
	EventAdminJoined    = "admin_joined"
	EventAdminLeft      = "admin_left"
	EventThreadCreated  = "thread_created"
	EventThreadArchived = "thread_archived"
)

type Event struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	ThreadID int                    `json:"thread_id"`
	ActorID  int                    `json:"actor_id"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

type Notifier interface {
	Publish(event Event)
}
