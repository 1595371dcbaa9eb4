package models

import (
	"sort"
	"time"
)

// MessageKind distinguishes the three message variants so rendering and
// notification code can switch exhaustively instead of juggling boolean
// flags.
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindAdmin  MessageKind = "admin"
	KindSystem MessageKind = "system"
)

type Message struct {
	ID       int         `json:"id" db:"id"`
	ThreadID int         `json:"thread_id" db:"thread_id"`
	// SenderID is nil for system messages, which have no human sender.
	SenderID *int        `json:"sender_id,omitempty" db:"sender_id"`
	Kind     MessageKind `json:"kind" db:"kind"`
	Content  string      `json:"content" db:"content"`
	SentAt   time.Time   `json:"sent_at" db:"sent_at"`
	// ReadBy is a grow-only set of reader ids; it contains the sender
	// (or the acting admin, for system messages) from creation.
	ReadBy []int `json:"read_by" db:"read_by"`
}

func (m *Message) IsAdminMessage() bool {
	return m.Kind == KindAdmin
}

func (m *Message) IsSystemMessage() bool {
	return m.Kind == KindSystem
}

func (m *Message) ReadByUser(userID int) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// SortMessages orders messages by (sent_at, id) ascending, the log's
// canonical order.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].SentAt.Equal(msgs[j].SentAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].SentAt.Before(msgs[j].SentAt)
	})
}
