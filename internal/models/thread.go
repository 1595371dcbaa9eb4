package models

import (
	"time"
)

type Thread struct {
	ID             int       `json:"id" db:"id"`
	Title          *string   `json:"title,omitempty" db:"title"`
	CreatedBy      int       `json:"created_by" db:"created_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at" db:"last_activity_at"`
	Archived       bool      `json:"archived" db:"archived"`
	MatchRef       *MatchRef `json:"match_ref,omitempty"`
}

// MatchRef is a weak reference to an externally owned swap proposal.
// Only the id plus a cached snapshot of title/status is stored; the
// matching workflow owns the record's lifecycle and may mutate or delete
// it independently. The cache is refreshed via LinkExternalMatch.
type MatchRef struct {
	MatchID string `json:"match_id" db:"match_id"`
	Title   string `json:"title" db:"match_title"`
	Status  string `json:"status" db:"match_status"`
}

type Participant struct {
	ThreadID int       `json:"thread_id" db:"thread_id"`
	UserID   int       `json:"user_id" db:"user_id"`
	IsAdmin  bool      `json:"is_admin" db:"is_admin"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// ThreadSummary is the listing-view projection of a thread. UnreadCount
// and NeedsAdmin are derived from primary records at assembly time,
// never stored.
type ThreadSummary struct {
	Thread
	DisplayTitle       string     `json:"display_title"`
	IsGroup            bool       `json:"is_group"`
	LastMessagePreview *string    `json:"last_message_preview,omitempty"`
	LastMessageSentAt  *time.Time `json:"last_message_sent_at,omitempty"`
	UnreadCount        int        `json:"unread_count"`
	ParticipantNames   []string   `json:"participant_names"`
	NeedsAdmin         bool       `json:"needs_admin"`
}

// ThreadFilter values recognized by ListThreads.
const (
	FilterActive     = "active"
	FilterNeedsAdmin = "needs_admin"
	FilterHasAdmin   = "has_admin"
	FilterUnreadOnly = "unread_only"
)
