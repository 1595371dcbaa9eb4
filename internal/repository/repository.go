package repository

import (
	"context"
	"time"

	"SwapMarket/server/internal/models"
)

// ThreadRepository owns thread metadata: title, activity time, archival
// and the cached external match reference. No other component writes
// these fields.
type ThreadRepository interface {
	Create(ctx context.Context, title *string, createdBy int, now time.Time) (*models.Thread, error)
	GetByID(ctx context.Context, threadID int) (*models.Thread, error)
	ListByUser(ctx context.Context, userID int) ([]models.Thread, error)
	// FindTwoParty returns an existing non-archived thread whose roster is
	// exactly {userA, userB}, or ErrNotFound.
	FindTwoParty(ctx context.Context, userA, userB int) (*models.Thread, error)
	// BumpActivity advances last_activity_at; it never moves backwards.
	BumpActivity(ctx context.Context, threadID int, at time.Time) error
	SetArchived(ctx context.Context, threadID int, at time.Time) error
	SetMatchRef(ctx context.Context, threadID int, ref models.MatchRef) error
}

// ParticipantRepository owns the membership roster. (thread_id, user_id)
// uniqueness is enforced here and nowhere else.
type ParticipantRepository interface {
	// Add is idempotent. It reports true when a roster row was inserted or
	// an existing ordinary row was upgraded to admin; re-adding an existing
	// participant reports false and never resets joined_at.
	Add(ctx context.Context, threadID, userID int, asAdmin bool, at time.Time) (bool, error)
	// Remove is idempotent; it reports whether a row was actually removed.
	Remove(ctx context.Context, threadID, userID int) (bool, error)
	IsParticipant(ctx context.Context, threadID, userID int) (bool, error)
	IsThreadAdmin(ctx context.Context, threadID, userID int) (bool, error)
	HasAdmin(ctx context.Context, threadID int) (bool, error)
	ListByThread(ctx context.Context, threadID int) ([]models.Participant, error)
}

// MessageRepository owns message content and read_by growth. Messages are
// append-only and immutable except for their read set.
type MessageRepository interface {
	// Append inserts the message and fills in its assigned id.
	Append(ctx context.Context, msg *models.Message) error
	// ListByThread returns the full log ordered by (sent_at, id) ascending.
	ListByThread(ctx context.Context, threadID int) ([]models.Message, error)
	LastByThread(ctx context.Context, threadID int) (*models.Message, error)
	// MarkThreadRead adds readerID to the read set of every message in the
	// thread that does not already contain it. Each message's update is
	// atomic and idempotent; the call as a whole is not transactional.
	MarkThreadRead(ctx context.Context, threadID, readerID int) error
	// UnreadCount derives the count live from read_by sets.
	UnreadCount(ctx context.Context, threadID, readerID int) (int, error)
}

// UserRepository is the read side of the marketplace user directory.
type UserRepository interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
	GetByIDs(ctx context.Context, userIDs []int) ([]models.User, error)
}
