package services

import (
	"context"
	"log"
	"time"

	"SwapMarket/server/internal/repository"

	"github.com/sethvargo/go-retry"
)

// ReadService tracks which readers have seen which messages. Unread
// counts are always derived from the message log's read sets, never
// cached, so they cannot drift under concurrent writers.
type ReadService interface {
	MarkThreadRead(ctx context.Context, threadID, readerID int) error
	UnreadCount(ctx context.Context, threadID, readerID int) (int, error)
}

type readService struct {
	messageRepo     repository.MessageRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
}

func NewReadService(
	messageRepo repository.MessageRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
) ReadService {
	return &readService{
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
	}
}

// MarkThreadRead adds the reader to every message's read set. The store
// update is idempotent per message, so the whole call is safe to retry;
// a partially applied attempt self-heals on the next one. Messages sent
// concurrently with the scan may stay unread; the next call picks them up.
func (rs *readService) MarkThreadRead(ctx context.Context, threadID, readerID int) error {
	isParticipant, err := rs.participantRepo.IsParticipant(ctx, threadID, readerID)
	if err != nil {
		return err
	}
	if !isParticipant {
		user, err := rs.userRepo.GetByID(ctx, readerID)
		if err != nil || !user.IsAdmin {
			// Nothing to track for outsiders; not an error per the API.
			return nil
		}
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := rs.messageRepo.MarkThreadRead(ctx, threadID, readerID); err != nil {
			log.Printf("Error marking thread %d read for user %d, retrying: %v", threadID, readerID, err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (rs *readService) UnreadCount(ctx context.Context, threadID, readerID int) (int, error) {
	return rs.messageRepo.UnreadCount(ctx, threadID, readerID)
}
