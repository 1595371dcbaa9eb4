package services

import (
	"context"
	"fmt"
	"log"

	"SwapMarket/server/internal/models"
	"SwapMarket/server/internal/notify"
	"SwapMarket/server/internal/repository"

	"github.com/jonboulle/clockwork"
)

// EscalationService moves a thread between NoAdmin and AdminPresent by
// joining global administrators to the roster and announcing the change
// with system messages. "Needs admin" is recomputed from the roster, never
// stored, so concurrent joins and leaves cannot leave it stale.
type EscalationService interface {
	JoinAsAdmin(ctx context.Context, threadID, adminID int) error
	LeaveAsAdmin(ctx context.Context, threadID, adminID int) error
	NeedsAdmin(ctx context.Context, threadID int) (bool, error)
}

type escalationService struct {
	participantRepo repository.ParticipantRepository
	threadRepo      repository.ThreadRepository
	userRepo        repository.UserRepository
	messages        MessageService
	notifier        notify.Notifier
	clock           clockwork.Clock
}

func NewEscalationService(
	participantRepo repository.ParticipantRepository,
	threadRepo repository.ThreadRepository,
	userRepo repository.UserRepository,
	messages MessageService,
	notifier notify.Notifier,
	clock clockwork.Clock,
) EscalationService {
	return &escalationService{
		participantRepo: participantRepo,
		threadRepo:      threadRepo,
		userRepo:        userRepo,
		messages:        messages,
		notifier:        notifier,
		clock:           clock,
	}
}

func (es *escalationService) JoinAsAdmin(ctx context.Context, threadID, adminID int) error {
	admin, err := es.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.IsAdmin {
		return fmt.Errorf("%w: user %d is not a global administrator", models.ErrPermissionDenied, adminID)
	}
	if _, err := es.threadRepo.GetByID(ctx, threadID); err != nil {
		return err
	}

	joined, err := es.participantRepo.Add(ctx, threadID, adminID, true, es.clock.Now())
	if err != nil {
		return err
	}
	if !joined {
		// Already present as admin; repeated joins inject no second
		// system message.
		return nil
	}

	text := fmt.Sprintf("%s has joined the conversation", admin.Username)
	if _, err := es.messages.InjectSystemMessage(ctx, threadID, text, adminID); err != nil {
		// The roster entry is in place, so the thread already reports
		// has_admin; only the announcement is missing.
		log.Printf("Error injecting join message for admin %d in thread %d: %v", adminID, threadID, err)
	}

	es.notifier.Publish(notify.Event{
		Type:     notify.EventAdminJoined,
		ThreadID: threadID,
		ActorID:  adminID,
		Payload: map[string]interface{}{
			"username": admin.Username,
		},
	})
	return nil
}

func (es *escalationService) LeaveAsAdmin(ctx context.Context, threadID, adminID int) error {
	wasAdmin, err := es.participantRepo.IsThreadAdmin(ctx, threadID, adminID)
	if err != nil {
		return err
	}

	removed, err := es.participantRepo.Remove(ctx, threadID, adminID)
	if err != nil {
		return err
	}
	if !removed || !wasAdmin {
		// Leaving a thread one is not an admin of is a no-op.
		return nil
	}

	username := fmt.Sprintf("Administrator %d", adminID)
	if admin, err := es.userRepo.GetByID(ctx, adminID); err == nil {
		username = admin.Username
	}

	text := fmt.Sprintf("%s has left the conversation", username)
	if _, err := es.messages.InjectSystemMessage(ctx, threadID, text, adminID); err != nil {
		log.Printf("Error injecting leave message for admin %d in thread %d: %v", adminID, threadID, err)
	}

	es.notifier.Publish(notify.Event{
		Type:     notify.EventAdminLeft,
		ThreadID: threadID,
		ActorID:  adminID,
		Payload: map[string]interface{}{
			"username": username,
		},
	})
	return nil
}

func (es *escalationService) NeedsAdmin(ctx context.Context, threadID int) (bool, error) {
	hasAdmin, err := es.participantRepo.HasAdmin(ctx, threadID)
	if err != nil {
		return false, err
	}
	return !hasAdmin, nil
}
