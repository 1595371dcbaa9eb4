package services

import (
	"context"
	"fmt"
	"strings"

	"SwapMarket/server/internal/models"
	"SwapMarket/server/internal/notify"
	"SwapMarket/server/internal/repository"

	"github.com/jonboulle/clockwork"
)

// MessageService owns the append-only message log: content, ordering and
// the initial read seeding. InjectSystemMessage is reserved for the
// escalation workflow and is not exposed over HTTP.
type MessageService interface {
	SendMessage(ctx context.Context, threadID, senderID int, content string, asAdmin bool) (*models.Message, error)
	ListMessages(ctx context.Context, threadID, requesterID int) ([]models.Message, error)
	InjectSystemMessage(ctx context.Context, threadID int, text string, actorID int) (*models.Message, error)
}

type messageService struct {
	messageRepo     repository.MessageRepository
	threadRepo      repository.ThreadRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
	notifier        notify.Notifier
	clock           clockwork.Clock
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	threadRepo repository.ThreadRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
	clock clockwork.Clock,
) MessageService {
	return &messageService{
		messageRepo:     messageRepo,
		threadRepo:      threadRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		clock:           clock,
	}
}

func (ms *messageService) SendMessage(ctx context.Context, threadID, senderID int, content string, asAdmin bool) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", models.ErrInvalidArgument)
	}

	thread, err := ms.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.Archived {
		return nil, fmt.Errorf("%w: thread %d is archived", models.ErrPermissionDenied, threadID)
	}

	kind := models.KindUser
	if asAdmin {
		// Sending as admin requires an actual admin roster entry; global
		// administrators join the thread first (the escalation flow).
		isThreadAdmin, err := ms.participantRepo.IsThreadAdmin(ctx, threadID, senderID)
		if err != nil {
			return nil, err
		}
		if !isThreadAdmin {
			return nil, fmt.Errorf("%w: user %d is not an admin of thread %d", models.ErrUnauthorized, senderID, threadID)
		}
		kind = models.KindAdmin
	} else {
		isParticipant, err := ms.participantRepo.IsParticipant(ctx, threadID, senderID)
		if err != nil {
			return nil, err
		}
		if !isParticipant {
			return nil, fmt.Errorf("%w: user %d is not a participant of thread %d", models.ErrUnauthorized, senderID, threadID)
		}
	}

	sender := senderID
	msg := &models.Message{
		ThreadID: threadID,
		SenderID: &sender,
		Kind:     kind,
		Content:  content,
		SentAt:   ms.clock.Now(),
		ReadBy:   []int{senderID},
	}
	if err := ms.messageRepo.Append(ctx, msg); err != nil {
		return nil, err
	}

	// The message is already visible; a failed bump only delays the
	// thread's listing position until the next accepted message.
	if err := ms.threadRepo.BumpActivity(ctx, threadID, msg.SentAt); err != nil {
		fmt.Printf("[messages] failed to bump activity for thread %d: %v\n", threadID, err)
	}

	ms.notifier.Publish(notify.Event{
		Type:     notify.EventNewMessage,
		ThreadID: threadID,
		ActorID:  senderID,
		Payload: map[string]interface{}{
			"message_id": msg.ID,
			"kind":       string(msg.Kind),
			"content":    msg.Content,
			"sent_at":    msg.SentAt,
		},
	})

	return msg, nil
}

func (ms *messageService) ListMessages(ctx context.Context, threadID, requesterID int) ([]models.Message, error) {
	if _, err := ms.threadRepo.GetByID(ctx, threadID); err != nil {
		return nil, err
	}

	isParticipant, err := ms.participantRepo.IsParticipant(ctx, threadID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		// Global administrators may read any thread for moderation even
		// before joining it.
		user, err := ms.userRepo.GetByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if !user.IsAdmin {
			return nil, fmt.Errorf("%w: user %d is not a participant of thread %d", models.ErrPermissionDenied, requesterID, threadID)
		}
	}

	return ms.messageRepo.ListByThread(ctx, threadID)
}

func (ms *messageService) InjectSystemMessage(ctx context.Context, threadID int, text string, actorID int) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: system message text must not be empty", models.ErrInvalidArgument)
	}

	msg := &models.Message{
		ThreadID: threadID,
		SenderID: nil,
		Kind:     models.KindSystem,
		Content:  text,
		SentAt:   ms.clock.Now(),
		ReadBy:   []int{actorID},
	}
	if err := ms.messageRepo.Append(ctx, msg); err != nil {
		return nil, err
	}
	if err := ms.threadRepo.BumpActivity(ctx, threadID, msg.SentAt); err != nil {
		fmt.Printf("[messages] failed to bump activity for thread %d: %v\n", threadID, err)
	}
	return msg, nil
}
