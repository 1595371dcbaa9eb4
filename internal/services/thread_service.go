package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"SwapMarket/server/internal/models"
	"SwapMarket/server/internal/notify"
	"SwapMarket/server/internal/repository"

	"github.com/jonboulle/clockwork"
)

const (
	activeWindow  = 7 * 24 * time.Hour
	previewLength = 120
)

// ThreadService is the directory layer: it owns thread metadata and
// assembles the listing summaries out of the roster, the message log and
// the read tracker.
type ThreadService interface {
	CreateThread(ctx context.Context, creatorID int, otherParticipantIDs []int, title *string) (*models.Thread, error)
	ListThreads(ctx context.Context, userID int, filter string) ([]models.ThreadSummary, error)
	GetThread(ctx context.Context, threadID, requesterID int) (*models.Thread, error)
	ArchiveThread(ctx context.Context, threadID, adminID int) error
	LinkExternalMatch(ctx context.Context, threadID int, ref models.MatchRef) error
}

type threadService struct {
	threadRepo      repository.ThreadRepository
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	users           UserService
	notifier        notify.Notifier
	clock           clockwork.Clock
}

func NewThreadService(
	threadRepo repository.ThreadRepository,
	participantRepo repository.ParticipantRepository,
	messageRepo repository.MessageRepository,
	users UserService,
	notifier notify.Notifier,
	clock clockwork.Clock,
) ThreadService {
	return &threadService{
		threadRepo:      threadRepo,
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		users:           users,
		notifier:        notifier,
		clock:           clock,
	}
}

func (ts *threadService) CreateThread(ctx context.Context, creatorID int, otherParticipantIDs []int, title *string) (*models.Thread, error) {
	if len(otherParticipantIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one other participant is required", models.ErrInvalidArgument)
	}
	seen := map[int]bool{}
	var others []int
	for _, id := range otherParticipantIDs {
		if id == creatorID {
			return nil, fmt.Errorf("%w: participant list must not contain the creator", models.ErrInvalidArgument)
		}
		if !seen[id] {
			seen[id] = true
			others = append(others, id)
		}
	}

	// For untitled two-party threads, reuse the existing conversation
	// between the pair instead of opening a duplicate.
	if len(others) == 1 {
		existing, err := ts.threadRepo.FindTwoParty(ctx, creatorID, others[0])
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	now := ts.clock.Now()
	thread, err := ts.threadRepo.Create(ctx, title, creatorID, now)
	if err != nil {
		return nil, err
	}

	if _, err := ts.participantRepo.Add(ctx, thread.ID, creatorID, false, now); err != nil {
		return nil, err
	}
	for _, id := range others {
		if _, err := ts.participantRepo.Add(ctx, thread.ID, id, false, now); err != nil {
			return nil, err
		}
	}

	ts.notifier.Publish(notify.Event{
		Type:     notify.EventThreadCreated,
		ThreadID: thread.ID,
		ActorID:  creatorID,
		Payload: map[string]interface{}{
			"participant_ids": append([]int{creatorID}, others...),
		},
	})

	return thread, nil
}

func (ts *threadService) ListThreads(ctx context.Context, userID int, filter string) ([]models.ThreadSummary, error) {
	switch filter {
	case "", models.FilterActive, models.FilterNeedsAdmin, models.FilterHasAdmin, models.FilterUnreadOnly:
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", models.ErrInvalidArgument, filter)
	}

	threads, err := ts.threadRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ThreadSummary, 0, len(threads))
	for _, thread := range threads {
		summary, err := ts.buildSummary(ctx, thread, userID)
		if err != nil {
			log.Printf("Error assembling summary for thread %d: %v", thread.ID, err)
			return nil, err
		}

		switch filter {
		case models.FilterActive:
			if ts.clock.Now().Sub(summary.LastActivityAt) > activeWindow {
				continue
			}
		case models.FilterNeedsAdmin:
			if !summary.NeedsAdmin {
				continue
			}
		case models.FilterHasAdmin:
			if summary.NeedsAdmin {
				continue
			}
		case models.FilterUnreadOnly:
			if summary.UnreadCount == 0 {
				continue
			}
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (ts *threadService) buildSummary(ctx context.Context, thread models.Thread, userID int) (*models.ThreadSummary, error) {
	participants, err := ts.participantRepo.ListByThread(ctx, thread.ID)
	if err != nil {
		return nil, err
	}

	hasAdmin := false
	ids := make([]int, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserID)
		if p.IsAdmin {
			hasAdmin = true
		}
	}

	names, err := ts.users.GetUsernames(ctx, ids)
	if err != nil {
		return nil, err
	}
	participantNames := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			participantNames = append(participantNames, name)
		}
	}

	unread, err := ts.messageRepo.UnreadCount(ctx, thread.ID, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.ThreadSummary{
		Thread:           thread,
		IsGroup:          len(participants) > 2,
		DisplayTitle:     ts.resolveTitle(thread, participants, names, userID),
		UnreadCount:      unread,
		ParticipantNames: participantNames,
		NeedsAdmin:       !hasAdmin,
	}

	last, err := ts.messageRepo.LastByThread(ctx, thread.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if last != nil {
		preview := last.Content
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}
		summary.LastMessagePreview = &preview
		sentAt := last.SentAt
		summary.LastMessageSentAt = &sentAt
	}

	return summary, nil
}

// resolveTitle falls back to the other participant's name for untitled
// two-party threads, the way chat lists label direct conversations.
func (ts *threadService) resolveTitle(thread models.Thread, participants []models.Participant, names map[int]string, userID int) string {
	if thread.Title != nil && *thread.Title != "" {
		return *thread.Title
	}
	if len(participants) == 2 {
		for _, p := range participants {
			if p.UserID != userID {
				return names[p.UserID]
			}
		}
	}
	var otherNames []string
	for _, p := range participants {
		if p.UserID != userID {
			if name, ok := names[p.UserID]; ok {
				otherNames = append(otherNames, name)
			}
		}
	}
	return strings.Join(otherNames, ", ")
}

func (ts *threadService) GetThread(ctx context.Context, threadID, requesterID int) (*models.Thread, error) {
	thread, err := ts.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	isParticipant, err := ts.participantRepo.IsParticipant(ctx, threadID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		isAdmin, err := ts.users.IsGlobalAdmin(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, fmt.Errorf("%w: user %d is not a participant of thread %d", models.ErrPermissionDenied, requesterID, threadID)
		}
	}
	return thread, nil
}

func (ts *threadService) ArchiveThread(ctx context.Context, threadID, adminID int) error {
	isAdmin, err := ts.users.IsGlobalAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return fmt.Errorf("%w: only administrators may archive threads", models.ErrPermissionDenied)
	}

	if err := ts.threadRepo.SetArchived(ctx, threadID, ts.clock.Now()); err != nil {
		return err
	}

	ts.notifier.Publish(notify.Event{
		Type:     notify.EventThreadArchived,
		ThreadID: threadID,
		ActorID:  adminID,
	})
	return nil
}

func (ts *threadService) LinkExternalMatch(ctx context.Context, threadID int, ref models.MatchRef) error {
	if strings.TrimSpace(ref.MatchID) == "" {
		return fmt.Errorf("%w: match_id is required", models.ErrInvalidArgument)
	}
	return ts.threadRepo.SetMatchRef(ctx, threadID, ref)
}
