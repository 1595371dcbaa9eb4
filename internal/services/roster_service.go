package services

import (
	"context"

	"SwapMarket/server/internal/models"
	"SwapMarket/server/internal/repository"

	"github.com/jonboulle/clockwork"
)

// RosterService is the single writer of thread membership. Other
// components only consult it to validate senders and readers.
type RosterService interface {
	AddParticipant(ctx context.Context, threadID, userID int, asAdmin bool) error
	RemoveParticipant(ctx context.Context, threadID, userID int) error
	IsParticipant(ctx context.Context, threadID, userID int) (bool, error)
	HasAdmin(ctx context.Context, threadID int) (bool, error)
	ListParticipants(ctx context.Context, threadID int) ([]models.Participant, error)
}

type rosterService struct {
	participantRepo repository.ParticipantRepository
	clock           clockwork.Clock
}

func NewRosterService(participantRepo repository.ParticipantRepository, clock clockwork.Clock) RosterService {
	return &rosterService{
		participantRepo: participantRepo,
		clock:           clock,
	}
}

func (rs *rosterService) AddParticipant(ctx context.Context, threadID, userID int, asAdmin bool) error {
	_, err := rs.participantRepo.Add(ctx, threadID, userID, asAdmin, rs.clock.Now())
	return err
}

func (rs *rosterService) RemoveParticipant(ctx context.Context, threadID, userID int) error {
	_, err := rs.participantRepo.Remove(ctx, threadID, userID)
	return err
}

func (rs *rosterService) IsParticipant(ctx context.Context, threadID, userID int) (bool, error) {
	return rs.participantRepo.IsParticipant(ctx, threadID, userID)
}

func (rs *rosterService) HasAdmin(ctx context.Context, threadID int) (bool, error) {
	return rs.participantRepo.HasAdmin(ctx, threadID)
}

func (rs *rosterService) ListParticipants(ctx context.Context, threadID int) ([]models.Participant, error) {
	return rs.participantRepo.ListByThread(ctx, threadID)
}
