package handlers

import (
	"github.com/jonboulle/clockwork"

	"SwapMarket/server/internal/notify"
	"SwapMarket/server/internal/pool"
	"SwapMarket/server/internal/repository"
	"SwapMarket/server/internal/services"
)

var (
	userService       services.UserService
	threadService     services.ThreadService
	rosterService     services.RosterService
	messageService    services.MessageService
	readService       services.ReadService
	escalationService services.EscalationService
	notifier          notify.Notifier
)

func init() {
	threadRepo := repository.NewPgThreadRepo()
	participantRepo := repository.NewPgParticipantRepo()
	messageRepo := repository.NewPgMessageRepo()
	userRepo := repository.NewPgUserRepo()
	clock := clockwork.NewRealClock()

	notifier = notify.NewBridge(participantRepo, pool.GlobalPool)
	userService = services.NewUserService(userRepo)
	rosterService = services.NewRosterService(participantRepo, clock)
	messageService = services.NewMessageService(messageRepo, threadRepo, participantRepo, userRepo, notifier, clock)
	readService = services.NewReadService(messageRepo, participantRepo, userRepo)
	escalationService = services.NewEscalationService(participantRepo, threadRepo, userRepo, messageService, notifier, clock)
	threadService = services.NewThreadService(threadRepo, participantRepo, messageRepo, userService, notifier, clock)
}
