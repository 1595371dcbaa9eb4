package notify

import (
	"context"
	"log"
	"time"

	"SwapMarket/server/internal/pool"
	"SwapMarket/server/internal/repository"

	"github.com/google/uuid"
)

// Bridge fans an event out to the current thread participants over the
// websocket pool and hands it to the delivery queue. Both halves run off
// the request path; message acceptance never waits on either.
type Bridge struct {
	roster     repository.ParticipantRepository
	clientPool pool.ClientPool
}

func NewBridge(roster repository.ParticipantRepository, clientPool pool.ClientPool) *Bridge {
	return &Bridge{
		roster:     roster,
		clientPool: clientPool,
	}
}

func (b *Bridge) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	go b.deliver(event)
}

func (b *Bridge) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	participants, err := b.roster.ListByThread(ctx, event.ThreadID)
	if err != nil {
		log.Printf("notify: error resolving participants for thread %d: %v", event.ThreadID, err)
	} else {
		userIDs := make([]int, 0, len(participants))
		for _, p := range participants {
			userIDs = append(userIDs, p.UserID)
		}
		b.clientPool.BroadcastToUsers(userIDs, event)
	}

	if err := enqueue(ctx, event); err != nil {
		log.Printf("notify: dropping event %s (%s) for thread %d: %v", event.ID, event.Type, event.ThreadID, err)
	}
}
