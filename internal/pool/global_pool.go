package pool

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type ClientPool interface {
	AddClient(userID int, conn *websocket.Conn)
	GetClient(userID int) *Client
	RemoveClient(userID int)
	BroadcastToUsers(userIDs []int, event interface{})
}

type Client struct {
	UserID int
	Conn   *websocket.Conn
	Ctx    context.Context
	Cancel context.CancelFunc
}

type Pool struct {
	mu      sync.Mutex
	clients map[int]*Client
}

var GlobalPool ClientPool = &Pool{
	clients: make(map[int]*Client),
}

func (p *Pool) AddClient(userID int, conn *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	p.clients[userID] = &Client{
		UserID: userID,
		Conn:   conn,
		Ctx:    ctx,
		Cancel: cancel,
	}
	log.Printf("Client %d added to pool", userID)
}

func (p *Pool) GetClient(userID int) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.clients[userID]
}

func (p *Pool) RemoveClient(userID int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[userID]; ok {
		client.Cancel()
		delete(p.clients, userID)
		log.Printf("Client %d removed from pool", userID)
	}
}

// BroadcastToUsers pushes the event to every listed user with a live
// connection; users without one are skipped (the queue side of the
// notification bridge reaches them).
func (p *Pool) BroadcastToUsers(userIDs []int, event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, userID := range userIDs {
		client, ok := p.clients[userID]
		if !ok {
			continue
		}
		if err := client.Conn.WriteJSON(event); err != nil {
			log.Printf("Error sending event to user %d: %v", userID, err)
		}
	}
}
