package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"SwapMarket/server/internal/models"
	"SwapMarket/server/internal/notify"

	"github.com/jonboulle/clockwork"
)

// memStore is an in-memory stand-in for the Postgres repositories with the
// same idempotency semantics, guarded by a single mutex so concurrency
// tests exercise the services against a linearizable store.
type memStore struct {
	mu            sync.Mutex
	threads       map[int]models.Thread
	participants  map[int]map[int]models.Participant
	messages      []models.Message
	users         map[int]models.User
	nextThreadID  int
	nextMessageID int
}

func newMemStore() *memStore {
	return &memStore{
		threads:       make(map[int]models.Thread),
		participants:  make(map[int]map[int]models.Participant),
		users:         make(map[int]models.User),
		nextThreadID:  1,
		nextMessageID: 1,
	}
}

func (s *memStore) addUser(id int, username string, isAdmin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = models.User{ID: id, Username: username, IsAdmin: isAdmin}
}

// ThreadRepository

func (s *memStore) Create(ctx context.Context, title *string, createdBy int, now time.Time) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Thread{
		ID:             s.nextThreadID,
		Title:          title,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	s.nextThreadID++
	s.threads[t.ID] = t
	return &t, nil
}

func (s *memStore) GetByID(ctx context.Context, threadID int) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID int) ([]models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var threads []models.Thread
	for id, t := range s.threads {
		if t.Archived {
			continue
		}
		if _, ok := s.participants[id][userID]; ok {
			threads = append(threads, t)
		}
	}
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].LastActivityAt.After(threads[j].LastActivityAt)
	})
	return threads, nil
}

func (s *memStore) FindTwoParty(ctx context.Context, userA, userB int) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *models.Thread
	for id, t := range s.threads {
		if t.Archived || len(s.participants[id]) != 2 {
			continue
		}
		_, hasA := s.participants[id][userA]
		_, hasB := s.participants[id][userB]
		if hasA && hasB {
			t := t
			if found == nil || t.CreatedAt.Before(found.CreatedAt) {
				found = &t
			}
		}
	}
	if found == nil {
		return nil, models.ErrNotFound
	}
	return found, nil
}

func (s *memStore) BumpActivity(ctx context.Context, threadID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return models.ErrNotFound
	}
	if at.After(t.LastActivityAt) {
		t.LastActivityAt = at
		s.threads[threadID] = t
	}
	return nil
}

func (s *memStore) SetArchived(ctx context.Context, threadID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return models.ErrNotFound
	}
	t.Archived = true
	if at.After(t.LastActivityAt) {
		t.LastActivityAt = at
	}
	s.threads[threadID] = t
	return nil
}

func (s *memStore) SetMatchRef(ctx context.Context, threadID int, ref models.MatchRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return models.ErrNotFound
	}
	t.MatchRef = &ref
	s.threads[threadID] = t
	return nil
}

// ParticipantRepository

func (s *memStore) Add(ctx context.Context, threadID, userID int, asAdmin bool, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.participants[threadID] == nil {
		s.participants[threadID] = make(map[int]models.Participant)
	}
	existing, ok := s.participants[threadID][userID]
	if ok {
		if asAdmin && !existing.IsAdmin {
			existing.IsAdmin = true
			s.participants[threadID][userID] = existing
			return true, nil
		}
		return false, nil
	}
	s.participants[threadID][userID] = models.Participant{
		ThreadID: threadID,
		UserID:   userID,
		IsAdmin:  asAdmin,
		JoinedAt: at,
	}
	return true, nil
}

func (s *memStore) Remove(ctx context.Context, threadID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[threadID][userID]; !ok {
		return false, nil
	}
	delete(s.participants[threadID], userID)
	return true, nil
}

func (s *memStore) IsParticipant(ctx context.Context, threadID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.participants[threadID][userID]
	return ok, nil
}

func (s *memStore) IsThreadAdmin(ctx context.Context, threadID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[threadID][userID]
	return ok && p.IsAdmin, nil
}

func (s *memStore) HasAdmin(ctx context.Context, threadID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants[threadID] {
		if p.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListByThread(ctx context.Context, threadID int) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var participants []models.Participant
	for _, p := range s.participants[threadID] {
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].JoinedAt.Equal(participants[j].JoinedAt) {
			return participants[i].UserID < participants[j].UserID
		}
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})
	return participants, nil
}

// MessageRepository

func (s *memStore) Append(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.nextMessageID
	s.nextMessageID++
	stored := *msg
	stored.ReadBy = append([]int(nil), msg.ReadBy...)
	s.messages = append(s.messages, stored)
	return nil
}

func (s *memStore) listThreadMessagesLocked(threadID int) []models.Message {
	var msgs []models.Message
	for _, m := range s.messages {
		if m.ThreadID == threadID {
			cp := m
			cp.ReadBy = append([]int(nil), m.ReadBy...)
			msgs = append(msgs, cp)
		}
	}
	models.SortMessages(msgs)
	return msgs
}

func (s *memStore) ListByThreadMessages(ctx context.Context, threadID int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listThreadMessagesLocked(threadID), nil
}

func (s *memStore) LastByThread(ctx context.Context, threadID int) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.listThreadMessagesLocked(threadID)
	if len(msgs) == 0 {
		return nil, models.ErrNotFound
	}
	return &msgs[len(msgs)-1], nil
}

func (s *memStore) MarkThreadRead(ctx context.Context, threadID, readerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ThreadID != threadID {
			continue
		}
		if !s.messages[i].ReadByUser(readerID) {
			s.messages[i].ReadBy = append(s.messages[i].ReadBy, readerID)
		}
	}
	return nil
}

func (s *memStore) UnreadCount(ctx context.Context, threadID, readerID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.messages {
		if s.messages[i].ThreadID == threadID && !s.messages[i].ReadByUser(readerID) {
			count++
		}
	}
	return count, nil
}

// UserRepository

func (s *memStore) GetByIDUser(ctx context.Context, userID int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) GetByIDs(ctx context.Context, userIDs []int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	for _, id := range userIDs {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// Adapter views: the store backs all four repository interfaces but two
// method names collide, so thin wrappers disambiguate.

type memMessageRepo struct{ *memStore }

func (r memMessageRepo) ListByThread(ctx context.Context, threadID int) ([]models.Message, error) {
	return r.memStore.ListByThreadMessages(ctx, threadID)
}

type memUserRepo struct{ *memStore }

func (r memUserRepo) GetByID(ctx context.Context, userID int) (*models.User, error) {
	return r.memStore.GetByIDUser(ctx, userID)
}

// recNotifier records published events.
type recNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recNotifier) Publish(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recNotifier) Events() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Event(nil), n.events...)
}

func (n *recNotifier) CountByType(eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e.Type == eventType {
			count++
		}
	}
	return count
}

type fixture struct {
	store      *memStore
	notifier   *recNotifier
	now        func() time.Time
	advance    func(d time.Duration)
	users      UserService
	roster     RosterService
	threads    ThreadService
	messages   MessageService
	reads      ReadService
	escalation EscalationService
}

var fixtureEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	store := newMemStore()
	notifier := &recNotifier{}
	clock := clockwork.NewFakeClockAt(fixtureEpoch)

	messageRepo := memMessageRepo{store}
	userRepo := memUserRepo{store}

	users := NewUserService(userRepo)
	messages := NewMessageService(messageRepo, store, store, userRepo, notifier, clock)

	return &fixture{
		store:      store,
		notifier:   notifier,
		now:        clock.Now,
		advance:    clock.Advance,
		users:      users,
		roster:     NewRosterService(store, clock),
		threads:    NewThreadService(store, store, messageRepo, users, notifier, clock),
		messages:   messages,
		reads:      NewReadService(messageRepo, store, userRepo),
		escalation: NewEscalationService(store, store, userRepo, messages, notifier, clock),
	}
}

func strPtr(s string) *string { return &s }
