package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageKindHelpers(t *testing.T) {
	sender := 7
	user := Message{SenderID: &sender, Kind: KindUser}
	admin := Message{SenderID: &sender, Kind: KindAdmin}
	system := Message{Kind: KindSystem}

	assert.False(t, user.IsAdminMessage())
	assert.False(t, user.IsSystemMessage())
	assert.True(t, admin.IsAdminMessage())
	assert.True(t, system.IsSystemMessage())
	assert.Nil(t, system.SenderID)
}

func TestReadByUser(t *testing.T) {
	msg := Message{ReadBy: []int{1, 3}}
	assert.True(t, msg.ReadByUser(1))
	assert.True(t, msg.ReadByUser(3))
	assert.False(t, msg.ReadByUser(2))

	var empty Message
	assert.False(t, empty.ReadByUser(1))
}

func TestSortMessages(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ID: 4, SentAt: base.Add(time.Second)},
		{ID: 3, SentAt: base},
		{ID: 1, SentAt: base.Add(time.Minute)},
		{ID: 2, SentAt: base},
	}

	SortMessages(msgs)

	got := make([]int, len(msgs))
	for i, m := range msgs {
		got[i] = m.ID
	}
	// Equal timestamps fall back to id order, so ids 2 and 3 keep their
	// insertion order even though they share a sent_at.
	assert.Equal(t, []int{2, 3, 4, 1}, got)
}

func TestThreadJSONRoundTrip(t *testing.T) {
	sender := 1
	title := "Vintage bike"
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	thread := Thread{
		ID:             42,
		Title:          &title,
		CreatedBy:      1,
		CreatedAt:      createdAt,
		LastActivityAt: createdAt.Add(2 * time.Minute),
		MatchRef:       &MatchRef{MatchID: "match-77", Title: "Vintage bike", Status: "open"},
	}
	messages := []Message{
		{ID: 1, ThreadID: 42, SenderID: &sender, Kind: KindUser, Content: "hello", SentAt: createdAt.Add(time.Minute), ReadBy: []int{1, 2}},
		{ID: 2, ThreadID: 42, Kind: KindSystem, Content: "root has joined the conversation", SentAt: createdAt.Add(2 * time.Minute), ReadBy: []int{9}},
	}

	payload := struct {
		Thread   Thread    `json:"thread"`
		Messages []Message `json:"messages"`
	}{thread, messages}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded struct {
		Thread   Thread    `json:"thread"`
		Messages []Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, thread, decoded.Thread)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, messages, decoded.Messages)
	assert.Nil(t, decoded.Messages[1].SenderID, "system messages stay senderless on the wire")
}
