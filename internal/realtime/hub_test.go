package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return &Client{
		ID:    uuid.New().String(),
		send:  make(chan WSMessage, 16),
		rooms: make(map[uuid.UUID]struct{}),
	}
}

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	room := uuid.New()
	c1 := newTestClient()
	c2 := newTestClient()

	hub.Register(c1, room)
	hub.Register(c2, room)
	require.Equal(t, 2, hub.RoomSize(room))

	hub.BroadcastToRoom(room, "stats_updated", map[string]int{"total_answers": 3})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			assert.Equal(t, "stats_updated", msg.Event)
		default:
			t.Fatalf("client %s did not receive broadcast", c.ID)
		}
	}

	hub.Unregister(c1, room)
	assert.Equal(t, 1, hub.RoomSize(room))

	hub.BroadcastToRoom(room, "quiz_ended", map[string]string{})
	select {
	case <-c1.send:
		t.Fatal("unregistered client received broadcast")
	default:
	}
	select {
	case msg := <-c2.send:
		assert.Equal(t, "quiz_ended", msg.Event)
	default:
		t.Fatal("remaining client did not receive broadcast")
	}

	hub.Unregister(c2, room)
	assert.Equal(t, 0, hub.RoomSize(room))
}

func TestHubBroadcastScopedToRoom(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	roomA, roomB := uuid.New(), uuid.New()
	inA := newTestClient()
	inB := newTestClient()
	hub.Register(inA, roomA)
	hub.Register(inB, roomB)

	hub.BroadcastToRoom(roomA, "question_advanced", map[string]int{"question_index": 1})

	select {
	case msg := <-inA.send:
		assert.Equal(t, "question_advanced", msg.Event)
	default:
		t.Fatal("room member did not receive broadcast")
	}
	select {
	case <-inB.send:
		t.Fatal("broadcast leaked into another room")
	default:
	}
}

func TestHubBroadcastDuringMembershipChurn(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	room := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := newTestClient()
			for j := 0; j < 50; j++ {
				hub.Register(c, room)
				hub.Unregister(c, room)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.BroadcastToRoom(room, "stats_updated", map[string]int{"total_answers": j})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.RoomSize(room))
}

func TestRedisPubSubBridgesInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	// Two bridge instances share the Redis; each hub is one process.
	pubsubA := NewRedisPubSub(rdb, zap.NewNop())
	pubsubB := NewRedisPubSub(rdb, zap.NewNop())

	room := uuid.New()
	received := make(chan WSMessage, 1)
	cancel, err := pubsubB.SubscribeRoom(room, func(event string, payload []byte) {
		received <- WSMessage{Event: event, Data: payload}
	})
	require.NoError(t, err)
	defer cancel()

	selfReceived := make(chan struct{}, 1)
	cancelSelf, err := pubsubA.SubscribeRoom(room, func(string, []byte) {
		selfReceived <- struct{}{}
	})
	require.NoError(t, err)
	defer cancelSelf()

	payload, _ := json.Marshal(map[string]int{"question_index": 2})
	require.NoError(t, pubsubA.PublishRoomEvent(room, "question_advanced", payload))

	select {
	case msg := <-received:
		assert.Equal(t, "question_advanced", msg.Event)
		assert.JSONEq(t, `{"question_index":2}`, string(msg.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("other instance did not receive published event")
	}

	// The publishing instance filters out its own messages.
	select {
	case <-selfReceived:
		t.Fatal("publisher received its own event back")
	case <-time.After(100 * time.Millisecond):
	}
}
