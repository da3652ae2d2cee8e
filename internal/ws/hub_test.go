package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubNotifyUser(t *testing.T) {
	hub := NewHub()
	alice := NewClient(context.Background(), nil, 1)
	bob := NewClient(context.Background(), nil, 2)

	require.True(t, hub.Register(alice))
	require.True(t, hub.Register(bob))
	assert.True(t, hub.IsOnline(1))
	assert.Equal(t, int64(2), hub.Connections())

	hub.NotifyUser(1, "message", map[string]string{"message": "Is the flat still available?"})

	select {
	case raw := <-alice.send:
		var ev OutEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "message", ev.Type)
		assert.Equal(t, uint(1), ev.UserID)
	default:
		t.Fatal("expected event for user 1")
	}

	select {
	case <-bob.send:
		t.Fatal("user 2 should not receive user 1's events")
	default:
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	client := NewClient(context.Background(), nil, 7)
	require.True(t, hub.Register(client))

	hub.Unregister(client)

	assert.False(t, hub.IsOnline(7))
	assert.True(t, client.IsClosed())
	assert.False(t, client.SendRaw([]byte("late")))
	assert.Equal(t, int64(0), hub.Connections())

	// notifying an offline user is a no-op
	hub.NotifyUser(7, "message", nil)
}

func TestHubConnectionLimit(t *testing.T) {
	hub := NewHub(HubOptions{MaxConnectionsPerUser: 1})

	assert.True(t, hub.Register(NewClient(context.Background(), nil, 3)))
	assert.False(t, hub.Register(NewClient(context.Background(), nil, 3)))
}

func TestUpgraderOrigins(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "http://evil.example")

	assert.True(t, NewUpgrader([]string{"*"}).CheckOrigin(req))
	assert.False(t, NewUpgrader([]string{"http://localhost:3000"}).CheckOrigin(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, NewUpgrader([]string{"http://localhost:3000"}).CheckOrigin(req))
}
