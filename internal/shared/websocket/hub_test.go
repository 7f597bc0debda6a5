package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(hub *Hub, auctionID, id string) *Client {
	return &Client{
		Hub:       hub,
		Send:      make(chan []byte, 16),
		AuctionID: auctionID,
		ID:        id,
	}
}

// received does a non-blocking read from the client's send queue.
func received(c *Client) ([]byte, bool) {
	select {
	case data := <-c.Send:
		return data, true
	default:
		return nil, false
	}
}

func TestHub_BroadcastReachesAuctionRoom(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	watcher := newTestClient(hub, "auction-1", "watcher")
	other := newTestClient(hub, "auction-2", "other")
	hub.RegisterClient(watcher)
	hub.RegisterClient(other)

	var got []byte
	require.Eventually(t, func() bool {
		hub.BroadcastToAuction("auction-1", []byte("price update"))
		data, ok := received(watcher)
		got = data
		return ok
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []byte("price update"), got)

	// the other room never sees it
	_, ok := received(other)
	assert.False(t, ok)
}

func TestHub_UnregisterClosesSendQueue(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := newTestClient(hub, "auction-1", "leaver")
	hub.RegisterClient(client)

	// wait until registration is processed
	require.Eventually(t, func() bool {
		hub.BroadcastToAuction("auction-1", []byte("ping"))
		_, ok := received(client)
		return ok
	}, time.Second, 5*time.Millisecond)

	hub.UnregisterClient(client)

	require.Eventually(t, func() bool {
		for {
			select {
			case _, open := <-client.Send:
				if !open {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sentinel := newTestClient(hub, "auction-1", "sentinel")
	slow := &Client{Hub: hub, Send: make(chan []byte), AuctionID: "auction-1", ID: "slow"}
	hub.RegisterClient(sentinel)
	hub.RegisterClient(slow)

	require.Eventually(t, func() bool {
		hub.BroadcastToAuction("auction-1", []byte("update"))
		_, ok := received(sentinel)
		return ok
	}, time.Second, 5*time.Millisecond)

	// the slow client never drains its queue; the hub closes it
	require.Eventually(t, func() bool {
		select {
		case _, open := <-slow.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestHub_RunStopsOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after context cancellation")
	}
}
