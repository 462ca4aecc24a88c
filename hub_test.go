package main

import "testing"

func testClient() *Client {
	return newClient(nil, "127.0.0.1")
}

// drainSend collects whatever is currently queued for a client without
// blocking.
func drainSend(c *Client) []any {
	var msgs []any
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return msgs
			}
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestHub_SendRoomScoping(t *testing.T) {
	hub := NewHub()

	c1 := testClient()
	c2 := testClient()
	c3 := testClient()

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)

	hub.Subscribe(c1, "r1")
	hub.Subscribe(c2, "r1")
	hub.Subscribe(c3, "r2")

	hub.SendRoom("r1", "hello")

	if got := drainSend(c1); len(got) != 1 || got[0] != "hello" {
		t.Errorf("c1 got %v, want [hello]", got)
	}
	if got := drainSend(c2); len(got) != 1 {
		t.Errorf("c2 got %v, want one message", got)
	}
	if got := drainSend(c3); len(got) != 0 {
		t.Errorf("c3 subscribed to another room got %v, want nothing", got)
	}
}

func TestHub_SendAll(t *testing.T) {
	hub := NewHub()

	c1 := testClient()
	c2 := testClient()

	hub.Register(c1)
	hub.Register(c2)
	hub.Subscribe(c1, "r1")

	hub.SendAll("global")

	for i, c := range []*Client{c1, c2} {
		if got := drainSend(c); len(got) != 1 || got[0] != "global" {
			t.Errorf("client %d got %v, want [global]", i+1, got)
		}
	}
}

func TestHub_SendToSingleConnection(t *testing.T) {
	hub := NewHub()

	c1 := testClient()
	c2 := testClient()

	hub.Register(c1)
	hub.Register(c2)

	hub.SendTo(c1, "private")

	if got := drainSend(c1); len(got) != 1 {
		t.Errorf("c1 got %v, want one message", got)
	}
	if got := drainSend(c2); len(got) != 0 {
		t.Errorf("c2 got %v, want nothing", got)
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()

	c := testClient()
	hub.Register(c)
	hub.Subscribe(c, "r1")

	hub.Unregister(c)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}

	// Further fan-out to the departed client must be a no-op.
	hub.SendRoom("r1", "late")
	hub.SendAll("late")
	hub.SendTo(c, "late")
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()

	c := testClient()
	hub.Register(c)
	hub.Subscribe(c, "r1")

	// Fill the buffer past capacity; the overflowing send drops the client.
	for i := 0; i < sendBufferSize+1; i++ {
		hub.SendRoom("r1", i)
	}

	if hub.ClientCount() != 0 {
		t.Errorf("slow client should have been dropped, still %d registered", hub.ClientCount())
	}
}
