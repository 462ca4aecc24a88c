package main

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 32

// Client is one WebSocket connection. The connection ID is minted
// server-side and never appears in any room's player list; players are
// tracked by the display names this connection registers, recorded in
// memberships.
type Client struct {
	conn *websocket.Conn
	id   string
	ip   string
	send chan any

	// memberships maps room ID → the name this connection joined it
	// with. Only the connection's own read loop touches it, so it
	// needs no lock.
	memberships map[string]string

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, ip string) *Client {
	return &Client{
		conn:        conn,
		id:          uuid.NewString(),
		ip:          ip,
		send:        make(chan any, sendBufferSize),
		memberships: make(map[string]string),
	}
}

// readPump decodes inbound events and hands them to the coordinator in
// arrival order. It returns when the connection drops, at which point
// the coordinator cleans up this connection's memberships.
func (c *Client) readPump(co *Coordinator) {
	defer func() {
		co.Disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "joinGame":
			co.JoinGame(c, msg)
		case "playerLost":
			co.PlayerLost(c, msg)
		case "updateScore":
			co.UpdateScore(c, msg)
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// Close shuts the send channel, ending the write pump. Safe to call
// more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
