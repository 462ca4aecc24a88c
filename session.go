package main

import (
	"context"
	"log"
	"time"
)

const storeTimeout = 10 * time.Second

// Coordinator turns inbound game events into registry updates and
// broadcast instructions. A single instance is shared by every
// connection; the registry and hub do their own locking, so handlers
// from different connections run concurrently. Events from one
// connection arrive in order because its read loop dispatches them
// serially.
type Coordinator struct {
	cfg      *Config
	registry *Registry
	hub      *Hub
	store    LeaderboardStore
}

func NewCoordinator(cfg *Config, registry *Registry, hub *Hub, store LeaderboardStore) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		registry: registry,
		hub:      hub,
		store:    store,
	}
}

// JoinGame handles "joinGame". Without a room this is single-player
// mode: the requester is their own next player and nothing is
// registered server-side.
func (co *Coordinator) JoinGame(c *Client, msg ClientMessage) {
	if msg.Name == "" {
		return
	}

	if msg.Room == "" {
		co.hub.SendTo(c, NextPlayerMessage{Type: "nextPlayer", NextPlayer: msg.Name})

		return
	}

	players, created := co.registry.Join(msg.Room, msg.Name)
	if created {
		logf(co.cfg, "GAMES: Room %q created by %q", msg.Room, msg.Name)
	}

	c.memberships[msg.Room] = msg.Name
	co.hub.Subscribe(c, msg.Room)

	co.hub.SendRoom(msg.Room, PlayersInRoomMessage{Type: "playersInRoom", Players: players})
	co.hub.SendTo(c, JoinSuccessMessage{Type: "joinSuccess", Name: msg.Name, Room: msg.Room})

	// The first occupant starts the game.
	if len(players) == 1 {
		room := msg.Room
		co.hub.SendRoom(msg.Room, NextPlayerMessage{Type: "nextPlayer", NextPlayer: players[0], Room: &room})
	}
}

// PlayerLost handles "playerLost": the named player answered wrong and
// leaves the room's active list. Unknown rooms are ignored.
func (co *Coordinator) PlayerLost(c *Client, msg ClientMessage) {
	if msg.Name == "" || msg.Room == "" {
		return
	}

	remaining, deleted, ok := co.registry.Eliminate(msg.Room, msg.Name)
	if !ok {
		return
	}

	if name, member := c.memberships[msg.Room]; member && name == msg.Name {
		delete(c.memberships, msg.Room)
	}

	room := msg.Room
	co.hub.SendRoom(room, PlayerEliminatedMessage{Type: "playerEliminated", EliminatedPlayer: msg.Name, Room: room})
	logf(co.cfg, "GAMES: %q eliminated from room %q", msg.Name, room)

	if msg.CorrectAnswer != "" {
		co.hub.SendRoom(room, RevealAnswerMessage{Type: "revealAnswer", CorrectAnswer: msg.CorrectAnswer, Room: room})
	}

	if deleted {
		co.hub.SendRoom(room, GameOverMessage{Type: "gameOver"})
		logf(co.cfg, "GAMES: Room %q finished", room)

		return
	}

	co.hub.SendRoom(room, NextPlayerMessage{Type: "nextPlayer", NextPlayer: remaining[0], Room: &room})
}

// UpdateScore handles "updateScore": persist the score, then push the
// refreshed leaderboard to every connected client. Store failures are
// logged and suppress the broadcast only; the next update will try the
// store again.
func (co *Coordinator) UpdateScore(c *Client, msg ClientMessage) {
	if msg.Name == "" || msg.Score == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := co.store.Upsert(ctx, msg.Name, *msg.Score); err != nil {
		log.Printf("ERROR: leaderboard upsert for %q: %v", msg.Name, err)

		return
	}

	scores, err := co.store.List(ctx)
	if err != nil {
		log.Printf("ERROR: leaderboard read: %v", err)

		return
	}

	co.hub.SendAll(LeaderboardMessage{Type: "updateLeaderboard", Scores: scores})
}

// Disconnect removes the connection's players from their rooms and
// tells the remaining occupants. Cleanup keys on the name each room
// recorded for this connection; a raw connection ID never appears in a
// room list. A room emptied by a departure is deleted without a
// gameOver broadcast, since leaving is not losing.
func (co *Coordinator) Disconnect(c *Client) {
	co.hub.Unregister(c)

	for roomID, name := range c.memberships {
		leader, _ := co.registry.Leader(roomID)

		remaining, deleted, ok := co.registry.Eliminate(roomID, name)
		if !ok {
			continue
		}

		logf(co.cfg, "GAMES: %q left room %q", name, roomID)

		if deleted {
			logf(co.cfg, "GAMES: Room %q emptied", roomID)

			continue
		}

		co.hub.SendRoom(roomID, PlayersInRoomMessage{Type: "playersInRoom", Players: remaining})

		// A departing head passes the turn to the next survivor.
		if leader == name {
			room := roomID
			co.hub.SendRoom(roomID, NextPlayerMessage{Type: "nextPlayer", NextPlayer: remaining[0], Room: &room})
		}
	}

	logf(co.cfg, "GAMES: Connection %s closed", c.id)
}
