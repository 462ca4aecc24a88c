package main

import "sync"

// Registry is the shared room table, mapping room ID to an ordered,
// duplicate-free list of player names. Insertion order is turn order:
// the head of the list is the player allowed to act next. Rooms are
// created on first join and deleted the moment their last player is
// removed, so an empty room never stays in the table.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// room holds a single room's player list behind its own lock, so
// traffic in one room never waits on another. gone marks a room that
// has been (or is about to be) deleted from the table; a joiner that
// catches a gone room retries and creates a fresh one.
type room struct {
	mu      sync.Mutex
	players []string
	gone    bool
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*room),
	}
}

// Join adds name to roomID, creating the room if needed. Joining a
// room the player is already in leaves the list untouched. Returns the
// resulting player list and whether this call created the room.
func (reg *Registry) Join(roomID, name string) (players []string, created bool) {
	for {
		reg.mu.Lock()
		rm, ok := reg.rooms[roomID]
		if !ok {
			rm = &room{}
			reg.rooms[roomID] = rm
		}
		reg.mu.Unlock()

		rm.mu.Lock()
		if rm.gone {
			// Lost a race with the deletion of this room; go around
			// again so the name lands in a live entry.
			rm.mu.Unlock()
			continue
		}

		found := false
		for _, p := range rm.players {
			if p == name {
				found = true
				break
			}
		}
		if !found {
			rm.players = append(rm.players, name)
		}

		players = snapshot(rm.players)
		rm.mu.Unlock()

		return players, !ok
	}
}

// Eliminate removes every occurrence of name from roomID, deleting the
// room once its list empties. ok is false when the room is unknown, in
// which case nothing happened.
func (reg *Registry) Eliminate(roomID, name string) (remaining []string, deleted, ok bool) {
	reg.mu.RLock()
	rm, ok := reg.rooms[roomID]
	reg.mu.RUnlock()

	if !ok {
		return nil, false, false
	}

	rm.mu.Lock()
	if rm.gone {
		rm.mu.Unlock()
		return nil, false, false
	}

	dst := rm.players[:0]
	for _, p := range rm.players {
		if p != name {
			dst = append(dst, p)
		}
	}
	rm.players = dst

	remaining = snapshot(rm.players)
	if len(rm.players) == 0 {
		rm.gone = true
		deleted = true
	}
	rm.mu.Unlock()

	if deleted {
		reg.mu.Lock()
		if reg.rooms[roomID] == rm {
			delete(reg.rooms, roomID)
		}
		reg.mu.Unlock()
	}

	return remaining, deleted, true
}

// Leader returns the player at the head of roomID's list, i.e. whose
// turn it is.
func (reg *Registry) Leader(roomID string) (string, bool) {
	reg.mu.RLock()
	rm, ok := reg.rooms[roomID]
	reg.mu.RUnlock()

	if !ok {
		return "", false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.gone || len(rm.players) == 0 {
		return "", false
	}

	return rm.players[0], true
}

// Players returns a snapshot of roomID's list, or nil for an unknown
// room.
func (reg *Registry) Players(roomID string) []string {
	reg.mu.RLock()
	rm, ok := reg.rooms[roomID]
	reg.mu.RUnlock()

	if !ok {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.gone {
		return nil
	}

	return snapshot(rm.players)
}

// Exists reports whether roomID currently has any players.
func (reg *Registry) Exists(roomID string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	_, ok := reg.rooms[roomID]

	return ok
}

// RoomCount returns the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rooms)
}

func snapshot(players []string) []string {
	out := make([]string, len(players))
	copy(out, players)

	return out
}
