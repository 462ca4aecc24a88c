package main

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestRegistry_JoinCreatesRoom(t *testing.T) {
	reg := NewRegistry()

	players, created := reg.Join("r1", "Alice")
	if !created {
		t.Error("first join should create the room")
	}
	if !reflect.DeepEqual(players, []string{"Alice"}) {
		t.Errorf("got %v, want [Alice]", players)
	}

	players, created = reg.Join("r1", "Bob")
	if created {
		t.Error("second join should not report creation")
	}
	if !reflect.DeepEqual(players, []string{"Alice", "Bob"}) {
		t.Errorf("got %v, want [Alice Bob]", players)
	}
}

func TestRegistry_JoinDeduplicates(t *testing.T) {
	reg := NewRegistry()

	reg.Join("r1", "Alice")
	reg.Join("r1", "Bob")

	for i := 0; i < 5; i++ {
		players, _ := reg.Join("r1", "Alice")
		if !reflect.DeepEqual(players, []string{"Alice", "Bob"}) {
			t.Fatalf("repeat join %d: got %v, want [Alice Bob]", i, players)
		}
	}
}

func TestRegistry_EliminateHead(t *testing.T) {
	reg := NewRegistry()

	reg.Join("r1", "Alice")
	reg.Join("r1", "Bob")
	reg.Join("r1", "Carol")

	remaining, deleted, ok := reg.Eliminate("r1", "Alice")
	if !ok || deleted {
		t.Fatalf("ok=%v deleted=%v, want ok and not deleted", ok, deleted)
	}
	if !reflect.DeepEqual(remaining, []string{"Bob", "Carol"}) {
		t.Errorf("got %v, want [Bob Carol]", remaining)
	}

	leader, ok := reg.Leader("r1")
	if !ok || leader != "Bob" {
		t.Errorf("leader = %q (ok=%v), want Bob", leader, ok)
	}
}

func TestRegistry_EliminateNonHeadKeepsLeader(t *testing.T) {
	reg := NewRegistry()

	reg.Join("r1", "Alice")
	reg.Join("r1", "Bob")
	reg.Join("r1", "Carol")

	remaining, _, _ := reg.Eliminate("r1", "Bob")
	if !reflect.DeepEqual(remaining, []string{"Alice", "Carol"}) {
		t.Errorf("got %v, want [Alice Carol]", remaining)
	}

	leader, _ := reg.Leader("r1")
	if leader != "Alice" {
		t.Errorf("leader = %q, want Alice (unchanged)", leader)
	}
}

func TestRegistry_EliminateLastDeletesRoom(t *testing.T) {
	reg := NewRegistry()

	reg.Join("r1", "Alice")

	remaining, deleted, ok := reg.Eliminate("r1", "Alice")
	if !ok || !deleted {
		t.Fatalf("ok=%v deleted=%v, want both true", ok, deleted)
	}
	if len(remaining) != 0 {
		t.Errorf("got %v, want empty", remaining)
	}
	if reg.Exists("r1") {
		t.Error("room should be gone after its last player leaves")
	}

	// Re-using the identifier creates a brand-new room, not a resumption.
	players, created := reg.Join("r1", "Bob")
	if !created {
		t.Error("join after deletion should create a fresh room")
	}
	if !reflect.DeepEqual(players, []string{"Bob"}) {
		t.Errorf("got %v, want [Bob]", players)
	}
}

func TestRegistry_EliminateUnknownRoom(t *testing.T) {
	reg := NewRegistry()

	_, deleted, ok := reg.Eliminate("nope", "Alice")
	if ok || deleted {
		t.Errorf("ok=%v deleted=%v, want both false for unknown room", ok, deleted)
	}
}

func TestRegistry_LeaderAbsent(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Leader("nope"); ok {
		t.Error("unknown room should have no leader")
	}
}

func TestRegistry_ConcurrentJoinsDistinctRooms(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		name := fmt.Sprintf("player-%d", i)
		go func() {
			defer wg.Done()
			reg.Join("r1", name)
		}()
		go func() {
			defer wg.Done()
			reg.Join("r2", name)
		}()
	}
	wg.Wait()

	r1 := reg.Players("r1")
	r2 := reg.Players("r2")
	if len(r1) != 50 || len(r2) != 50 {
		t.Errorf("got %d and %d players, want 50 each", len(r1), len(r2))
	}

	// No cross-room leakage and no duplicates in either list.
	for _, players := range [][]string{r1, r2} {
		seen := make(map[string]bool, len(players))
		for _, p := range players {
			if seen[p] {
				t.Errorf("duplicate player %q", p)
			}
			seen[p] = true
		}
	}
}

func TestRegistry_ConcurrentJoinSameName(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Join("r1", "Alice")
		}()
	}
	wg.Wait()

	players := reg.Players("r1")
	if !reflect.DeepEqual(players, []string{"Alice"}) {
		t.Errorf("got %v, want [Alice]", players)
	}
}

func TestRegistry_RoomCount(t *testing.T) {
	reg := NewRegistry()

	if reg.RoomCount() != 0 {
		t.Errorf("expected 0 rooms, got %d", reg.RoomCount())
	}

	reg.Join("r1", "Alice")
	reg.Join("r2", "Bob")
	if reg.RoomCount() != 2 {
		t.Errorf("expected 2 rooms, got %d", reg.RoomCount())
	}

	reg.Eliminate("r2", "Bob")
	if reg.RoomCount() != 1 {
		t.Errorf("expected 1 room after deletion, got %d", reg.RoomCount())
	}
}
