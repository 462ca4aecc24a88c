package main

// ClientMessage is the envelope for every inbound event. Type selects
// the event; the remaining fields are per-event payload.
type ClientMessage struct {
	Type          string `json:"type"`                    // "joinGame", "playerLost", "updateScore"
	Name          string `json:"name,omitempty"`          // joinGame / playerLost / updateScore
	Room          string `json:"room,omitempty"`          // joinGame / playerLost; absent means single-player
	Score         *int   `json:"score,omitempty"`         // updateScore
	CorrectAnswer string `json:"correctAnswer,omitempty"` // playerLost; revealed to the room when present
}

// NextPlayerMessage announces whose turn it is. Room is null in
// single-player mode.
type NextPlayerMessage struct {
	Type       string  `json:"type"` // "nextPlayer"
	NextPlayer string  `json:"nextPlayer"`
	Room       *string `json:"room"`
}

// PlayersInRoomMessage carries a room's current player list in turn
// order.
type PlayersInRoomMessage struct {
	Type    string   `json:"type"` // "playersInRoom"
	Players []string `json:"players"`
}

// JoinSuccessMessage acknowledges a join to the requesting connection
// alone.
type JoinSuccessMessage struct {
	Type string `json:"type"` // "joinSuccess"
	Name string `json:"name"`
	Room string `json:"room"`
}

// PlayerEliminatedMessage tells a room that a player is out.
type PlayerEliminatedMessage struct {
	Type             string `json:"type"` // "playerEliminated"
	EliminatedPlayer string `json:"eliminatedPlayer"`
	Room             string `json:"room"`
}

// RevealAnswerMessage shares the correct answer with a room after an
// elimination, when the client supplied one.
type RevealAnswerMessage struct {
	Type          string `json:"type"` // "revealAnswer"
	CorrectAnswer string `json:"correctAnswer"`
	Room          string `json:"room"`
}

// GameOverMessage ends a room's game.
type GameOverMessage struct {
	Type string `json:"type"` // "gameOver"
}

// LeaderboardMessage carries the full leaderboard, highest score
// first. Sent to every connected client, not just one room.
type LeaderboardMessage struct {
	Type   string  `json:"type"` // "updateLeaderboard"
	Scores []Score `json:"scores"`
}
