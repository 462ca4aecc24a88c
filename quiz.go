// Quizbox Elimination Quiz
//
// Players join a named room and answer questions in turn order (join
// order). A wrong answer eliminates the player; the head of the
// surviving list is always the one up next. The last room standing
// empties out with a gameOver, and scores reported by clients land on
// a global leaderboard shared by every connected client.
//
// Features:
// - WebSockets per room page at /path/:roomid/ws; rooms are addressed
//   in the event payload, so one connection can sit in several rooms
// - Joining with no room runs single-player mode
// - Per-room share pages at /path/:roomid with a QR code, backed by
//   go-qrcode
// - Leaderboard persisted to Postgres when a database URL is
//   configured, in memory otherwise

package main

import (
	"crypto/rand"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// newRoomID generates a crypto-random room ID that does not collide
// with a room currently in play.
func newRoomID(registry *Registry) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		if !registry.Exists(id) {
			return id
		}
	}
}

// serveWS upgrades the connection and runs its pumps until it drops.
func serveWS(cfg *Config, co *Coordinator, hub *Hub, limiter *RateLimiter) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ip := realIP(r)

		if !limiter.Allow(ip) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := newClient(conn, ip)
		hub.Register(client)
		logf(cfg, "GAMES: Connection %s opened from %s", client.id, ip)

		go client.writePump()
		client.readPump(co)
	}
}

// qrHandler generates a PNG QR code for the current room URL using
// go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:roomid/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func quizIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(quizHTML))
	}
}

// redirectNewRoom handles GET /path by generating a fresh room ID and
// redirecting to its share page.
func redirectNewRoom(cfg *Config, path string, registry *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		roomID := newRoomID(registry)
		logf(cfg, "GAMES: Created room %s/%s", path, roomID)
		http.Redirect(w, r, cfg.prefix+path+"/"+roomID, http.StatusTemporaryRedirect)
	}
}

// registerQuizGame sets up routes so that:
//   - $path             → redirects to a new random room page
//   - $path/:roomid     → HTML client, pre-filled with the room ID
//   - $path/:roomid/ws  → WebSocket endpoint (rooms addressed in payload)
//   - $path/:roomid/qr  → PNG QR code for that room URL
func registerQuizGame(cfg *Config, path string, mux *httprouter.Router, co *Coordinator, hub *Hub, registry *Registry, limiter *RateLimiter) {
	mux.GET(cfg.prefix+path, redirectNewRoom(cfg, path, registry))

	mux.GET(cfg.prefix+path+"/:roomid", quizIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:roomid/ws", serveWS(cfg, co, hub, limiter))

	mux.GET(cfg.prefix+path+"/:roomid/qr", qrHandler)
}

// Simple HTML client for quick testing
const quizHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Quizbox</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; }
  h1 { margin-bottom: 0.5rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; }
  #players, #scores { margin-top: 1rem; padding: 0; list-style: none; }
  #players li, #scores li { padding: 0.25rem 0; border-bottom: 1px solid #ddd; }
  #turn { font-weight: bold; }
</style>
</head>
<body>
<h1>Quizbox</h1>
<div id="status">Connecting…</div>
<div id="turn"></div>
<h2>Players</h2>
<ul id="players"></ul>
<h2>Leaderboard</h2>
<ul id="scores"></ul>

<script>
(function() {
  const statusEl = document.getElementById('status');
  const turnEl = document.getElementById('turn');
  const playersEl = document.getElementById('players');
  const scoresEl = document.getElementById('scores');

  const path = location.pathname.replace(/\/$/, '');
  const room = path.split('/').pop();
  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const ws = new WebSocket(proto + location.host + path + '/ws');

  function fill(el, items) {
    el.innerHTML = '';
    items.forEach(function(text) {
      const li = document.createElement('li');
      li.textContent = text;
      el.appendChild(li);
    });
  }

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';

    const name = prompt('Enter your name:') || '';
    if (name) {
      ws.send(JSON.stringify({ type: 'joinGame', name: name, room: room }));
    }
  };

  ws.onmessage = function(event) {
    try {
      const msg = JSON.parse(event.data);

      switch (msg.type) {
      case 'joinSuccess':
        statusEl.textContent = 'Joined room ' + msg.room + ' as ' + msg.name + '.';
        break;
      case 'playersInRoom':
        fill(playersEl, msg.players);
        break;
      case 'nextPlayer':
        turnEl.textContent = 'Next up: ' + msg.nextPlayer;
        break;
      case 'playerEliminated':
        statusEl.textContent = msg.eliminatedPlayer + ' is out.';
        break;
      case 'revealAnswer':
        statusEl.textContent = 'Correct answer: ' + msg.correctAnswer;
        break;
      case 'gameOver':
        turnEl.textContent = 'Game over.';
        break;
      case 'updateLeaderboard':
        fill(scoresEl, msg.scores.map(function(s) { return s.name + ': ' + s.score; }));
        break;
      }
    } catch (e) {
      console.error('bad message', e);
    }
  };

  ws.onclose = function() {
    statusEl.textContent = 'Disconnected.';
  };

  ws.onerror = function() {
    statusEl.textContent = 'Error with WebSocket.';
  };
})();
</script>
</body>
</html>
`
