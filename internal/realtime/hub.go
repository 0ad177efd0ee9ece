package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Table string

const (
	TableExams       Table = "exams"
	TableSubmissions Table = "submissions"
)

// sendBuffer is the per-client queue depth; a client further behind
// than this is dropped.
const sendBuffer = 8

// writeTimeout bounds a single websocket write so a stalled peer cannot
// park its writer goroutine forever.
const writeTimeout = 5 * time.Second

// Event tells a consumer that something in a table changed. It carries
// no payload; consumers must refetch rather than apply deltas.
type Event struct {
	Table Table `json:"table"`
}

// Hub fans change events out to websocket clients and in-process
// subscribers. Each client gets a buffered send channel drained by its
// own writer goroutine; Notify never writes to a socket itself, so a
// dead peer cannot block the mutation path. One hub per running
// instance; Close tears it down.
type Hub struct {
	mu      sync.Mutex
	conns   map[*websocket.Conn]chan Event
	subs    map[chan Event]struct{}
	closed  bool
	upgrade websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]chan Event),
		subs:  make(map[chan Event]struct{}),
		upgrade: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Notify broadcasts a change event for a table. Clients and subscribers
// that cannot keep up are dropped rather than blocking the caller.
func (h *Hub) Notify(table Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	ev := Event{Table: table}
	for conn, send := range h.conns {
		select {
		case send <- ev:
		default:
			log.Warn().Msg("Dropping slow websocket client")
			delete(h.conns, conn)
			close(send)
		}
	}
	for sub := range h.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// Subscribe registers an in-process consumer. The returned cancel func
// must be called to release the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, sendBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// ServeWS upgrades the request and keeps the connection registered until
// the peer goes away.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrade.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	send := make(chan Event, sendBuffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.conns[conn] = send
	h.mu.Unlock()

	go h.writer(conn, send)

	// Reads are discarded; the channel is push-only. The read loop
	// exists to detect the peer closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(conn)
				return
			}
		}
	}()
}

// writer drains one client's queue. It ends when the send channel is
// closed (client dropped or hub closed) or a write fails.
func (h *Hub) writer(conn *websocket.Conn, send <-chan Event) {
	defer conn.Close()
	for ev := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			log.Warn().Err(err).Msg("Websocket write failed, dropping client")
			h.remove(conn)
			return
		}
	}
}

// remove unregisters a connection if it is still registered, closing
// its send channel exactly once.
func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(send)
	}
	h.mu.Unlock()
	conn.Close()
}

// Close disconnects every client and subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for conn, send := range h.conns {
		close(send)
		delete(h.conns, conn)
	}
	for sub := range h.subs {
		close(sub)
		delete(h.subs, sub)
	}
}
