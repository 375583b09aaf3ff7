package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// WSHub fans activity events out to connected clients. Slow clients are
// dropped rather than allowed to block the broadcaster.
type WSHub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]chan wsEvent
}

type wsEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func NewWSHub() *WSHub {
	return &WSHub{conns: make(map[*websocket.Conn]chan wsEvent)}
}

func (h *WSHub) add(c *websocket.Conn) chan wsEvent {
	ch := make(chan wsEvent, 16)
	h.mu.Lock()
	h.conns[c] = ch
	h.mu.Unlock()
	return ch
}

func (h *WSHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast queues an event for every connected client. Never blocks.
func (h *WSHub) Broadcast(event string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.conns {
		select {
		case ch <- wsEvent{Event: event, Data: data}:
		default:
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("api: websocket accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch := s.wsHub.add(conn)
	defer s.wsHub.remove(conn)

	ctx := r.Context()

	// Reader goroutine only watches for the client going away.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
