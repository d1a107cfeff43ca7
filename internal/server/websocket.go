package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to the peer with this period.
	pingPeriod = 54 * time.Second
)

// handleWebSocket upgrades a live-reload subscriber connection and
// registers it with the hub. The browser never sends application
// messages; the server pushes the literal text "reload".
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 8),
	}

	go s.writePump(c)
	go s.readPump(c)

	s.register <- c
}

// runHub owns the subscriber registry. One broadcast delivers the
// signal to every client currently registered; a client whose send
// queue is full is dropped so it cannot block delivery to the rest.
func (s *Server) runHub(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-s.register:
			s.clientsMutex.Lock()
			s.clients[c.conn] = c
			total := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "client connected", "total", total)

		case conn := <-s.unregister:
			s.clientsMutex.Lock()
			if c, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				close(c.send)
			}
			total := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "client disconnected", "total", total)

		case message := <-s.broadcast:
			s.clientsMutex.RLock()
			var stalled []*websocket.Conn
			for conn, c := range s.clients {
				select {
				case c.send <- message:
				default:
					stalled = append(stalled, conn)
				}
			}
			s.clientsMutex.RUnlock()

			// Evict stalled clients outside the read lock.
			s.clientsMutex.Lock()
			for _, conn := range stalled {
				if c, ok := s.clients[conn]; ok {
					delete(s.clients, conn)
					close(c.send)
					conn.Close(websocket.StatusPolicyViolation, "send queue full")
				}
			}
			s.clientsMutex.Unlock()
		}
	}
}

// readPump drains the connection until the client goes away, then
// unregisters it.
func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister <- c.conn
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump delivers queued signals and keeps the connection alive
// with pings.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
