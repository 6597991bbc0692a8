package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plus3/blockfall/leaderboard"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Feed pushes the standings to every connected websocket client: once on
// connect and again after each recorded game.
type Feed struct {
	upgrader  websocket.Upgrader
	standings func(context.Context) ([]leaderboard.Entry, error)
	log       *slog.Logger

	mu      sync.RWMutex
	clients map[*feedClient]struct{}
}

// feedClient wraps one websocket connection with its outgoing queue.
type feedClient struct {
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func newFeed(allowed func(origin string) bool, standings func(context.Context) ([]leaderboard.Entry, error), logger *slog.Logger) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowed(r.Header.Get("Origin"))
			},
		},
		standings: standings,
		log:       logger.With("component", "feed"),
		clients:   make(map[*feedClient]struct{}),
	}
}

// ServeWS upgrades the request and registers the connection.
func (f *Feed) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &feedClient{ws: ws, send: make(chan []byte, 16)}

	if msg, err := f.snapshot(r.Context()); err == nil {
		client.send <- msg
	} else {
		f.log.Error("load standings for new client", "error", err)
	}

	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()
	f.log.Debug("client connected", "remote", r.RemoteAddr)

	go client.writePump()
	go f.readPump(client)
}

// Publish sends the current standings to every client.
func (f *Feed) Publish(ctx context.Context) {
	msg, err := f.snapshot(ctx)
	if err != nil {
		f.log.Error("load standings for broadcast", "error", err)
		return
	}

	var slow []*feedClient
	f.mu.RLock()
	for client := range f.clients {
		select {
		case client.send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	f.mu.RUnlock()

	for _, client := range slow {
		f.log.Warn("dropping slow feed client", "remote", client.ws.RemoteAddr())
		f.remove(client)
	}
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Close disconnects every client.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		client.close()
		delete(f.clients, client)
	}
}

func (f *Feed) snapshot(ctx context.Context) ([]byte, error) {
	entries, err := f.standings(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(leaderboard.FeedMessage{Type: leaderboard.FeedStandings, Entries: entries})
}

func (f *Feed) remove(client *feedClient) {
	f.mu.Lock()
	delete(f.clients, client)
	f.mu.Unlock()
	client.close()
}

// readPump only watches for the connection going away; clients send
// nothing the feed acts on.
func (f *Feed) readPump(client *feedClient) {
	defer f.remove(client)

	client.ws.SetReadLimit(512)
	client.ws.SetReadDeadline(time.Now().Add(pongWait))
	client.ws.SetPongHandler(func(string) error {
		return client.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.log.Debug("feed client read error", "error", err)
			}
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close ends the write pump, which sends a close frame and releases the
// connection.
func (c *feedClient) close() {
	c.once.Do(func() { close(c.send) })
}
