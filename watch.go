// Change notification for shared keys.
//
// Polling is the baseline sync mechanism and works against any store; the
// watch socket is an additive transport for clients talking to the built-in
// server, pushing each new value for a key as it is written. Slow watchers
// are dropped rather than allowed to stall a write.

package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type watchEvent struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type watchHub struct {
	mu   sync.Mutex
	subs map[string]map[chan watchEvent]struct{}
}

func newWatchHub() *watchHub {
	return &watchHub{
		subs: make(map[string]map[chan watchEvent]struct{}),
	}
}

func (h *watchHub) subscribe(key string) chan watchEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan watchEvent, 8)

	if h.subs[key] == nil {
		h.subs[key] = make(map[chan watchEvent]struct{})
	}
	h.subs[key][ch] = struct{}{}

	return ch
}

func (h *watchHub) unsubscribe(key string, ch chan watchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[key]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.subs, key)
		}
	}
}

func (h *watchHub) notify(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[key] {
		select {
		case ch <- watchEvent{Key: key, Value: value}:
		default:
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWatch(cfg *Config, hub *watchHub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		key := p.ByName("key")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}
		defer conn.Close()

		ch := hub.subscribe(key)
		defer hub.unsubscribe(key, ch)

		logf(cfg, "WATCH: %s subscribed to %s", realIP(r), key)

		// Reads are discarded; the goroutine only notices the client
		// going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case event := <-ch:
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			}
		}
	}
}

// Watcher is the client side of the watch socket: an alternative to the
// polling SyncLoop for clients connected to the built-in server. Snapshots
// arrive as they are written instead of on the next poll.
type Watcher struct {
	cfg     *Config
	baseURL string
	code    string

	onUpdate func(*Session)

	lastVersion uint64
}

func NewWatcher(cfg *Config, baseURL, code string, onUpdate func(*Session)) *Watcher {
	return &Watcher{
		cfg:      cfg,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		code:     code,
		onUpdate: onUpdate,
	}
}

func (w *Watcher) Run(ctx context.Context) error {
	wsURL := strings.Replace(w.baseURL, "http", "ws", 1) + "/kv/" + sessionKey(w.code) + "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var event watchEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var session Session
		if err := json.Unmarshal([]byte(event.Value), &session); err != nil {
			logf(w.cfg, "WATCH: Bad payload for %s: %v", event.Key, err)
			continue
		}

		if session.Version == w.lastVersion {
			continue
		}
		w.lastVersion = session.Version

		if w.onUpdate != nil {
			w.onUpdate(&session)
		}
	}
}
