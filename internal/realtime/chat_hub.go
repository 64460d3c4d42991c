package realtime

import "sync"

// ChatHub is the broadcast group registry, keyed by room name. Any number of
// subscribers may attach to a room; joining does not replay history.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
}

func NewChatHub() *ChatHub {
	return &ChatHub{
		rooms: make(map[string]map[*Conn]struct{}),
	}
}

func (h *ChatHub) Register(room string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Conn]struct{})
	}
	h.rooms[room][conn] = struct{}{}
}

// Unregister removes the subscriber and closes its connection; no further
// deliveries are attempted to it.
func (h *ChatHub) Unregister(room string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[room]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
	_ = conn.Close()
}

// Broadcast delivers v to every subscriber currently attached to the room.
func (h *ChatHub) Broadcast(room string, v interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.rooms[room] {
		_ = conn.WriteJSON(v)
	}
}

// Subscribers reports the current attachment count for a room.
func (h *ChatHub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
