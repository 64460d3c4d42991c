package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"etugal/internal/repositories"
	"etugal/internal/services"
)

// InboundEvent is the wire schema clients send over a room socket.
type InboundEvent struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// OutboundEvent is the wire schema broadcast to room subscribers.
type OutboundEvent struct {
	Message   string `json:"message"`
	Username  string `json:"username"`
	TimeStamp string `json:"time_stamp"`
}

const timeStampLayout = "2006-01-02T15:04:05.000000"

// Broker runs the message acceptance path for chat rooms: resolve the
// session and sender, suppress rapid duplicates at the persistence step, and
// fan the event out to everyone attached to the room. Events within one room
// are processed in arrival order; rooms are independent.
type Broker struct {
	hub   *ChatHub
	chats services.ChatService
	users repositories.UserRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBroker(hub *ChatHub, chats services.ChatService, users repositories.UserRepository) *Broker {
	return &Broker{
		hub:   hub,
		chats: chats,
		users: users,
		locks: make(map[string]*sync.Mutex),
	}
}

func (b *Broker) Hub() *ChatHub {
	return b.hub
}

func (b *Broker) roomLock(room string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[room]
	if !ok {
		l = &sync.Mutex{}
		b.locks[room] = l
	}
	return l
}

// ServeRoom pumps inbound events from conn until it disconnects. The
// subscriber is registered before the first read so it sees every event
// handled after its join, and removed on exit. Persistence already in flight
// when a subscriber disconnects still completes.
func (b *Broker) ServeRoom(ctx context.Context, room string, conn *Conn) {
	b.hub.Register(room, conn)
	defer b.hub.Unregister(room, conn)

	for {
		var event InboundEvent
		if err := conn.ReadJSON(&event); err != nil {
			return
		}
		b.Handle(ctx, room, event)
	}
}

// Handle runs one event through the acceptance path. Unresolvable events are
// dropped silently: an empty message, an unknown session, or an unknown
// sender produce neither persistence nor broadcast.
func (b *Broker) Handle(ctx context.Context, room string, event InboundEvent) {
	if event.Message == "" {
		return
	}

	l := b.roomLock(room)
	l.Lock()
	defer l.Unlock()

	session, err := b.chats.GetSession(ctx, event.ID)
	if err != nil || session == nil {
		log.Printf("[broker][drop] room=%q session=%d unresolved", room, event.ID)
		return
	}

	sender, err := b.users.FindProfileByUsername(ctx, event.Username)
	if err != nil || sender == nil {
		log.Printf("[broker][drop] room=%q username=%q unresolved", room, event.Username)
		return
	}

	_, suppressed, err := b.chats.SaveMessage(ctx, session.ID, sender.ID, event.Message)
	if err != nil {
		log.Printf("[broker][persist][err] session=%d: %v", session.ID, err)
		// broadcast anyway: delivery is independent of persistence
	} else if suppressed {
		log.Printf("[broker][suppressed] session=%d sender=%d", session.ID, sender.ID)
	}

	b.hub.Broadcast(room, OutboundEvent{
		Message:   event.Message,
		Username:  event.Username,
		TimeStamp: time.Now().UTC().Format(timeStampLayout),
	})
}
