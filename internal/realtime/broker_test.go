package realtime

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etugal/internal/models"
)

// newConnPair wires two Conns over an in-memory pipe so frames written by one
// end can be read back from the other.
func newConnPair() (*Conn, *Conn) {
	serverEnd, clientEnd := net.Pipe()
	server := &Conn{
		conn: serverEnd,
		rw:   bufio.NewReadWriter(bufio.NewReader(serverEnd), bufio.NewWriter(serverEnd)),
	}
	client := &Conn{
		conn: clientEnd,
		rw:   bufio.NewReadWriter(bufio.NewReader(clientEnd), bufio.NewWriter(clientEnd)),
	}
	return server, client
}

// collectEvents pumps outbound frames from the client end into a channel.
func collectEvents(t *testing.T, client *Conn) <-chan OutboundEvent {
	t.Helper()
	ch := make(chan OutboundEvent, 8)
	go func() {
		for {
			var event OutboundEvent
			if err := client.ReadJSON(&event); err != nil {
				close(ch)
				return
			}
			ch <- event
		}
	}()
	return ch
}

type saveCall struct {
	sessionID int64
	profileID int64
	text      string
}

// fakeChats implements services.ChatService for the broker paths.
type fakeChats struct {
	sessions  map[int64]*models.ChatSession
	saves     []saveCall
	suppress  bool
	saveError error
}

func (f *fakeChats) GetOrCreateSession(_ context.Context, _, _, _ int64, _ string) (*models.ChatSession, bool, error) {
	return nil, false, nil
}

func (f *fakeChats) ListSessionsForUser(_ context.Context, _ int64) ([]*models.ChatSession, error) {
	return nil, nil
}

func (f *fakeChats) FindByRoomName(_ context.Context, _ string) (*models.ChatSession, error) {
	return nil, nil
}

func (f *fakeChats) GetSession(_ context.Context, id int64) (*models.ChatSession, error) {
	return f.sessions[id], nil
}

func (f *fakeChats) SearchUsers(_ context.Context, _ string) ([]*models.UserProfile, error) {
	return nil, nil
}

func (f *fakeChats) ListMessages(_ context.Context, _ int64) ([]*models.ChatMessage, error) {
	return nil, nil
}

func (f *fakeChats) SaveMessage(_ context.Context, sessionID, senderProfileID int64, text string) (*models.ChatMessage, bool, error) {
	f.saves = append(f.saves, saveCall{sessionID: sessionID, profileID: senderProfileID, text: text})
	if f.saveError != nil {
		return nil, false, f.saveError
	}
	if f.suppress {
		return nil, true, nil
	}
	return &models.ChatMessage{SessionID: sessionID, ProfileID: senderProfileID, Message: text}, false, nil
}

// fakeProfiles implements repositories.UserRepository; only username lookup
// matters to the broker.
type fakeProfiles struct {
	byEmail map[string]*models.UserProfile
}

func (f *fakeProfiles) CreateUser(_ context.Context, _ *models.User) error           { return nil }
func (f *fakeProfiles) CreateProfile(_ context.Context, _ *models.UserProfile) error { return nil }
func (f *fakeProfiles) FindUserByID(_ context.Context, _ int64) (*models.User, error) {
	return nil, nil
}
func (f *fakeProfiles) FindUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (f *fakeProfiles) FindProfileByID(_ context.Context, _ int64) (*models.UserProfile, error) {
	return nil, nil
}
func (f *fakeProfiles) FindProfileByUserID(_ context.Context, _ int64) (*models.UserProfile, error) {
	return nil, nil
}
func (f *fakeProfiles) FindProfileByUsername(_ context.Context, email string) (*models.UserProfile, error) {
	return f.byEmail[email], nil
}
func (f *fakeProfiles) UpdateTrust(_ context.Context, _ *models.UserProfile) error        { return nil }
func (f *fakeProfiles) UpdateVerification(_ context.Context, _ *models.UserProfile) error { return nil }
func (f *fakeProfiles) SearchProfilesByName(_ context.Context, _ string) ([]*models.UserProfile, error) {
	return nil, nil
}

func newBrokerFixture() (*Broker, *fakeChats) {
	chats := &fakeChats{
		sessions: map[int64]*models.ChatSession{
			7: {ID: 7, TaskID: 1, ProviderID: 1, PerformerID: 2, RoomName: "room_7"},
		},
	}
	users := &fakeProfiles{
		byEmail: map[string]*models.UserProfile{
			"ann@example.com": {ID: 2, User: &models.User{ID: 2, Email: "ann@example.com"}},
		},
	}
	return NewBroker(NewChatHub(), chats, users), chats
}

func TestHandlePersistsAndBroadcasts(t *testing.T) {
	broker, chats := newBrokerFixture()
	server, client := newConnPair()
	broker.Hub().Register("room_7", server)
	defer broker.Hub().Unregister("room_7", server)
	events := collectEvents(t, client)

	broker.Handle(context.Background(), "room_7", InboundEvent{
		Message:  "hello",
		Username: "ann@example.com",
		ID:       7,
	})

	select {
	case event := <-events:
		assert.Equal(t, "hello", event.Message)
		assert.Equal(t, "ann@example.com", event.Username)
		ts, err := time.Parse(timeStampLayout, event.TimeStamp)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	require.Len(t, chats.saves, 1)
	assert.Equal(t, saveCall{sessionID: 7, profileID: 2, text: "hello"}, chats.saves[0])
}

func TestHandleSuppressedStillBroadcasts(t *testing.T) {
	broker, chats := newBrokerFixture()
	chats.suppress = true
	server, client := newConnPair()
	broker.Hub().Register("room_7", server)
	defer broker.Hub().Unregister("room_7", server)
	events := collectEvents(t, client)

	broker.Handle(context.Background(), "room_7", InboundEvent{
		Message:  "hello",
		Username: "ann@example.com",
		ID:       7,
	})

	select {
	case event := <-events:
		assert.Equal(t, "hello", event.Message)
	case <-time.After(time.Second):
		t.Fatal("suppressed message must still be broadcast")
	}
}

func TestHandleDropsEmptyMessage(t *testing.T) {
	broker, chats := newBrokerFixture()

	broker.Handle(context.Background(), "room_7", InboundEvent{
		Username: "ann@example.com",
		ID:       7,
	})

	assert.Empty(t, chats.saves)
}

func TestHandleDropsUnknownSession(t *testing.T) {
	broker, chats := newBrokerFixture()

	broker.Handle(context.Background(), "room_7", InboundEvent{
		Message:  "hello",
		Username: "ann@example.com",
		ID:       404,
	})

	assert.Empty(t, chats.saves)
}

func TestHandleDropsUnknownSender(t *testing.T) {
	broker, chats := newBrokerFixture()

	broker.Handle(context.Background(), "room_7", InboundEvent{
		Message:  "hello",
		Username: "ghost@example.com",
		ID:       7,
	})

	assert.Empty(t, chats.saves)
}

func TestServeRoomUnregistersOnDisconnect(t *testing.T) {
	broker, _ := newBrokerFixture()
	server, client := newConnPair()

	done := make(chan struct{})
	go func() {
		broker.ServeRoom(context.Background(), "room_7", server)
		close(done)
	}()

	// wait for registration, then drop the peer
	require.Eventually(t, func() bool {
		return broker.Hub().Subscribers("room_7") == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, client.conn.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ServeRoom did not return after disconnect")
	}
	assert.Equal(t, 0, broker.Hub().Subscribers("room_7"))
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewChatHub()
	serverA, clientA := newConnPair()
	serverB, clientB := newConnPair()
	hub.Register("room", serverA)
	hub.Register("room", serverB)
	defer hub.Unregister("room", serverA)
	defer hub.Unregister("room", serverB)

	eventsA := collectEvents(t, clientA)
	eventsB := collectEvents(t, clientB)

	hub.Broadcast("room", OutboundEvent{Message: "hi", Username: "ann@example.com"})

	for _, events := range []<-chan OutboundEvent{eventsA, eventsB} {
		select {
		case event := <-events:
			assert.Equal(t, "hi", event.Message)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the broadcast")
		}
	}
}
