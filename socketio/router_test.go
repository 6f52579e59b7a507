package socketio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type emitted struct {
	connID  string
	event   string
	payload any
}

type broadcasted struct {
	event   string
	payload any
}

// fakeEmitter records deliveries instead of pushing them over a transport.
type fakeEmitter struct {
	emits      []emitted
	broadcasts []broadcasted
}

func (f *fakeEmitter) Emit(connID string, event string, payload any) {
	f.emits = append(f.emits, emitted{connID: connID, event: event, payload: payload})
}

func (f *fakeEmitter) Broadcast(event string, payload any) {
	f.broadcasts = append(f.broadcasts, broadcasted{event: event, payload: payload})
}

func newTestRouter() (*Router, *fakeEmitter) {
	emitter := &fakeEmitter{}
	rt := NewRouter(NewRegistry(), emitter)
	rt.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return rt, emitter
}

func TestRouterRegisterBroadcastsOnlineUsers(t *testing.T) {
	rt, emitter := newTestRouter()

	rt.Register("1", "conn-a")

	assert.Len(t, emitter.broadcasts, 1)
	assert.Equal(t, "onlineUsers", emitter.broadcasts[0].event)
	assert.ElementsMatch(t, []string{"1"}, emitter.broadcasts[0].payload)
}

func TestRouterRegisterEmptyUserIgnored(t *testing.T) {
	rt, emitter := newTestRouter()

	rt.Register("", "conn-a")

	assert.Empty(t, emitter.broadcasts, "expected no broadcast for an empty user id")
	assert.Empty(t, rt.registry.Online())
}

func TestRouterDisconnectAlwaysBroadcasts(t *testing.T) {
	rt, emitter := newTestRouter()

	// Disconnect of a connection that never registered still announces the
	// online set.
	rt.Disconnect("conn-unknown")
	assert.Len(t, emitter.broadcasts, 1)
	assert.Equal(t, "onlineUsers", emitter.broadcasts[0].event)

	rt.Register("1", "conn-a")
	rt.Disconnect("conn-a")

	last := emitter.broadcasts[len(emitter.broadcasts)-1]
	assert.Equal(t, "onlineUsers", last.event)
	assert.Empty(t, last.payload)
}

func TestRouterSendMessageReceiverOnline(t *testing.T) {
	rt, emitter := newTestRouter()
	rt.Register("2", "conn-b")
	emitter.broadcasts = nil

	data := map[string]any{"content": "hi"}
	rt.SendMessage("conn-a", "1", "2", data)

	assert.Len(t, emitter.emits, 2)

	assert.Equal(t, "conn-b", emitter.emits[0].connID)
	assert.Equal(t, "receiveMessage", emitter.emits[0].event)
	payload := emitter.emits[0].payload.(map[string]any)
	assert.Equal(t, "1", payload["senderId"])
	assert.Equal(t, data, payload["data"])

	assert.Equal(t, "conn-a", emitter.emits[1].connID)
	assert.Equal(t, "messageSent", emitter.emits[1].event)
	ack := emitter.emits[1].payload.(map[string]any)
	assert.Equal(t, "2", ack["receiverId"])
}

func TestRouterSendMessageReceiverOffline(t *testing.T) {
	rt, emitter := newTestRouter()

	rt.SendMessage("conn-a", "1", "2", map[string]any{"content": "hi"})

	// The sender ack is unconditional; the receiver push never happens.
	assert.Len(t, emitter.emits, 1)
	assert.Equal(t, "conn-a", emitter.emits[0].connID)
	assert.Equal(t, "messageSent", emitter.emits[0].event)
}

func TestRouterSendMessageMissingIDs(t *testing.T) {
	rt, emitter := newTestRouter()

	rt.SendMessage("conn-a", "", "2", nil)
	rt.SendMessage("conn-a", "1", "", nil)

	assert.Empty(t, emitter.emits, "expected malformed sends to be dropped")
}

func TestRouterTyping(t *testing.T) {
	rt, emitter := newTestRouter()
	rt.Register("2", "conn-b")
	emitter.broadcasts = nil

	rt.Typing("1", "2")
	rt.StopTyping("1", "2")

	assert.Len(t, emitter.emits, 2)
	assert.Equal(t, "typing", emitter.emits[0].event)
	assert.Equal(t, "conn-b", emitter.emits[0].connID)
	assert.Equal(t, "stopTyping", emitter.emits[1].event)

	// Offline receiver: nothing is queued.
	rt.Typing("1", "3")
	assert.Len(t, emitter.emits, 2)
}

func TestRouterDeleteMessage(t *testing.T) {
	rt, emitter := newTestRouter()
	rt.Register("2", "conn-b")

	rt.DeleteMessage("conn-a", "42", "2")

	assert.Len(t, emitter.emits, 2)
	assert.Equal(t, "conn-b", emitter.emits[0].connID)
	assert.Equal(t, "messageDeleted", emitter.emits[0].event)
	assert.Equal(t, "conn-a", emitter.emits[1].connID)
	assert.Equal(t, "messageDeleted", emitter.emits[1].event)
}

func TestRouterDeleteMessageReceiverOffline(t *testing.T) {
	rt, emitter := newTestRouter()

	rt.DeleteMessage("conn-a", "42", "2")

	assert.Len(t, emitter.emits, 1, "expected only the own-confirmation emit")
	assert.Equal(t, "conn-a", emitter.emits[0].connID)
}

func TestRouterReactMessage(t *testing.T) {
	rt, emitter := newTestRouter()
	rt.Register("2", "conn-b")

	rt.ReactMessage("conn-a", "42", "❤️", "2", "1")

	assert.Len(t, emitter.emits, 2)
	assert.Equal(t, "messageReacted", emitter.emits[0].event)
	assert.Equal(t, "conn-b", emitter.emits[0].connID)
	forward := emitter.emits[0].payload.(map[string]any)
	assert.Equal(t, "❤️", forward["reaction"])
	assert.Equal(t, "1", forward["senderId"])

	assert.Equal(t, "reactionAcknowledged", emitter.emits[1].event)
	assert.Equal(t, "conn-a", emitter.emits[1].connID)
}

func TestRouterNotifyUser(t *testing.T) {
	rt, emitter := newTestRouter()
	rt.Register("1", "conn-a")

	ok := rt.NotifyUser("1", "invitationReceived", "payload")
	assert.True(t, ok)
	assert.Len(t, emitter.emits, 1)
	assert.Equal(t, "invitationReceived", emitter.emits[0].event)

	ok = rt.NotifyUser("2", "invitationReceived", "payload")
	assert.False(t, ok, "expected offline user to report not delivered")
	assert.Len(t, emitter.emits, 1)
}
