package socketio

import "time"

// Emitter is the transport side of the event router: deliver a named event to
// one connection, or to every connection. Pushes are fire-and-forget; no
// acknowledgement is awaited and failures are not retried.
type Emitter interface {
	Emit(connID string, event string, payload any)
	Broadcast(event string, payload any)
}

// Router dispatches inbound real-time events to the right connections using
// the presence registry. It holds no durable state: an offline receiver simply
// gets no push and later pulls missed messages through the REST history
// endpoint. Events are not deduplicated here; persisted-message identity on
// the REST path covers retransmits.
type Router struct {
	registry *Registry
	emitter  Emitter
	now      func() time.Time
}

func NewRouter(registry *Registry, emitter Emitter) *Router {
	return &Router{
		registry: registry,
		emitter:  emitter,
		now:      time.Now,
	}
}

// Register marks a user online on connID and broadcasts the updated online
// set. The broadcast is synchronous so it always reflects the registry state
// immediately after the mutation.
func (rt *Router) Register(userID string, connID string) {
	if userID == "" {
		return
	}
	rt.registry.Register(userID, connID)
	rt.emitter.Broadcast("onlineUsers", rt.registry.Online())
}

// Disconnect drops whatever registration connID holds and broadcasts the
// online set. Connections that never registered still trigger the broadcast,
// matching the transport's disconnect contract.
func (rt *Router) Disconnect(connID string) {
	rt.registry.Remove(connID)
	rt.emitter.Broadcast("onlineUsers", rt.registry.Online())
}

// SendMessage pushes the payload to the receiver's connection when online and
// always acknowledges the sender on its own connection. Persistence of the
// message is the REST path's separate responsibility.
func (rt *Router) SendMessage(senderConn string, senderID string, receiverID string, data map[string]any) {
	if senderID == "" || receiverID == "" {
		return
	}
	if connID, ok := rt.registry.Lookup(receiverID); ok {
		rt.emitter.Emit(connID, "receiveMessage", map[string]any{
			"senderId":  senderID,
			"data":      data,
			"createdAt": rt.now(),
		})
	}
	rt.emitter.Emit(senderConn, "messageSent", map[string]any{
		"receiverId": receiverID,
		"data":       data,
		"createdAt":  rt.now(),
	})
}

// Typing forwards an ephemeral typing notification; nothing is retained and
// offline receivers see nothing.
func (rt *Router) Typing(senderID string, receiverID string) {
	if connID, ok := rt.registry.Lookup(receiverID); ok {
		rt.emitter.Emit(connID, "typing", map[string]any{"senderId": senderID})
	}
}

func (rt *Router) StopTyping(senderID string, receiverID string) {
	if connID, ok := rt.registry.Lookup(receiverID); ok {
		rt.emitter.Emit(connID, "stopTyping", map[string]any{"senderId": senderID})
	}
}

// DeleteMessage forwards the deletion to the receiver when online; the
// initiating connection always gets its own confirmation.
func (rt *Router) DeleteMessage(senderConn string, messageID string, receiverID string) {
	if connID, ok := rt.registry.Lookup(receiverID); ok {
		rt.emitter.Emit(connID, "messageDeleted", map[string]any{"messageId": messageID})
	}
	rt.emitter.Emit(senderConn, "messageDeleted", map[string]any{"messageId": messageID})
}

// ReactMessage forwards the reaction to the receiver when online and always
// acknowledges the sender.
func (rt *Router) ReactMessage(senderConn string, messageID string, reaction string, receiverID string, senderID string) {
	if connID, ok := rt.registry.Lookup(receiverID); ok {
		rt.emitter.Emit(connID, "messageReacted", map[string]any{
			"messageId": messageID,
			"reaction":  reaction,
			"senderId":  senderID,
			"updatedAt": rt.now(),
		})
	}
	rt.emitter.Emit(senderConn, "reactionAcknowledged", map[string]any{
		"messageId": messageID,
		"reaction":  reaction,
	})
}

// NotifyUser pushes a targeted event to a user's current connection and
// reports whether the user was online. Used by the REST handlers for the
// real-time half of the delivery policy.
func (rt *Router) NotifyUser(userID string, event string, payload any) bool {
	connID, ok := rt.registry.Lookup(userID)
	if !ok {
		return false
	}
	rt.emitter.Emit(connID, event, payload)
	return true
}
