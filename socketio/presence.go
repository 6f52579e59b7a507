package socketio

import "sync"

// Registry is the in-memory presence map: which user currently owns which
// live connection. It is process-wide shared state mutated from concurrent
// handlers, so every read-modify-write sequence holds the mutex; the mutex is
// never held across I/O. Nothing is persisted: a restart makes every user
// offline until they re-register.
type Registry struct {
	mu    sync.RWMutex
	users map[string]string // user id -> connection id
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[string]string)}
}

// Register records userID as online on connID, unconditionally displacing any
// prior connection for the same user (last registration wins). The displaced
// connection is not notified.
func (r *Registry) Register(userID string, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = connID
}

// Lookup returns the current connection for a user, or false if offline.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.users[userID]
	return connID, ok
}

// Remove deletes the entry owned by connID, if any, and returns the user it
// belonged to. A connection displaced by a later registration no longer owns
// an entry, so at most one match exists. Unknown connections are a no-op.
func (r *Registry) Remove(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, id := range r.users {
		if id == connID {
			delete(r.users, userID)
			return userID, true
		}
	}
	return "", false
}

// Online returns the ids of all currently registered users.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.users))
	for userID := range r.users {
		ids = append(ids, userID)
	}
	return ids
}
