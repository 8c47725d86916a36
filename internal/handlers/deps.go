// Package handlers provides the REST façade over one brokerage session.
package handlers

import (
	"sync"

	"firstrade_bridge/internal/firstrade"
)

// Deps holds the shared dependencies for all handlers. The brokerage client
// is not safe for concurrent use, so every handler takes the mutex for the
// duration of its upstream call.
type Deps struct {
	mu     sync.Mutex
	client *firstrade.Client
}

// NewDeps creates a Deps around an already-constructed client. The client's
// lifecycle (login at startup, discard on process exit) belongs to the
// composing binary, not to the handlers.
func NewDeps(client *firstrade.Client) *Deps {
	return &Deps{client: client}
}

// lock acquires the session and returns the client plus an unlock func.
func (d *Deps) lock() (*firstrade.Client, func()) {
	d.mu.Lock()
	return d.client, d.mu.Unlock
}

// ready reports whether the session has reached the authenticated state.
func (d *Deps) ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client.State() == firstrade.StateAuthenticated
}

// awaitingCode reports whether the handshake is parked on the second
// factor.
func (d *Deps) awaitingCode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client.State() == firstrade.StateAwaitingSecondFactor
}
