// registry.go
//
// A Go Fiber storefront backend: catalog, accounts, product images and realtime presence
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of storefront.
// storefront is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// storefront is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with storefront.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package presence tracks the authenticated users holding a realtime connection.
package presence

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/types"
	"go.uber.org/zap"
)

// Events exchanged over the realtime channel
const (
	EventClientsUpdated    = "clients-updated"
	EventMessageFromClient = "message-from-client"
	EventMessageFromServer = "message-from-server"
)

// UnknownUser is the display name for an untracked connection
const UnknownUser = "Unknown"

// NoMessage replaces an empty chat message
const NoMessage = "No message provided"

// Message is the realtime wire envelope
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ChatMessage is the payload of message-from-client and message-from-server
type ChatMessage struct {
	FullName string `json:"fullName,omitempty"`
	Message  string `json:"message"`
}

// Peer is one realtime connection
type Peer interface {
	ID() string
	WriteJSON(v interface{}) error
	Close() error
}

// UserFinder loads users by id, returning a NotFound CustomError when absent
type UserFinder interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
}

type entry struct {
	userID   string
	fullName string
	peer     Peer
}

// Registry maps connection ids to the users holding them.
// It is safe for use by concurrent connection handlers.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]entry
	users   UserFinder
	log     *zap.Logger
}

// NewRegistry tracks clients of users found through users.
func NewRegistry(users UserFinder, log *zap.Logger) *Registry {
	return &Registry{
		clients: make(map[string]entry),
		users:   users,
		log:     log,
	}
}

// RegisterClient tracks peer for userID. The user must exist and be active,
// otherwise nothing is tracked and an Unauthorized error is returned.
// Registering an id again replaces the previous entry.
func (r *Registry) RegisterClient(ctx context.Context, peer Peer, userID string) error {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.NewUnauthorized("User not found")
		}
		return err
	}
	if !user.IsActive {
		return types.NewUnauthorized("User not active")
	}

	r.mu.Lock()
	r.clients[peer.ID()] = entry{
		userID:   user.ID,
		fullName: user.FullName,
		peer:     peer,
	}
	r.mu.Unlock()

	r.log.Debug("Client registered", zap.String("conn", peer.ID()), zap.String("user", user.ID))
	return nil
}

// RemoveClient forgets connID, unknown ids are ignored
func (r *Registry) RemoveClient(connID string) {
	r.mu.Lock()
	delete(r.clients, connID)
	r.mu.Unlock()
}

// ConnectedClients returns the ids of the users with at least one tracked connection
func (r *Registry) ConnectedClients() []string {
	r.mu.RLock()
	seen := make(map[string]struct{}, len(r.clients))
	ids := make([]string, 0, len(r.clients))
	for _, e := range r.clients {
		if _, ok := seen[e.userID]; ok {
			continue
		}
		seen[e.userID] = struct{}{}
		ids = append(ids, e.userID)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// UserFullName returns the display name behind connID, or UnknownUser
func (r *Registry) UserFullName(connID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.clients[connID]; ok {
		return e.fullName
	}
	return UnknownUser
}

// Len is the number of tracked connections
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends event to every tracked peer. Write failures are logged and skipped.
func (r *Registry) Broadcast(event string, data interface{}) {
	r.mu.RLock()
	peers := make([]Peer, 0, len(r.clients))
	for _, e := range r.clients {
		peers = append(peers, e.peer)
	}
	r.mu.RUnlock()

	msg := Message{Event: event, Data: data}
	for _, p := range peers {
		if err := p.WriteJSON(msg); err != nil {
			r.log.Warn("Broadcast write failed",
				zap.String("conn", p.ID()),
				zap.String("event", event),
				zap.Error(err),
			)
		}
	}
}

// BroadcastClients sends the current connected user list to everyone
func (r *Registry) BroadcastClients() {
	r.Broadcast(EventClientsUpdated, r.ConnectedClients())
}

// Relay broadcasts a chat message from connID to everyone, sender included
func (r *Registry) Relay(connID, message string) {
	if message == "" {
		message = NoMessage
	}
	r.Broadcast(EventMessageFromServer, ChatMessage{
		FullName: r.UserFullName(connID),
		Message:  message,
	})
}
