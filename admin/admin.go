// Package admin keeps the per-channel admin registry.
//
// One fixed admin is always authorized in every channel and is never stored
// in the registry itself. Everything else lives in a channel-keyed document
// that is rewritten in full after every mutation.
package admin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/omikujibot/omikuji/store"
)

var (
	// ErrAlreadyAdmin is returned when adding a user who already has the role.
	ErrAlreadyAdmin = errors.New("admin: user is already an admin")
	// ErrNotAdmin is returned when removing a user who does not have the role.
	ErrNotAdmin = errors.New("admin: user is not an admin")
	// ErrProtectedAdmin is returned when trying to remove the fixed admin.
	ErrProtectedAdmin = errors.New("admin: fixed admin cannot be removed")
)

type document struct {
	Channels map[string][]string `json:"channels"`
}

// Registry is the per-channel admin set, backed by a JSON document.
// Mutations are serialized and persisted before they return.
type Registry struct {
	mu         sync.RWMutex
	path       string
	fixedAdmin string
	channels   map[string][]string
}

// New loads the registry from path. A missing document is treated as an
// empty registry and written out immediately so the file exists from the
// first run onwards.
func New(path, fixedAdmin string) (*Registry, error) {
	r := &Registry{
		path:       path,
		fixedAdmin: fixedAdmin,
		channels:   make(map[string][]string),
	}

	var doc document
	err := store.Load(path, &doc)
	switch {
	case err == store.ErrNotFound:
		if err := store.Save(path, r.document()); err != nil {
			return nil, fmt.Errorf("establishing admin registry: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		if doc.Channels != nil {
			r.channels = doc.Channels
		}
	}

	return r, nil
}

// FixedAdmin returns the identity that is always authorized.
func (r *Registry) FixedAdmin() string {
	return r.fixedAdmin
}

// IsAdmin reports whether user is authorized in channel. The fixed admin is
// authorized everywhere. No I/O.
func (r *Registry) IsAdmin(channel, user string) bool {
	if user == r.fixedAdmin {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return contains(r.channels[channel], user)
}

// InitializeChannel ensures an in-memory admin set exists for channel.
// Idempotent; empty sets are never persisted.
func (r *Registry) InitializeChannel(channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[channel]; !ok {
		r.channels[channel] = nil
	}
}

// AddAdmin grants user the admin role in channel and persists the registry.
func (r *Registry) AddAdmin(channel, user string) error {
	if user == r.fixedAdmin {
		return ErrAlreadyAdmin
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, hadChannel := r.channels[channel]
	if contains(prev, user) {
		return ErrAlreadyAdmin
	}

	r.channels[channel] = append(prev, user)
	if err := store.Save(r.path, r.document()); err != nil {
		if hadChannel {
			r.channels[channel] = prev
		} else {
			delete(r.channels, channel)
		}
		return fmt.Errorf("saving admin registry: %w", err)
	}
	return nil
}

// RemoveAdmin revokes the admin role from user in channel and persists the
// registry. The channel entry is pruned when its last admin is removed.
func (r *Registry) RemoveAdmin(channel, user string) error {
	if user == r.fixedAdmin {
		return ErrProtectedAdmin
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	admins := r.channels[channel]
	idx := -1
	for i, a := range admins {
		if a == user {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotAdmin
	}

	updated := make([]string, 0, len(admins)-1)
	updated = append(updated, admins[:idx]...)
	updated = append(updated, admins[idx+1:]...)
	if len(updated) == 0 {
		delete(r.channels, channel)
	} else {
		r.channels[channel] = updated
	}

	if err := store.Save(r.path, r.document()); err != nil {
		r.channels[channel] = admins
		return fmt.Errorf("saving admin registry: %w", err)
	}
	return nil
}

// ListAdmins returns the fixed admin followed by the channel's admins in
// insertion order.
func (r *Registry) ListAdmins(channel string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admins := make([]string, 0, len(r.channels[channel])+1)
	admins = append(admins, r.fixedAdmin)
	admins = append(admins, r.channels[channel]...)
	return admins
}

// document builds the persisted view of the registry. Channels that were
// initialized but never gained an admin are left out so no empty
// placeholder ever reaches disk.
func (r *Registry) document() document {
	doc := document{Channels: make(map[string][]string, len(r.channels))}
	for channel, admins := range r.channels {
		if len(admins) == 0 {
			continue
		}
		doc.Channels[channel] = admins
	}
	return doc
}

func contains(users []string, user string) bool {
	for _, u := range users {
		if u == user {
			return true
		}
	}
	return false
}
