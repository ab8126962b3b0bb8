// Package reaction keeps the per-channel custom trigger→response table.
//
// Triggers are unique within a channel and carry one of two match modes.
// Resolution is two-pass: exact matches always win over partial ones, and
// ties within a pass go to the earliest registered trigger, so the table
// preserves insertion order in memory and on disk.
package reaction

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/omikujibot/omikuji/store"
)

// MatchType selects how a trigger is compared against a message.
type MatchType string

const (
	// MatchExact requires the message to equal the trigger verbatim.
	MatchExact MatchType = "exact"
	// MatchPartial requires the trigger to be a substring of the message.
	MatchPartial MatchType = "partial"
)

// ErrInvalidMatchType is returned by Register for any unknown match mode.
var ErrInvalidMatchType = errors.New("reaction: match type must be exact or partial")

// Entry is one registered trigger within a channel.
type Entry struct {
	Trigger  string
	Response string
	Match    MatchType
}

type document struct {
	Channels map[string]*channelTable `json:"channels"`
}

// Table is the channel-keyed trigger table, backed by a JSON document.
// Mutations are serialized and persisted before they return; reads never
// touch disk.
type Table struct {
	mu       sync.RWMutex
	path     string
	channels map[string]*channelTable
}

// New loads the table from path. A missing document means no triggers are
// registered yet.
func New(path string) (*Table, error) {
	t := &Table{
		path:     path,
		channels: make(map[string]*channelTable),
	}

	var doc document
	err := store.Load(path, &doc)
	switch {
	case err == store.ErrNotFound:
	case err != nil:
		return nil, err
	default:
		if doc.Channels != nil {
			t.channels = doc.Channels
		}
	}

	return t, nil
}

// Register upserts a trigger for the channel and persists the table.
// Re-registering an existing trigger silently overwrites it in place.
func (t *Table) Register(channel, trigger, response string, match MatchType) error {
	if match != MatchExact && match != MatchPartial {
		return ErrInvalidMatchType
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ct, hadChannel := t.channels[channel]
	if !hadChannel {
		ct = newChannelTable()
		t.channels[channel] = ct
	}

	old, hadTrigger := ct.entries[trigger]
	ct.set(trigger, entryConfig{Response: response, Match: match})

	if err := store.Save(t.path, t.document()); err != nil {
		if hadTrigger {
			ct.entries[trigger] = old
		} else {
			ct.remove(trigger)
		}
		if !hadChannel {
			delete(t.channels, channel)
		}
		return fmt.Errorf("saving reactions: %w", err)
	}
	return nil
}

// Unregister removes a trigger from the channel. It reports whether the
// trigger existed; removing an absent trigger is not an error. The channel
// entry is pruned when its last trigger is removed.
func (t *Table) Unregister(channel, trigger string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ct, ok := t.channels[channel]
	if !ok {
		return false, nil
	}
	old, ok := ct.entries[trigger]
	if !ok {
		return false, nil
	}

	pos := ct.remove(trigger)
	if len(ct.order) == 0 {
		delete(t.channels, channel)
	}

	if err := store.Save(t.path, t.document()); err != nil {
		ct.insertAt(pos, trigger, old)
		t.channels[channel] = ct
		return false, fmt.Errorf("saving reactions: %w", err)
	}
	return true, nil
}

// Has reports whether the channel has a trigger registered. No I/O.
func (t *Table) Has(channel, trigger string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ct, ok := t.channels[channel]
	if !ok {
		return false
	}
	_, ok = ct.entries[trigger]
	return ok
}

// Resolve matches text against the channel's triggers and returns the
// response of the winning entry. Exact matches are checked first across the
// whole channel; only when none hits are partial (substring) matches
// considered, in registration order. No I/O.
func (t *Table) Resolve(channel, text string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ct, ok := t.channels[channel]
	if !ok {
		return "", false
	}

	for _, trigger := range ct.order {
		cfg := ct.entries[trigger]
		if cfg.Match == MatchExact && trigger == text {
			return cfg.Response, true
		}
	}
	for _, trigger := range ct.order {
		cfg := ct.entries[trigger]
		if cfg.Match == MatchPartial && strings.Contains(text, trigger) {
			return cfg.Response, true
		}
	}
	return "", false
}

// List returns the channel's entries in registration order. No I/O.
func (t *Table) List(channel string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ct, ok := t.channels[channel]
	if !ok {
		return nil
	}

	entries := make([]Entry, 0, len(ct.order))
	for _, trigger := range ct.order {
		cfg := ct.entries[trigger]
		entries = append(entries, Entry{
			Trigger:  trigger,
			Response: cfg.Response,
			Match:    cfg.Match,
		})
	}
	return entries
}

func (t *Table) document() document {
	return document{Channels: t.channels}
}
