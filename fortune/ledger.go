package fortune

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/omikujibot/omikuji/store"
)

// ErrAlreadyDrawn is returned by Claim when the user already drew today.
var ErrAlreadyDrawn = errors.New("fortune: user has already drawn today")

// UserEntry records a user's draw for the day.
type UserEntry struct {
	Date    string `json:"date"`
	Fortune string `json:"fortune"`
	Time    string `json:"time"`
}

// LogEntry is one line of a channel's chronological draw log.
type LogEntry struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	UserID  string `json:"userId"`
	Fortune string `json:"fortune"`
}

// Record is a channel's draws for a single day.
type Record struct {
	Date  string               `json:"date"`
	Users map[string]UserEntry `json:"users"`
	Logs  []LogEntry           `json:"logs"`
}

type document struct {
	Channels map[string]*Record `json:"channels"`
}

// Ledger is the channel-keyed draw history, backed by a JSON document.
// A record whose stored day is not today is stale: reads treat it as
// absent, and the next write for that channel replaces it entirely.
type Ledger struct {
	mu       sync.Mutex
	path     string
	logf     func(message string, args ...interface{})
	channels map[string]*Record
	now      func() time.Time
}

// NewLedger loads the ledger from path and lazily purges records left over
// from previous days, writing the pruned document back when anything was
// dropped.
func NewLedger(path string, logf func(message string, args ...interface{})) (*Ledger, error) {
	l := &Ledger{
		path:     path,
		logf:     logf,
		channels: make(map[string]*Record),
		now:      time.Now,
	}

	var doc document
	err := store.Load(path, &doc)
	switch {
	case err == store.ErrNotFound:
	case err != nil:
		return nil, err
	default:
		if doc.Channels != nil {
			l.channels = doc.Channels
		}
	}

	l.prunePersisted()
	return l, nil
}

// prunePersisted purges stale records and writes the pruned document back.
// A failed write-back is not fatal: the in-memory state is already pruned
// and the next successful mutation persists the same view.
func (l *Ledger) prunePersisted() {
	if !l.purgeStale() {
		return
	}
	if err := store.Save(l.path, l.document()); err != nil {
		l.logf("failed to write back pruned draw ledger: %v\n", err)
	}
}

// purgeStale drops channel records from previous days, plus any user entry
// or log line whose date disagrees with its record. Reports whether
// anything changed.
func (l *Ledger) purgeStale() bool {
	today := dateKey(l.now())
	changed := false

	for channel, rec := range l.channels {
		if rec.Date != today {
			delete(l.channels, channel)
			changed = true
			continue
		}

		for user, entry := range rec.Users {
			if entry.Date != today {
				delete(rec.Users, user)
				changed = true
			}
		}

		logs := rec.Logs[:0]
		for _, line := range rec.Logs {
			if line.Date == today {
				logs = append(logs, line)
			} else {
				changed = true
			}
		}
		rec.Logs = logs
	}

	return changed
}

// HasDrawnToday reports whether user already drew in channel today. No I/O.
func (l *Ledger) HasDrawnToday(channel, user string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasDrawnLocked(channel, user, dateKey(l.now()))
}

func (l *Ledger) hasDrawnLocked(channel, user, today string) bool {
	rec, ok := l.channels[channel]
	if !ok || rec.Date != today {
		return false
	}
	entry, ok := rec.Users[user]
	return ok && entry.Date == today
}

// Record stores a draw result for user in channel and persists the ledger.
// A record from a previous day is replaced, not merged. Record does not
// enforce the once-per-day limit itself; gate with HasDrawnToday or use
// Claim.
func (l *Ledger) Record(channel, user, fortune string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recordLocked(channel, user, fortune)
}

func (l *Ledger) recordLocked(channel, user, fortune string) error {
	now := l.now()
	today := dateKey(now)
	timeStr := timeKey(now)

	prev := l.channels[channel]
	rec := prev
	if rec == nil || rec.Date != today {
		rec = &Record{
			Date:  today,
			Users: make(map[string]UserEntry),
			Logs:  nil,
		}
		l.channels[channel] = rec
	}

	prevEntry, hadEntry := rec.Users[user]
	rec.Users[user] = UserEntry{Date: today, Fortune: fortune, Time: timeStr}
	rec.Logs = append(rec.Logs, LogEntry{
		Date:    today,
		Time:    timeStr,
		UserID:  user,
		Fortune: fortune,
	})

	if err := store.Save(l.path, l.document()); err != nil {
		if rec != prev {
			if prev == nil {
				delete(l.channels, channel)
			} else {
				l.channels[channel] = prev
			}
		} else {
			rec.Logs = rec.Logs[:len(rec.Logs)-1]
			if hadEntry {
				rec.Users[user] = prevEntry
			} else {
				delete(rec.Users, user)
			}
		}
		return fmt.Errorf("saving draw ledger: %w", err)
	}
	return nil
}

// Claim draws a fortune for user in channel, enforcing the once-per-day
// limit. The check and the record happen under one lock, so two concurrent
// claims for the same user cannot both succeed.
func (l *Ledger) Claim(channel, user string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasDrawnLocked(channel, user, dateKey(l.now())) {
		return "", ErrAlreadyDrawn
	}

	fortune := Draw()
	if err := l.recordLocked(channel, user, fortune); err != nil {
		return "", err
	}
	return fortune, nil
}

// History returns today's draw log for the channel in chronological order.
// A record from a previous day reads as empty even if it is still on disk.
func (l *Ledger) History(channel string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.channels[channel]
	if !ok || rec.Date != dateKey(l.now()) {
		return nil
	}

	logs := make([]LogEntry, len(rec.Logs))
	copy(logs, rec.Logs)
	return logs
}

func (l *Ledger) document() document {
	return document{Channels: l.channels}
}

// dateKey formats t the way the ledger files always have: unpadded
// year-month-day, e.g. "2026-8-30".
func dateKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

func timeKey(t time.Time) string {
	return t.Format("15:04:05")
}
