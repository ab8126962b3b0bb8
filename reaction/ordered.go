package reaction

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type entryConfig struct {
	Response string    `json:"response"`
	Match    MatchType `json:"matchType"`
}

// channelTable is an insertion-ordered trigger map. encoding/json maps drop
// key order, so the table marshals itself object-style with the keys in
// registration order and walks the decoder token by token on the way back in.
type channelTable struct {
	order   []string
	entries map[string]entryConfig
}

func newChannelTable() *channelTable {
	return &channelTable{entries: make(map[string]entryConfig)}
}

// set upserts a trigger, appending to the order only when it is new.
func (ct *channelTable) set(trigger string, cfg entryConfig) {
	if _, ok := ct.entries[trigger]; !ok {
		ct.order = append(ct.order, trigger)
	}
	ct.entries[trigger] = cfg
}

// remove deletes a trigger and returns the position it held.
func (ct *channelTable) remove(trigger string) int {
	delete(ct.entries, trigger)
	for i, name := range ct.order {
		if name == trigger {
			ct.order = append(ct.order[:i], ct.order[i+1:]...)
			return i
		}
	}
	return -1
}

// insertAt restores a trigger at its former position.
func (ct *channelTable) insertAt(pos int, trigger string, cfg entryConfig) {
	if ct.entries == nil {
		ct.entries = make(map[string]entryConfig)
	}
	ct.entries[trigger] = cfg
	if pos < 0 || pos >= len(ct.order) {
		ct.order = append(ct.order, trigger)
		return
	}
	ct.order = append(ct.order, "")
	copy(ct.order[pos+1:], ct.order[pos:])
	ct.order[pos] = trigger
}

func (ct *channelTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, trigger := range ct.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(trigger)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(ct.entries[trigger])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ct *channelTable) UnmarshalJSON(data []byte) error {
	ct.order = nil
	ct.entries = make(map[string]entryConfig)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("reaction: channel table must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		trigger, ok := tok.(string)
		if !ok {
			return fmt.Errorf("reaction: unexpected key token %v", tok)
		}

		var cfg entryConfig
		if err := dec.Decode(&cfg); err != nil {
			return err
		}
		ct.set(trigger, cfg)
	}

	_, err = dec.Token() // closing brace
	return err
}
