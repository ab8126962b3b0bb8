// Package store persists whole JSON documents to disk.
//
// Each caller owns one document at a fixed path and rewrites it in full on
// every mutation. Load distinguishes a missing file from an empty document
// so callers can seed their defaults on first run.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
)

// ErrNotFound is returned by Load when no document exists yet at the path.
var ErrNotFound = errors.New("store: document not found")

// Load reads the JSON document at path into v.
func Load(path string, v interface{}) error {
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", path, err)
	}
	return nil
}

// Save writes v as an indented JSON document at path, replacing whatever
// was there before.
func Save(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
