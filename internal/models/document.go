package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the single persisted object representing the entire user
// store. The wire layout is {"users": {<id>: <UserRecord>}}.
//
// Go maps do not preserve key order, but the leaderboard breaks XP ties
// by insertion order, so the document tracks the order users were first
// added and round-trips it through (de)serialization.
type Document struct {
	Users map[string]*UserRecord

	order []string
}

func NewDocument() *Document {
	return &Document{Users: make(map[string]*UserRecord)}
}

// Get returns the record for userID, or nil if absent.
func (d *Document) Get(userID string) *UserRecord {
	return d.Users[userID]
}

// Put inserts or replaces a record, recording insertion order for new
// users.
func (d *Document) Put(userID string, record *UserRecord) {
	if d.Users == nil {
		d.Users = make(map[string]*UserRecord)
	}
	if _, exists := d.Users[userID]; !exists {
		d.order = append(d.order, userID)
	}
	d.Users[userID] = record
}

// UserIDs returns user identifiers in insertion order.
func (d *Document) UserIDs() []string {
	ids := make([]string, len(d.order))
	copy(ids, d.order)
	return ids
}

func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"users":{`)
	for i, id := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		rec, err := json.Marshal(d.Users[id])
		if err != nil {
			return nil, err
		}
		buf.Write(rec)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	d.Users = make(map[string]*UserRecord)
	d.order = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		if key != "users" {
			// Unknown top-level field, skip its value.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
			continue
		}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			idTok, err := dec.Token()
			if err != nil {
				return err
			}
			id, _ := idTok.(string)
			var rec UserRecord
			if err := dec.Decode(&rec); err != nil {
				return err
			}
			d.Put(id, &rec)
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return err
		}
	}
	_, err := dec.Token() // closing '}'
	return err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
