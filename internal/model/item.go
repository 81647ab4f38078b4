package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Item is the domain model for a todo entry, as exchanged with the remote service.
//
// Fields the service sends beyond id, name and done are kept in Extra and
// written back on marshal, so an update never drops them.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`

	Extra map[string]json.RawMessage `json:"-"`
}

// itemFields is Item without its methods or Extra.
type itemFields struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

var knownKeys = []string{"id", "name", "done"}

// MarshalJSON writes the known fields over any extra ones.
func (it Item) MarshalJSON() ([]byte, error) {
	known := itemFields{ID: it.ID, Name: it.Name, Done: it.Done}
	if len(it.Extra) == 0 {
		return json.Marshal(known)
	}
	out := make(map[string]any, len(it.Extra)+len(knownKeys))
	for k, v := range it.Extra {
		out[k] = v
	}
	out["id"], out["name"], out["done"] = known.ID, known.Name, known.Done
	return json.Marshal(out)
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (it *Item) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var known itemFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}
	*it = Item{ID: known.ID, Name: known.Name, Done: known.Done, Extra: all}
	return nil
}

// Clone returns it with its own copy of Extra.
func (it Item) Clone() Item {
	if it.Extra == nil {
		return it
	}
	extra := make(map[string]json.RawMessage, len(it.Extra))
	for k, v := range it.Extra {
		extra[k] = append(json.RawMessage(nil), v...)
	}
	it.Extra = extra
	return it
}

// NewItem builds a pending item whose id is derived from now (Unix milliseconds).
func NewItem(name string, now time.Time) Item {
	return Item{
		ID:   strconv.FormatInt(now.UnixMilli(), 10),
		Name: name,
	}
}

// Stats counts done and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
