package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem_TimestampID(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	it := NewItem("Clean house", now)

	assert.Equal(t, "1700000000123", it.ID)
	assert.Equal(t, "Clean house", it.Name)
	assert.False(t, it.Done)
}

func TestItem_WireFormat(t *testing.T) {
	b, err := json.Marshal(Item{ID: "1", Name: "Buy milk"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Buy milk","done":false}`, string(b))
}

func TestStats(t *testing.T) {
	d, p := Stats([]Item{{ID: "1", Done: true}, {ID: "2"}, {ID: "3"}})
	assert.Equal(t, 1, d)
	assert.Equal(t, 2, p)
}

func TestItem_KeepsUnknownFields(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"x","done":false,"createdAt":"2024-01-01","owner":"u"}`), &it))

	assert.Equal(t, "1", it.ID)
	assert.Len(t, it.Extra, 2)

	it.Done = true
	b, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"x","done":true,"createdAt":"2024-01-01","owner":"u"}`, string(b))
}

func TestItem_NoExtraStaysNil(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"x"}`), &it))
	assert.Equal(t, Item{ID: "1", Name: "x"}, it)
}

func TestItem_CloneCopiesExtra(t *testing.T) {
	it := Item{ID: "1", Extra: map[string]json.RawMessage{"owner": json.RawMessage(`"u"`)}}

	c := it.Clone()
	c.Extra["owner"] = json.RawMessage(`"v"`)

	assert.JSONEq(t, `"u"`, string(it.Extra["owner"]))
}
