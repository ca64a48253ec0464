package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// StorageKey is the key the item snapshot lives under.
const StorageKey = "todoItems"

// ErrMalformedSnapshot wraps any decode or schema failure of a stored snapshot.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaJSON)

// EncodeSnapshot serializes items as a JSON array. A nil slice encodes as [].
func EncodeSnapshot(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// DecodeSnapshot parses a stored snapshot. The literal "null" decodes to an
// empty list; anything that is not an array of {id, name, completed} objects
// fails with ErrMalformedSnapshot.
func DecodeSnapshot(s string) ([]Item, error) {
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if doc == nil {
		return []Item{}, nil
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return items, nil
}
