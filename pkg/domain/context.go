package domain

import (
	"encoding/json"
	"fmt"
)

// Context is the engine-owned key-value document shared with skills and the
// NLU collaborator. Both receive it by reference and may mutate it in place;
// that is a documented side effect, not a copy. It is the only engine state
// that survives Shutdown, via Serialize.
//
// Context is not safe for concurrent use; the engine serializes all access.
type Context struct {
	values map[string]any
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// ParseContext restores a context from a serialized snapshot.
// A blank snapshot yields an empty context.
func ParseContext(serialized string) (*Context, error) {
	c := NewContext()
	if serialized == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(serialized), &c.values); err != nil {
		return nil, fmt.Errorf("invalid context document: %w", err)
	}
	return c, nil
}

// Get returns the value stored under key, if any.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetString returns the value under key if it is a non-empty string.
func (c *Context) GetString(key string) (string, bool) {
	s, ok := c.values[key].(string)
	return s, ok && s != ""
}

// Set stores value under key.
func (c *Context) Set(key string, value any) {
	c.values[key] = value
}

// Delete removes key from the document.
func (c *Context) Delete(key string) {
	delete(c.values, key)
}

// Has reports whether key is present.
func (c *Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Len returns the number of stored keys.
func (c *Context) Len() int {
	return len(c.values)
}

// Reset discards every stored value.
func (c *Context) Reset() {
	c.values = make(map[string]any)
}

// Serialize renders the document as JSON for the shutdown sink.
func (c *Context) Serialize() (string, error) {
	raw, err := json.Marshal(c.values)
	if err != nil {
		return "", fmt.Errorf("serialize context: %w", err)
	}
	return string(raw), nil
}
