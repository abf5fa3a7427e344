package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one key/value pair of an Ordered mapping.
type Entry[V any] struct {
	Key   string
	Value V
}

// Ordered is a JSON object that remembers the order its keys arrived in.
// Re-assigning an existing key keeps its original position.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrdered builds an Ordered mapping from entries, in order.
func NewOrdered[V any](entries ...Entry[V]) Ordered[V] {
	var o Ordered[V]
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

// Set assigns v to key.
func (o *Ordered[V]) Set(key string, v V) {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of keys.
func (o Ordered[V]) Len() int { return len(o.keys) }

// Keys returns the keys in arrival order.
func (o Ordered[V]) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Entries returns the pairs in arrival order.
func (o Ordered[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, Entry[V]{Key: k, Value: o.values[k]})
	}
	return out
}

// UnmarshalJSON decodes a JSON object token by token so key order survives.
// A JSON null decodes to an empty mapping.
func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = Ordered[V]{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	var out Ordered[V]
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", kt)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// MarshalJSON writes the keys in arrival order.
func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
