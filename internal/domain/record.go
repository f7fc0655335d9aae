package domain

import (
	"encoding/json"
	"reflect"
)

// Record is a field map that remembers, per field, the value it held just
// before its most recent change. Only fields from the record's closed key set
// are stored; anything else is ignored.
type Record struct {
	keys     map[string]struct{}
	data     map[string]any
	previous map[string]any
}

func newRecord(keys []string, defaults map[string]any) Record {
	r := Record{
		keys:     make(map[string]struct{}, len(keys)),
		data:     make(map[string]any, len(keys)),
		previous: map[string]any{},
	}
	for _, k := range keys {
		r.keys[k] = struct{}{}
	}
	for k, v := range defaults {
		r.data[k] = v
	}
	return r
}

// Known reports whether key belongs to the record's field set.
func (r *Record) Known(key string) bool {
	_, ok := r.keys[key]
	return ok
}

func (r *Record) Get(key string) any {
	return r.data[key]
}

// Set stores v under key. When v differs from the stored value, or nothing
// is stored yet, the old value is kept as the field's previous value.
func (r *Record) Set(key string, v any) {
	if !r.Known(key) {
		return
	}
	cur, ok := r.data[key]
	if ok && cur != nil && reflect.DeepEqual(cur, v) {
		return
	}
	r.previous[key] = cur
	r.data[key] = v
}

// Previous returns the value key held before its last change and whether the
// field has been changed at all since the last baseline.
func (r *Record) Previous(key string) (any, bool) {
	v, ok := r.previous[key]
	return v, ok
}

// Identity returns the previous value of key when one was recorded and is
// non-null, otherwise the current value. Server-side resources are addressed
// by it so a renamed record still reaches its old path.
func (r *Record) Identity(key string) any {
	if v, ok := r.previous[key]; ok && v != nil {
		return v
	}
	return r.data[key]
}

// Changed lists the fields that have a recorded previous value.
func (r *Record) Changed() []string {
	out := make([]string, 0, len(r.previous))
	for k := range r.previous {
		out = append(out, k)
	}
	return out
}

// Hydrate assigns fields from src without tracking them.
func (r *Record) Hydrate(src map[string]any) {
	for k, v := range src {
		if r.Known(k) {
			r.data[k] = v
		}
	}
}

// Replace discards the current state and tracking and loads src as the new
// baseline. Used after a successful server round trip.
func (r *Record) Replace(src map[string]any) {
	r.data = make(map[string]any, len(r.keys))
	r.previous = map[string]any{}
	r.Hydrate(src)
}

// Payload is the wire form: every non-null field plus null fields that were
// explicitly changed.
func (r *Record) Payload() map[string]any {
	out := make(map[string]any, len(r.data))
	for k, v := range r.data {
		if v != nil {
			out[k] = v
		}
	}
	for k := range r.previous {
		if _, ok := out[k]; !ok {
			out[k] = r.data[k]
		}
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

func (r *Record) unmarshal(b []byte) error {
	var src map[string]any
	if err := json.Unmarshal(b, &src); err != nil {
		return err
	}
	r.Hydrate(src)
	return nil
}
