package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/nadeos/bmd-exporter/pkg/money"
)

// Row is an ordered key/value projection of one order+document pair.
// Values are strings, ints or float64; monetary float values render with a
// comma decimal separator in CSV output.
type Row struct {
	keys   []string
	values map[string]any
}

func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// Set appends the key on first write and overwrites the value otherwise.
func (r *Row) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Value returns the raw value for key.
func (r *Row) Value(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Float returns the value at key as float64, 0 when absent or non-numeric.
func (r *Row) Float(key string) float64 {
	v, ok := r.values[key]
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// Keys returns the keys in insertion order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Without returns a copy of the row with the given keys removed.
func (r *Row) Without(drop ...string) *Row {
	dropped := make(map[string]bool, len(drop))
	for _, k := range drop {
		dropped[k] = true
	}

	out := NewRow()
	for _, k := range r.keys {
		if dropped[k] {
			continue
		}
		out.Set(k, r.values[k])
	}
	return out
}

// Hash is a content hash over the row's values, used to collapse duplicate
// joins. Key order does not influence the hash.
func (r *Row) Hash() string {
	// map marshalling sorts keys, so the hash is deterministic
	b, _ := json.Marshal(r.values)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Record renders the row as CSV fields in the given key order. Missing keys
// yield empty fields.
func (r *Row) Record(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		v, ok := r.values[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			out[i] = t
		case float64:
			out[i] = money.FormatComma(t)
		case int:
			out[i] = strconv.Itoa(t)
		default:
			b, _ := json.Marshal(t)
			out[i] = string(b)
		}
	}
	return out
}
