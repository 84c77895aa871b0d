package status

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade. Components cache pointers at
// construction; frame loops write to the atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Entry is one metric in a snapshot, value already formatted
type Entry struct {
	Key   string
	Value string
}

// Snapshot returns every metric sorted by key, for the overlay and
// the bench report. Reads are atomic per metric, not mutually
// consistent across metrics
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, r.TotalCount())
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		out = append(out, Entry{key, strconv.FormatBool(ptr.Load())})
	})
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out = append(out, Entry{key, strconv.FormatInt(ptr.Load(), 10)})
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out = append(out, Entry{key, strconv.FormatFloat(ptr.Get(), 'f', 3, 64)})
	})
	r.Strings.Range(func(key string, ptr *AtomicString) {
		out = append(out, Entry{key, ptr.Load()})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
