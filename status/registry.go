// Package status keeps named counters and last-value gauges that request
// handlers update without locking.
package status

import "sync/atomic"

// Registry groups metrics by value type.
// Callers may cache the pointers returned by Get
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of registered metrics of all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every current value into one flat map
func (r *Registry) Snapshot() map[string]interface{} {
	out := make(map[string]interface{}, r.TotalCount())
	r.Ints.CopyInto(out, func(v *atomic.Int64) interface{} { return v.Load() })
	r.Floats.CopyInto(out, func(v *AtomicFloat) interface{} { return v.Get() })
	r.Strings.CopyInto(out, func(v *AtomicString) interface{} { return v.Load() })
	return out
}
