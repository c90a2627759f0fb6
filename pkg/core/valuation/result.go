package valuation

import "math"

// Kind tells the presentation layer how a metric is displayed.
type Kind int

const (
	Currency Kind = iota
	Percent
	Count
)

func (k Kind) String() string {
	switch k {
	case Currency:
		return "currency"
	case Percent:
		return "percent"
	case Count:
		return "count"
	}
	return "unknown"
}

// Metric is one named output of a valuation run. Percent metrics are
// stored already scaled to 0-100.
type Metric struct {
	Key   string  `json:"key" msgpack:"key"`
	Value float64 `json:"value" msgpack:"value"`
	Kind  Kind    `json:"kind" msgpack:"kind"`
}

// Result is the immutable output of one engine call. Metrics keep the
// order in which the engine computed them.
type Result struct {
	variant Variant
	metrics []Metric
	index   map[string]int
}

// NewResult builds a Result from metrics in computation order. Duplicate
// keys keep the last value at the first position.
func NewResult(variant Variant, metrics ...Metric) *Result {
	r := &Result{variant: variant, index: make(map[string]int, len(metrics))}
	for _, m := range metrics {
		r.add(m)
	}
	return r
}

func (r *Result) add(m Metric) {
	if i, ok := r.index[m.Key]; ok {
		r.metrics[i] = m
		return
	}
	r.index[m.Key] = len(r.metrics)
	r.metrics = append(r.metrics, m)
}

// Variant reports which model produced the result.
func (r *Result) Variant() Variant {
	if r == nil {
		return ""
	}
	return r.variant
}

// Get returns the value stored under key.
func (r *Result) Get(key string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	i, ok := r.index[key]
	if !ok {
		return 0, false
	}
	return r.metrics[i].Value, true
}

// Metric returns the full metric stored under key.
func (r *Result) Metric(key string) (Metric, bool) {
	if r == nil {
		return Metric{}, false
	}
	i, ok := r.index[key]
	if !ok {
		return Metric{}, false
	}
	return r.metrics[i], true
}

// Metrics returns a copy of the metrics in computation order.
func (r *Result) Metrics() []Metric {
	if r == nil {
		return nil
	}
	out := make([]Metric, len(r.metrics))
	copy(out, r.metrics)
	return out
}

// Keys returns the metric keys in computation order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		keys[i] = m.Key
	}
	return keys
}

// Map returns the metrics as an unordered key -> value map.
func (r *Result) Map() map[string]float64 {
	if r == nil {
		return nil
	}
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Key] = m.Value
	}
	return out
}

func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.metrics)
}

// CheckFinite returns the key of the first NaN or infinite metric, if any.
func (r *Result) CheckFinite() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, m := range r.metrics {
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return m.Key, true
		}
	}
	return "", false
}
