// Package ingest provides source adapters: a uniform interface over
// heterogeneous fetch mechanisms (local file, URL-fetched CSV/JSON, REST
// APIs) that always yields a flat tabular result. Adapters fail closed: any
// transport, decode, or configuration failure is logged and surfaces as an
// empty Table, never as an error to the caller.
package ingest

// Record is one flat observation: field name to scalar or small list.
type Record map[string]any

// Table is an ordered sequence of flat records. Insertion order matches
// source order.
type Table []Record

// Empty reports whether the table holds no records.
func (t Table) Empty() bool {
	return len(t) == 0
}

// Column collects the values of one field across all records, skipping
// records where the field is absent.
func (t Table) Column(field string) []any {
	var out []any
	for _, r := range t {
		if v, ok := r[field]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a deep-enough copy of the table: the record slice and each
// record map are copied, values are shared.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, r := range t {
		cp := make(Record, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
