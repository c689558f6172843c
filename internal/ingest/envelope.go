package ingest

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Variant tags the recognized shapes of a decoded payload. Classification
// attempts each variant in a fixed priority order: vendor error envelope,
// vendor info notice, vendor rate-limit note, vendor time-series envelope,
// generic list, dict containing a list, plain dict, raw text fallback.
type Variant string

const (
	VariantVendorError  Variant = "vendor_error"
	VariantVendorInfo   Variant = "vendor_info"
	VariantVendorNote   Variant = "vendor_note"
	VariantVendorSeries Variant = "vendor_series"
	VariantList         Variant = "list"
	VariantDictWithList Variant = "dict_with_list"
	VariantDict         Variant = "dict"
	VariantRawText      Variant = "raw_text"
)

// Sentinel keys of the Alpha Vantage response envelope. Their presence must
// be checked before generic extraction, otherwise the vendor's non-tabular
// error envelope gets mis-parsed as a one-row table.
const (
	vendorErrorKey = "Error Message"
	vendorInfoKey  = "Information"
	vendorNoteKey  = "Note"

	// Time-series payload keys vary by endpoint ("Time Series (Daily)",
	// "Weekly Time Series", ...); match on the common fragment.
	vendorSeriesFragment = "Time Series"
)

// Envelope is the result of classifying a decoded payload: the matched
// variant plus the parsed payload in the shape that variant implies.
type Envelope struct {
	Kind    Variant
	Object  map[string]any   // set for vendor_* and dict variants
	List    []map[string]any // set for list and dict_with_list variants
	RawText string           // set for raw_text
	Message string           // vendor sentinel message, when present
}

// Classify decodes a JSON body and tags it with the first matching variant.
// A body that does not decode as JSON yields the raw-text fallback.
func Classify(body []byte) Envelope {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Envelope{Kind: VariantRawText, RawText: string(body)}
	}
	return classifyValue(decoded, string(body))
}

func classifyValue(decoded any, raw string) Envelope {
	switch v := decoded.(type) {
	case map[string]any:
		return ClassifyObject(v)
	case []any:
		return Envelope{Kind: VariantList, List: toRecordList(v)}
	default:
		// Bare scalars (a JSON string or number) carry no tabular shape.
		return Envelope{Kind: VariantRawText, RawText: raw}
	}
}

// ClassifyObject tags an already-decoded JSON object. Callers holding a
// decoded map (normalizers fed by upstream services) use this directly;
// Classify routes here after decoding.
func ClassifyObject(obj map[string]any) Envelope {
	if msg, ok := obj[vendorErrorKey].(string); ok {
		return Envelope{Kind: VariantVendorError, Object: obj, Message: msg}
	}
	if msg, ok := obj[vendorInfoKey].(string); ok {
		return Envelope{Kind: VariantVendorInfo, Object: obj, Message: msg}
	}
	if msg, ok := obj[vendorNoteKey].(string); ok {
		return Envelope{Kind: VariantVendorNote, Object: obj, Message: msg}
	}
	if seriesKey(obj) != "" {
		return Envelope{Kind: VariantVendorSeries, Object: obj}
	}

	// Generic dict-with-list: the first list-valued entry becomes the
	// record set. Keys are scanned in sorted order so the choice is
	// deterministic (JSON object order is not observable after decode).
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if list, ok := obj[k].([]any); ok {
			return Envelope{Kind: VariantDictWithList, List: toRecordList(list), Object: obj}
		}
	}

	return Envelope{Kind: VariantDict, Object: obj}
}

// seriesKey returns the time-series payload key of a vendor envelope, or ""
// when the object carries none.
func seriesKey(obj map[string]any) string {
	for k, v := range obj {
		if !strings.Contains(k, vendorSeriesFragment) {
			continue
		}
		if _, ok := v.(map[string]any); ok {
			return k
		}
	}
	return ""
}

// FlattenSeries converts a vendor time-series envelope into one record per
// date with fields {timestamp, open, high, low, close, volume}. Missing or
// unparseable numeric sub-fields default to zero rather than failing the
// record. Output is explicitly sorted descending by timestamp; ISO dates
// sort lexically so a string sort suffices.
func FlattenSeries(obj map[string]any) Table {
	key := seriesKey(obj)
	if key == "" {
		return nil
	}
	series, _ := obj[key].(map[string]any)

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make(Table, 0, len(dates))
	for _, d := range dates {
		bar, ok := series[d].(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Record{
			"timestamp": d,
			"open":      numField(bar, "1. open"),
			"high":      numField(bar, "2. high"),
			"low":       numField(bar, "3. low"),
			"close":     numField(bar, "4. close"),
			"volume":    int64(numField(bar, "5. volume")),
		})
	}
	return out
}

// numField extracts a numeric sub-field that the vendor encodes as a string,
// returning zero when absent or unparseable.
func numField(bar map[string]any, key string) float64 {
	switch v := bar[key].(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	default:
		return 0
	}
}

// toRecordList converts a decoded JSON array into records. Non-object
// elements are wrapped under a "value" field so the row count is preserved.
func toRecordList(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
			continue
		}
		out = append(out, map[string]any{"value": el})
	}
	return out
}
