package models

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Period bucket names inside a raw metrics payload.
const (
	bucket7d       = "period_7d"
	bucket7Prev    = "period_7_14"
	bucket30d      = "period_30d"
	bucket30Prev   = "period_30_60"
	bucketCustom   = "custom_period"
	bucketPrevious = "previous_period"

	rawMetricsKey = "raw_metrics"
)

// Payload is one per-account metrics snapshot as returned by the
// gateway. Shapes vary across gateway versions (flat period buckets,
// buckets nested under raw_metrics, and legacy single-snapshot data
// with fields at the root), so it stays a loose map and all reads go
// through Resolve.
type Payload map[string]any

// DefaultPayload is the zero-valued substitute used when an account's
// metrics fetch fails.
func DefaultPayload() Payload {
	return Payload{
		bucket7d:            map[string]any{},
		bucket30d:           map[string]any{},
		FieldFollowersTotal: 0,
	}
}

// bucket finds a period bucket, preferring the raw_metrics-nested form
// over flat top-level keys. Returns nil when absent or not an object.
func (p Payload) bucket(name string) map[string]any {
	if rm, ok := p[rawMetricsKey].(map[string]any); ok {
		if b, ok := rm[name].(map[string]any); ok {
			return b
		}
	}
	if b, ok := p[name].(map[string]any); ok {
		return b
	}
	return nil
}

func bucketName(r TimeRange, wantPrevious bool) string {
	switch r {
	case RangeCustom:
		if wantPrevious {
			return bucketPrevious
		}
		return bucketCustom
	case Range30d:
		if wantPrevious {
			return bucket30Prev
		}
		return bucket30d
	default:
		if wantPrevious {
			return bucket7Prev
		}
		return bucket7d
	}
}

// Resolve reads one metric field for the selected window.
//
// followers_total is cumulative rather than period-scoped, so current
// reads always come from the payload root. Every other current read
// goes to the active period bucket, falling back to the root only for
// legacy payloads without buckets (never for custom ranges). Previous
// reads come exclusively from the previous-period bucket: the root has
// no "previous" semantic, so absence yields zero.
func (p Payload) Resolve(field string, sel Selection, wantPrevious bool) int {
	if field == FieldFollowersTotal && !wantPrevious {
		return coerceInt(p[FieldFollowersTotal])
	}

	b := p.bucket(bucketName(sel.Range, wantPrevious))
	if b != nil {
		return coerceInt(b[field])
	}
	if !wantPrevious && sel.Range != RangeCustom {
		return coerceInt(p[field])
	}
	return 0
}

// coerceInt converts the numeric shapes the gateway emits (numbers and
// numeric strings) to int. Anything malformed or missing becomes 0.
func coerceInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return int(i)
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}
