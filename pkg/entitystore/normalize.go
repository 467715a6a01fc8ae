package entitystore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnrecognizedShape marks a response body that could not be normalized
// to a record list. Callers treat it as fatal rather than as an empty set,
// since a silently-empty list would make the aggregation under-report.
var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// envelopeKeys are the object properties the service is known to wrap
// record lists in, in the order they are probed.
var envelopeKeys = []string{"data", "items", "results"}

// NormalizeRecordList extracts a record list from a response body. The
// service may return a bare array, or an envelope object holding the array
// under "data", "items" or "results". Anything else is an error.
func NormalizeRecordList(body []byte) ([]json.RawMessage, error) {
	var direct []json.RawMessage
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: not an array or object", ErrUnrecognizedShape)
	}

	for _, key := range envelopeKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: property %q is not an array", ErrUnrecognizedShape, key)
		}
		return records, nil
	}

	return nil, fmt.Errorf("%w: object has none of data/items/results", ErrUnrecognizedShape)
}
