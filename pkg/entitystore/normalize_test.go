package entitystore

import (
	"errors"
	"testing"
)

func TestNormalizeRecordListShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "bare array", body: `[{"id":"1"},{"id":"2"}]`, want: 2},
		{name: "data envelope", body: `{"data":[{"id":"1"}]}`, want: 1},
		{name: "items envelope", body: `{"items":[{"id":"1"},{"id":"2"},{"id":"3"}]}`, want: 3},
		{name: "results envelope", body: `{"results":[]}`, want: 0},
		{name: "empty bare array", body: `[]`, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := NormalizeRecordList([]byte(tc.body))
			if err != nil {
				t.Fatalf("NormalizeRecordList: %v", err)
			}
			if len(records) != tc.want {
				t.Fatalf("expected %d records, got %d", tc.want, len(records))
			}
		})
	}
}

func TestNormalizeRecordListRejectsUnknownShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "object without known property", body: `{"records":[{"id":"1"}]}`},
		{name: "scalar", body: `42`},
		{name: "string", body: `"ok"`},
		{name: "known property holding a scalar", body: `{"data":"oops"}`},
		{name: "known property holding an object", body: `{"items":{"id":"1"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NormalizeRecordList([]byte(tc.body)); !errors.Is(err, ErrUnrecognizedShape) {
				t.Fatalf("expected ErrUnrecognizedShape, got %v", err)
			}
		})
	}
}
