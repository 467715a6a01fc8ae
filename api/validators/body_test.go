package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
)

type datePayload struct {
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestDecodeOptionalJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"date":"2026-04-01"}`))
	var payload datePayload
	if err := DecodeOptionalJSONBody(r, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Date == nil || *payload.Date != "2026-04-01" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeOptionalJSONBodyEmptyIsFine(t *testing.T) {
	for _, body := range []string{"", "   ", "not json at all", `{"date":`} {
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		var payload datePayload
		if err := DecodeOptionalJSONBody(r, &payload); err != nil {
			t.Fatalf("body %q: unexpected error: %v", body, err)
		}
		if payload.Date != nil {
			t.Fatalf("body %q: expected zero payload, got %+v", body, payload)
		}
	}
}

func TestDecodeOptionalJSONBodyRejectsBadDate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"date":"aprile"}`))
	var payload datePayload
	err := DecodeOptionalJSONBody(r, &payload)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected a validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %v", typed.Details())
	}
	if _, found := details["date"]; !found {
		t.Fatalf("expected the date field to be named, got %v", details)
	}
}
