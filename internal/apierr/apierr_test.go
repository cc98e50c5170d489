package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNotEntitled_CarriesFixedMessage(t *testing.T) {
	err := NotEntitled()
	if err.Status != http.StatusBadRequest || err.Code != CodeNotEntitled {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err.Error() != MsgPurchaseRequired {
		t.Fatalf("expected fixed purchase message, got %q", err.Error())
	}
}

func TestConstructors_StatusAndCode(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{NotFound("quiz"), http.StatusNotFound, CodeNotFound},
		{LimitReached(25), http.StatusBadRequest, CodeLimitReached},
		{NoSession(), http.StatusNotFound, CodeNoSession},
		{Validation(fmt.Errorf("bad input")), http.StatusBadRequest, CodeValidationError},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status || tc.err.Code != tc.code {
			t.Fatalf("expected %d/%s, got %+v", tc.status, tc.code, tc.err)
		}
		if tc.err.Error() == "" {
			t.Fatalf("expected non-empty message for %s", tc.code)
		}
	}
}

func TestError_UnwrapAndErrorsAs(t *testing.T) {
	inner := fmt.Errorf("boom")
	wrapped := fmt.Errorf("context: %w", Validation(inner))

	var ae *Error
	if !errors.As(wrapped, &ae) {
		t.Fatalf("expected errors.As to find *Error")
	}
	if !errors.Is(wrapped, inner) {
		t.Fatalf("expected errors.Is to reach the inner error")
	}
}
