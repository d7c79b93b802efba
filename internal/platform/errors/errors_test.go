package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	src := stderrs.New("root")
	e1 := Wrapf(src, ErrorCodeDB, "insert %s", "contact")
	if want := "insert contact: root"; e1.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e1.Error(), want)
	}
	if got := MessageOf(e1); got != "insert contact" {
		t.Fatalf("MessageOf(ours) = %q", got)
	}
	if got := MessageOf(src); got != "root" {
		t.Fatalf("MessageOf(foreign) = %q", got)
	}
	if stderrs.Unwrap(e1) != src {
		t.Fatalf("Wrap did not keep orig")
	}

	e2 := WithOp(WithField(New(ErrorCodeValidation, "bad"), "phone"), "csv.decode")
	pe, ok := As(e2)
	if !ok || pe.Field() != "phone" || pe.Op() != "csv.decode" || pe.Message() != "bad" {
		t.Fatalf("mutators failed: %+v", pe)
	}
	if WithField(src, "x") != src {
		t.Fatalf("WithField should leave foreign errors alone")
	}

	if wf := WireFrom(e1); wf.Code != ErrorCodeDB || wf.Message != "insert contact" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got != src {
		t.Fatalf("Root() = %v", got)
	}
	if CodeOf(fmt.Errorf("ctx: %w", e1)) != ErrorCodeDB {
		t.Fatalf("CodeOf should unwrap foreign wrappers")
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{DuplicateKeyf("x"), ErrorCodeDuplicateKey},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unauthorizedf("x"), ErrorCodeUnauthorized},
		{Conflictf("x"), ErrorCodeConflict},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{TooLargef("x"), ErrorCodePayloadTooLarge},
		{Internalf("x"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if !IsCode(c.err, c.want) {
			t.Fatalf("%v: code = %v, want %v", c.err, CodeOf(c.err), c.want)
		}
	}
}

func TestIsAnyCode(t *testing.T) {
	err := DuplicateKeyf("phone exists")
	if !IsAnyCode(err, ErrorCodeConflict, ErrorCodeDuplicateKey) {
		t.Fatalf("IsAnyCode should match duplicate key")
	}
	if IsAnyCode(err, ErrorCodeDB) {
		t.Fatalf("IsAnyCode matched wrong code")
	}
	if IsAnyCode(nil, ErrorCodeUnknown) || IsCode(nil, ErrorCodeUnknown) {
		t.Fatalf("nil error must not match any code")
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}
