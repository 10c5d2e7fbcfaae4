package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeDependency, cause, "saving scenario")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", err.Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "bad qty")
	if err.Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
	if err.Message() != "bad qty" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	inner := New(CodeNotFound, "scenario missing")
	outer := fmt.Errorf("loading: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected not found, got %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("WHATEVER"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500 fallback, got %d", meta.HTTPStatus)
	}
}

func TestMetadataStatuses(t *testing.T) {
	cases := map[Code]int{
		CodeValidation: http.StatusBadRequest,
		CodeNotFound:   http.StatusNotFound,
		CodeConflict:   http.StatusConflict,
		CodeDependency: http.StatusServiceUnavailable,
	}
	for code, status := range cases {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("code %s: expected %d got %d", code, status, got)
		}
	}
}
