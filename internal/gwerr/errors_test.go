package gwerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsWrappedError(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	wrapped := Wrap(UpstreamTransient, "dispatch failed", base)
	outer := fmt.Errorf("execute: %w", wrapped)

	if got := KindOf(outer); got != UpstreamTransient {
		t.Fatalf("KindOf = %v, want %v", got, UpstreamTransient)
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("plain error")); got != Internal {
		t.Fatalf("KindOf = %v, want %v", got, Internal)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(UpstreamBadRequest, "bad params", cause)
	if got := e.Error(); got == "" {
		t.Fatal("Error() returned empty string")
	}
	if errors.Unwrap(e) != cause {
		t.Fatal("Unwrap did not return the original cause")
	}
}

func TestStringLabelsAreStable(t *testing.T) {
	cases := map[Kind]string{
		Internal:               "internal",
		UnsupportedChain:       "unsupported_chain",
		Unauthorized:           "unauthorized",
		RateLimited:            "rate_limited",
		UpstreamBadRequest:     "upstream_bad_request",
		UpstreamRateLimited:    "upstream_rate_limited",
		UpstreamTransient:      "upstream_transient",
		TemporarilyUnavailable: "temporarily_unavailable",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
