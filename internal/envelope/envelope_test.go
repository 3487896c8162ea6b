package envelope

import "testing"

func TestTerminalStatuses(t *testing.T) {
	terminal := map[OutcomeStatus]bool{
		Ok:                 true,
		UpstreamBadRequest: true,
		RateLimited:        false,
		Upstream5xx:        false,
		Timeout:            false,
		Network:            false,
		NonJson:            false,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%v.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestOutcomeStatusStringIsStable(t *testing.T) {
	cases := map[OutcomeStatus]string{
		Ok:                 "ok",
		RateLimited:        "rate_limited",
		Upstream5xx:        "upstream_5xx",
		UpstreamBadRequest: "upstream_bad_request",
		Timeout:            "timeout",
		Network:            "network",
		NonJson:            "non_json",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", status, got, want)
		}
	}
}
