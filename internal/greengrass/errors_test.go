package greengrass

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHTTPStatusError_Error(t *testing.T) {
	tests := []struct {
		err  *HTTPStatusError
		want string
	}{
		{&HTTPStatusError{StatusCode: 404}, "greengrass: discovery returned HTTP 404"},
		{&HTTPStatusError{StatusCode: 403, Body: "denied"}, "greengrass: discovery returned HTTP 403: denied"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsAmbiguous(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", &DiscoveryInfoError{Accessor: "CA"})

	if !IsAmbiguous(wrapped) {
		t.Error("IsAmbiguous() should see through wrapping")
	}
	if IsAmbiguous(errors.New("other")) {
		t.Error("IsAmbiguous() = true for unrelated error")
	}
	if IsAmbiguous(nil) {
		t.Error("IsAmbiguous(nil) = true")
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"ambiguous", &DiscoveryInfoError{Accessor: "CA"}, "several groups"},
		{"forbidden", &HTTPStatusError{StatusCode: 403}, "greengrass:Discover"},
		{"unauthorized", &HTTPStatusError{StatusCode: 401}, "client certificate"},
		{"not found", &HTTPStatusError{StatusCode: 404}, "thing name"},
		{"throttled", &HTTPStatusError{StatusCode: 429}, "throttled"},
		{"server error", &HTTPStatusError{StatusCode: 500}, "unexpected status"},
		{"bad ca", ErrInvalidCA, "--ca"},
		{"network", errors.New("dial tcp: connection refused"), "8443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := GetTroubleshootingHint(tt.err)
			found := false
			for _, h := range hints {
				if strings.Contains(strings.ToLower(h), strings.ToLower(tt.contains)) {
					found = true
				}
			}
			if !found {
				t.Errorf("GetTroubleshootingHint() = %v, want a hint containing %q", hints, tt.contains)
			}
		})
	}

	if GetTroubleshootingHint(nil) != nil {
		t.Error("GetTroubleshootingHint(nil) should be nil")
	}
}
