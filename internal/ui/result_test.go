package ui

import (
	"errors"
	"strings"
	"testing"
)

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		wants  []string
	}{
		{
			name: "success",
			result: NewSuccessResult("Core discovered",
				Detail{Key: "Core", Value: "10.0.0.5:8883"},
				Detail{Key: "Groups", Value: "1"},
			),
			wants: []string{"SUCCESS", "Core discovered", "Core:", "10.0.0.5:8883", "Groups:"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Discovery failed", errors.New("connection refused"), []string{"Check port 8443"}),
			wants:  []string{"FAILED", "Discovery failed", "Error: connection refused", "Troubleshooting:", "Check port 8443"},
		},
		{
			name:   "warning",
			result: NewWarningResult("Ambiguous response").AddDetail("Groups", "2").AddTroubleshooting("Use --format json"),
			wants:  []string{"WARNING", "Ambiguous response", "Groups:", "Use --format json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("Render() missing %q in:\n%s", want, out)
				}
			}
		})
	}
}

func TestResultDetailOrder(t *testing.T) {
	out := NewSuccessResult("ordered",
		Detail{Key: "First", Value: "1"},
		Detail{Key: "Second", Value: "2"},
		Detail{Key: "Third", Value: "3"},
	).SetWidth(80).Render()

	first := strings.Index(out, "First")
	second := strings.Index(out, "Second")
	third := strings.Index(out, "Third")
	if !(first < second && second < third) {
		t.Errorf("details rendered out of order:\n%s", out)
	}
}

func TestResultMinimumWidth(t *testing.T) {
	out := NewSuccessResult("narrow").SetWidth(10).Render()
	for _, line := range strings.Split(out, "\n") {
		if w := len([]rune(stripANSI(line))); w > MinTerminalWidth {
			t.Errorf("line width %d exceeds %d: %q", w, MinTerminalWidth, line)
		}
	}
}

// stripANSI removes SGR escape sequences
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestRenderFailure(t *testing.T) {
	out := RenderFailure("boom", errors.New("bad"), nil)
	if !strings.Contains(out, "boom") || strings.Contains(out, "Troubleshooting") {
		t.Errorf("RenderFailure() = %q", out)
	}
}
