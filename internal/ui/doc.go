// Package ui renders result boxes for the ggdiscover CLI.
//
// Output is styled with Lipgloss and sized to the terminal. Commands print a
// single box once the discovery call finishes:
//
//   - Success: the discovered Core and CA details
//   - Warning: discovery worked but the response is ambiguous
//   - Failure: the error and troubleshooting tips
//
// Example:
//
//	fmt.Println(ui.NewSuccessResult("Core discovered",
//	    ui.Detail{Key: "Core", Value: "10.0.0.5:8883"},
//	).Render())
//
// While a request is in flight, StartSpinner runs a small Bubble Tea program on
// stderr. It is stopped before the box is printed.
//
// Zap logging stays silent unless GGDISCOVER_LOG_LEVEL is set, so these boxes
// are the only output by default.
package ui
