// Package viz renders drivetrain runs: a live terminal dashboard built on
// Bubble Tea, asciigraph error charts and PNG trajectory plots.
//
// # Key Bindings
//
//	Space - Freeze/unfreeze the display
//	C     - Clear the trail
//	Q     - Quit
package viz
