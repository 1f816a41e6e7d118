// Package debug provides debug logging functionality for heartline.
//
// When enabled via the --debug flag, it logs storage operations, state
// transitions and script runs to a file to help diagnose issues. Nothing is
// written to the terminal, which belongs to the UI.
package debug
