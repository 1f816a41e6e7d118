// Package ui provides rendering functions for the heartline terminal UI.
//
// Records are turned into display rows by EntryRows, GoalRows and
// ReminderRows, each row carrying the actions it offers under the current
// lock state. Render takes RenderParams and produces the terminal output.
// Rendering is pure (no side effects) and every call redraws every list.
package ui
