// Package journal implements heartline's records and the operations on them.
//
// Chapters (dated entries), goals and reminders are each stored as one JSON
// list under their own key. Every record carries a generated ID and is
// addressed by it, never by position, so a list changed by another process
// between render and action cannot redirect an edit to a neighbour.
package journal
