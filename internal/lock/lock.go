// Package lock implements the gate that reveals edit and delete controls.
//
// The gate is a UI visibility toggle. The passphrase ships in cleartext in the
// config file and guards nothing: all data stays readable and writable by
// anyone with access to the data directory or the export command.
package lock

import "errors"

// DefaultPassphrase opens the gate when no passphrase is configured.
const DefaultPassphrase = "guilty"

// ErrWrongPassphrase is returned when the input does not match.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// Gate is an immutable lock state. The zero value is locked.
type Gate struct {
	open bool
}

// Locked returns the initial state of every session.
func Locked() Gate {
	return Gate{}
}

// Open reports whether edit and delete controls are revealed.
func (g Gate) Open() bool {
	return g.open
}

// Unlock returns the next gate for input. An exact match opens the gate for
// the rest of the session; anything else leaves it as it was. There is no
// transition back to locked.
func (g Gate) Unlock(input, passphrase string) (Gate, error) {
	if g.open {
		return g, nil
	}
	if input != passphrase {
		return g, ErrWrongPassphrase
	}
	return Gate{open: true}, nil
}
