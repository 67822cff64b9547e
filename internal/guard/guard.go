// Package guard marks console actions as in flight so a session cannot run
// the same action twice at once.
package guard

import "context"

// Guard hands out exclusive, short-lived holds on keys.
type Guard interface {
	// Acquire takes the hold on key. ok is false when another caller holds
	// it. release is non-nil only when ok is true and may be called more
	// than once.
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

// Key names the hold for action within session.
func Key(session, action string) string {
	return session + ":" + action
}
