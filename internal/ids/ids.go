// Package ids generates identifiers for tasks created during a session.
package ids

import "github.com/google/uuid"

// LocalFloor is the lowest local identifier. Server identifiers stay below it.
const LocalFloor int64 = 1 << 32

// Local returns a random identifier at or above LocalFloor.
func Local() int64 {
	return LocalFloor + int64(uuid.New().ID())
}

// IsLocal reports whether id is in the local identifier range.
func IsLocal(id int64) bool {
	return id >= LocalFloor
}
