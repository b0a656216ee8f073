// Package idgen generates entry identifiers for the spool format: a
// 36-char lowercase dashed UUID, preferring the time-ordered v7 form.
package idgen

import "github.com/google/uuid"

// New returns a fresh time-ordered (v7) UUID string. Falls back to a
// random v4 id if the system clock/entropy source makes v7 generation
// fail, since the format only requires "a valid UUID", not strictly v7.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
