// Package id generates identifiers for journal records.
package id

import (
	"github.com/oklog/ulid/v2"
)

// New returns a ULID string. ULIDs sort lexicographically by creation time,
// so rows ordered by id come back in insertion order, which the fill feed
// relies on to break timestamp ties deterministically.
func New() string {
	return ulid.Make().String()
}

// Time extracts the creation time of an identifier produced by New. The
// boolean is false for strings that are not valid ULIDs.
func Time(s string) (int64, bool) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return 0, false
	}
	return int64(u.Time()), true
}
