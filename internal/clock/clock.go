// Package clock supplies timestamps for stored records and created processes.
package clock

import "time"

// NowFunc is replaced in tests that need a fixed time
var NowFunc = time.Now

// Now returns the current time in UTC
func Now() time.Time { return NowFunc().UTC() }
