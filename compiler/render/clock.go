package render

import "time"

// Clock supplies the generation time written into license banners.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// TimestampLayout formats the Created line of the license banner.
const TimestampLayout = "2006/01/02 15:04:05 MST"
