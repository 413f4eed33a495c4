package clock

import "time"

// Clock abstracts time.Now so scheduled jobs can be tested against a
// fixed point in time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}
