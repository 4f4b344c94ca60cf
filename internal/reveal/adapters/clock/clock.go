package clock

import (
	"time"

	"visitor-analytics-service/internal/reveal/core/ports"
)

// Real schedules callbacks on the runtime timer.
type Real struct{}

var _ ports.Clock = Real{}

func (Real) AfterFunc(d time.Duration, f func()) ports.Stopper {
	return time.AfterFunc(d, f)
}
