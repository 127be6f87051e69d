package utils

import (
	"fmt"
	"time"
)

// DeviceClock stands in for a sensor's free-running clock: seconds since the
// clock was started, read from the monotonic clock so that wall-clock jumps
// never make timestamps go backwards.
type DeviceClock struct {
	start time.Time
}

// NewDeviceClock starts a clock at zero.
func NewDeviceClock() *DeviceClock {
	return &DeviceClock{start: time.Now()}
}

// Now returns the elapsed time in seconds.
func (c *DeviceClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// SessionName returns a unique session directory name:
//
//	<prefix>_YYYYMMDD_HHMMSS
func SessionName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, time.Now().Format("20060102_150405"))
}
