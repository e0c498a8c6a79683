package strata

import "time"

// TimeSource supplies the elapsed time of the current frame.
type TimeSource interface {
	// ElapsedTime returns the milliseconds elapsed since the previous tick.
	ElapsedTime() float64
}

// TimeManager tracks frame time for a scene.
type TimeManager struct {
	elapsed    float64 // ms, last tick
	total      float64 // ms, all ticks
	frames     uint64
	firstFrame bool
}

// Step records a tick of duration d. Negative durations count as zero.
func (t *TimeManager) Step(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.elapsed = float64(d) / float64(time.Millisecond)
	t.total += t.elapsed
	t.frames++
	t.firstFrame = t.frames == 1
}

// ElapsedTime returns the milliseconds elapsed during the last tick.
func (t *TimeManager) ElapsedTime() float64 { return t.elapsed }

// TotalTime returns the accumulated milliseconds of all ticks.
func (t *TimeManager) TotalTime() float64 { return t.total }

// FrameCount returns the number of ticks recorded.
func (t *TimeManager) FrameCount() uint64 { return t.frames }

// FirstFrame reports whether the last tick was the first one.
func (t *TimeManager) FirstFrame() bool { return t.firstFrame }

// Reset clears all recorded time.
func (t *TimeManager) Reset() { *t = TimeManager{} }
