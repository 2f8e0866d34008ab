package animation

import "time"

// Frame is one sample of an animation's eased progress.
type Frame struct {
	// At is the time since the animation started.
	At time.Duration
	// Progress is the eased progress at At, usually in [0, 1]. Springs may
	// overshoot.
	Progress float64
}

// Frames samples a at fps frames per second, from the first frame after
// the start through the last frame at or past Duration. The last frame
// always has At == Duration. None yields a single frame at completion.
func (a Animation) Frames(fps int) []Frame {
	if a.IsNone() || fps <= 0 {
		return []Frame{{At: 0, Progress: 1}}
	}
	interval := time.Second / time.Duration(fps)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	count := int((a.Duration + interval - 1) / interval)
	frames := make([]Frame, 0, count)
	for i := 1; i <= count; i++ {
		at := min(time.Duration(i)*interval, a.Duration)
		frames = append(frames, Frame{
			At:       at,
			Progress: a.Progress(float64(at) / float64(a.Duration)),
		})
	}
	return frames
}
