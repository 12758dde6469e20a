package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// FeedbackDelay is a delay line whose output is fed back into itself:
// y[n] = x[n-D] + gain*y[n-D]. By default only the delayed signal is emitted.
type FeedbackDelay struct {
	src  beep.Streamer
	line [][2]float64
	pos  int
	gain float64
	dry  float64 // Level of the undelayed input mixed into the output
}

// NewFeedbackDelay wraps src in a feedback delay line.
func NewFeedbackDelay(src beep.Streamer, sr beep.SampleRate, delay time.Duration, gain float64) *FeedbackDelay {
	n := sr.N(delay)
	if n < 1 {
		n = 1
	}
	return &FeedbackDelay{
		src:  src,
		line: make([][2]float64, n),
		gain: gain,
	}
}

// WithDry mixes the undelayed input into the output at the given level.
func (d *FeedbackDelay) WithDry(level float64) *FeedbackDelay {
	d.dry = level
	return d
}

// Stream implements beep.Streamer.
func (d *FeedbackDelay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.src.Stream(samples)
	for i := 0; i < n; i++ {
		out := d.line[d.pos]
		in := samples[i]
		d.line[d.pos] = [2]float64{
			in[0] + d.gain*out[0],
			in[1] + d.gain*out[1],
		}
		samples[i] = [2]float64{
			out[0] + d.dry*in[0],
			out[1] + d.dry*in[1],
		}
		d.pos = (d.pos + 1) % len(d.line)
	}
	return n, ok
}

// Err implements beep.Streamer.
func (d *FeedbackDelay) Err() error {
	return d.src.Err()
}

// EnableFeedback routes the track through a feedback delay, keeping the dry
// signal. It must be called before playback starts.
func (p *Player) EnableFeedback(delay time.Duration, gain float64) {
	sr := p.format.SampleRate
	p.Wrap(func(s beep.Streamer) beep.Streamer {
		return NewFeedbackDelay(s, sr, delay, gain).WithDry(1)
	})
}
