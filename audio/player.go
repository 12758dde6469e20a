// Package audio plays the soundtrack behind the page and exposes its progress
// for the background fill. It never blocks or fails the frame loop.
package audio

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Player controls playback of a single track.
type Player struct {
	lock sync.Locker // Guards stream state against the audio callback

	stream  beep.StreamSeeker
	format  beep.Format
	ctrl    *beep.Ctrl
	mixer   *beep.Mixer
	ended   bool
	onEnded func()

	initialized bool
}

// speakerLock serializes with the speaker's audio callback.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Open decodes a WAV file into a paused player.
func Open(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track: %w", err)
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding track %q: %w", path, err)
	}
	return NewPlayer(stream, format), nil
}

// NewPlayer wraps a seekable stream in a paused player.
func NewPlayer(stream beep.StreamSeeker, format beep.Format) *Player {
	p := &Player{
		lock:   speakerLock{},
		stream: stream,
		format: format,
		mixer:  &beep.Mixer{},
	}
	p.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}
	p.mixer.Add(beep.Seq(p.ctrl, beep.Callback(p.finish)))
	return p
}

// Init opens the audio device and starts feeding it. Until Init succeeds the
// player can be toggled but produces no sound.
func (p *Player) Init() error {
	if p.initialized {
		return nil
	}
	sr := p.format.SampleRate
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Streamer returns the root streamer fed to the device.
func (p *Player) Streamer() beep.Streamer {
	return p.mixer
}

// Wrap inserts an effect between the track and the device. It must be called
// before playback starts.
func (p *Player) Wrap(fx func(beep.Streamer) beep.Streamer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.ctrl.Streamer = fx(p.stream)
}

// finish runs on the audio callback when the track ends.
func (p *Player) finish() {
	p.ended = true
	p.ctrl.Paused = true
	if fn := p.onEnded; fn != nil {
		go fn()
	}
}

// OnEnded registers a function called once each time the track ends.
func (p *Player) OnEnded(fn func()) {
	p.lock.Lock()
	p.onEnded = fn
	p.lock.Unlock()
}

// Toggle flips between playing and paused and reports whether the track is
// now playing. Toggling an ended track restarts it from the beginning.
func (p *Player) Toggle() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.ended {
		if err := p.stream.Seek(0); err != nil {
			slog.Warn("audio rewind failed", "error", err)
			return false
		}
		p.ended = false
		p.ctrl.Paused = false
		p.mixer.Add(beep.Seq(p.ctrl, beep.Callback(p.finish)))
		return true
	}
	p.ctrl.Paused = !p.ctrl.Paused
	return !p.ctrl.Paused
}

// Playing reports whether the track is currently playing.
func (p *Player) Playing() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return !p.ended && !p.ctrl.Paused
}

// Progress returns the playback position as a fraction of the track length,
// or 0 once the track has ended.
func (p *Player) Progress() float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.ended || p.stream.Len() == 0 {
		return 0
	}
	return float64(p.stream.Position()) / float64(p.stream.Len())
}

// Duration returns the track length.
func (p *Player) Duration() time.Duration {
	return p.format.SampleRate.D(p.stream.Len())
}

// Close stops playback and releases the track.
func (p *Player) Close() error {
	p.lock.Lock()
	p.ctrl.Paused = true
	p.mixer.Clear()
	p.lock.Unlock()

	if c, ok := p.stream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
