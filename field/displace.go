package field

import "math"

// Response constants. These set the visual character of the effect and are
// not tunables.
const (
	HoldRadius       = 55 // Points closer than this stay at rest
	FalloffWidth     = 80 // Width of the smoothstep band beyond HoldRadius
	FalloffMagnitude = 12 // Peak jitter range inside the band
	AmbientMagnitude = 10 // Jitter range everywhere outside the band
)

// Zone identifies which response band a point falls in.
type Zone uint8

const (
	ZoneHold Zone = iota
	ZoneFalloff
	ZoneAmbient
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneHold:
		return "hold"
	case ZoneFalloff:
		return "falloff"
	default:
		return "ambient"
	}
}

// Rand is the per-draw random source; *rand.Rand satisfies it.
type Rand interface {
	Float32() float32
}

// Interaction is the current interaction position plus the two radii.
type Interaction struct {
	X, Y  float32
	Inner float32 // Hold radius
	Outer float32 // Inner + falloff width
}

// DefaultInteraction returns an interaction at (x, y) with the standard radii.
func DefaultInteraction(x, y float32) Interaction {
	return Interaction{X: x, Y: y, Inner: HoldRadius, Outer: HoldRadius + FalloffWidth}
}

// ZoneCounts tallies how many points landed in each zone during a frame.
type ZoneCounts struct {
	Hold, Falloff, Ambient int
}

// Total returns the number of points counted.
func (c ZoneCounts) Total() int {
	return c.Hold + c.Falloff + c.Ambient
}

// Smoothstep is the cubic Hermite ease t^2(3-2t) of x clamped between e0 and e1.
func Smoothstep(e0, e1, x float32) float32 {
	t := (x - e0) / (e1 - e0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// ClassifyZone returns the zone for distance d.
func ClassifyZone(d, inner, outer float32) Zone {
	switch {
	case d < inner:
		return ZoneHold
	case d < outer:
		return ZoneFalloff
	default:
		return ZoneAmbient
	}
}

// Envelope returns the largest possible per-axis displacement at distance d,
// ignoring randomness.
func Envelope(d, inner, outer float32) float32 {
	switch ClassifyZone(d, inner, outer) {
	case ZoneHold:
		return 0
	case ZoneFalloff:
		return FalloffMagnitude * Smoothstep(inner, outer, d) / 2
	default:
		return AmbientMagnitude / 2
	}
}

// Displace writes this frame's position of every point into buf. Each point is
// placed from its origin, the field's vertical translation and the interaction
// alone; no state carries over between frames. Every displaced axis takes its
// own random draw.
func Displace(origins PointField, buf *RenderBuffer, in Interaction, translateY float32, rng Rand) ZoneCounts {
	var counts ZoneCounts
	src := origins.origins
	buf.ensure(len(src))
	dst := buf.positions

	for i := 0; i < len(src); i += 3 {
		ox, oy := src[i], src[i+1]
		dx := ox - in.X
		dy := oy + translateY - in.Y
		d := float32(math.Sqrt(float64(dx*dx + dy*dy)))

		switch {
		case d < in.Inner:
			dst[i] = ox
			dst[i+1] = oy
			counts.Hold++
		case d < in.Outer:
			m := Smoothstep(in.Inner, in.Outer, d)
			dst[i] = ox + (rng.Float32()-0.5)*FalloffMagnitude*m
			dst[i+1] = oy + (rng.Float32()-0.5)*FalloffMagnitude*m
			counts.Falloff++
		default:
			dst[i] = ox + (rng.Float32()-0.5)*AmbientMagnitude
			dst[i+1] = oy + (rng.Float32()-0.5)*AmbientMagnitude
			counts.Ambient++
		}
		dst[i+2] = src[i+2]
	}

	buf.markWritten()
	return counts
}
