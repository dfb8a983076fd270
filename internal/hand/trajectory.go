package hand

import (
	"math"
)

// Side identifies which hand a trajectory belongs to.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Point is a 3D landmark position. Coordinates are normalised to the capture
// frame; Z is relative depth and may be zero for 2D detectors.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Norm returns the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Norm()
}

// Frame is one capture sample: a timestamp plus all landmark positions.
type Frame struct {
	TimeSec   float64              `json:"t"`
	Landmarks [LandmarkCount]Point `json:"landmarks"`
}

// Trajectory is an ordered sequence of frames for one hand over one movement
// segment. It is never mutated by the pipeline; filters and analyzers work on
// derived signals or on copies.
type Trajectory struct {
	Side   Side
	Frames []Frame
}

// Len returns the number of frames.
func (t *Trajectory) Len() int { return len(t.Frames) }

// Duration returns the time span covered by the trajectory in seconds.
func (t *Trajectory) Duration() float64 {
	if len(t.Frames) < 2 {
		return 0
	}
	return t.Frames[len(t.Frames)-1].TimeSec - t.Frames[0].TimeSec
}

// SampleRate estimates the capture rate in frames per second from the
// timestamps. Returns 0 for trajectories shorter than two frames.
func (t *Trajectory) SampleRate() float64 {
	d := t.Duration()
	if d <= 0 {
		return 0
	}
	return float64(len(t.Frames)-1) / d
}

// Clone returns a deep copy of the trajectory.
func (t *Trajectory) Clone() *Trajectory {
	frames := make([]Frame, len(t.Frames))
	copy(frames, t.Frames)
	return &Trajectory{Side: t.Side, Frames: frames}
}

// Slice returns the frames with startSec <= TimeSec < endSec as a new
// trajectory. The underlying frames are copied.
func (t *Trajectory) Slice(startSec, endSec float64) *Trajectory {
	out := &Trajectory{Side: t.Side}
	for _, f := range t.Frames {
		if f.TimeSec >= startSec && f.TimeSec < endSec {
			out.Frames = append(out.Frames, f)
		}
	}
	return out
}

// Timestamps returns the frame timestamps in seconds.
func (t *Trajectory) Timestamps() []float64 {
	ts := make([]float64, len(t.Frames))
	for i, f := range t.Frames {
		ts[i] = f.TimeSec
	}
	return ts
}

// Signal extracts a 1D series by applying fn to each frame.
func (t *Trajectory) Signal(fn func(Frame) float64) []float64 {
	sig := make([]float64, len(t.Frames))
	for i, f := range t.Frames {
		sig[i] = fn(f)
	}
	return sig
}

// FingertipPalmDistance returns the per-frame distance between a fingertip
// and the wrist landmark. This is the tapping signal used by the finger
// tapping analyzer.
func (t *Trajectory) FingertipPalmDistance(f Finger) []float64 {
	tip, ok := TipIndex(f)
	if !ok {
		return nil
	}
	return t.Signal(func(fr Frame) float64 {
		return fr.Landmarks[tip].Dist(fr.Landmarks[Wrist])
	})
}

// Aperture returns the per-frame thumb-tip to index-tip distance.
func (t *Trajectory) Aperture() []float64 {
	return t.Signal(func(fr Frame) float64 {
		return fr.Landmarks[ThumbTip].Dist(fr.Landmarks[IndexTip])
	})
}

// WristAngleDeg returns the per-frame forearm rotation angle in degrees,
// measured as the orientation of the index-MCP to pinky-MCP knuckle line in
// the X-Z plane. Pronation and supination rotate this line about the forearm
// axis, so its angle tracks wrist rotation.
func (t *Trajectory) WristAngleDeg() []float64 {
	return t.Signal(func(fr Frame) float64 {
		v := fr.Landmarks[PinkyMCP].Sub(fr.Landmarks[IndexMCP])
		return math.Atan2(v.Z, v.X) * 180 / math.Pi
	})
}

// FingerFlexionDeg returns the per-frame flexion angle of a finger in
// degrees: the angle at the middle joint between the proximal and distal
// bone vectors. A straight finger reads near 180, a fully bent one near 0.
func (t *Trajectory) FingerFlexionDeg(f Finger) []float64 {
	joints, ok := Joints(f)
	if !ok {
		return nil
	}
	return t.Signal(func(fr Frame) float64 {
		base := fr.Landmarks[joints[0]]
		mid := fr.Landmarks[joints[1]]
		tip := fr.Landmarks[joints[3]]
		u := base.Sub(mid)
		v := tip.Sub(mid)
		nu, nv := u.Norm(), v.Norm()
		if nu == 0 || nv == 0 {
			return 0
		}
		cos := (u.X*v.X + u.Y*v.Y + u.Z*v.Z) / (nu * nv)
		cos = math.Max(-1, math.Min(1, cos))
		return math.Acos(cos) * 180 / math.Pi
	})
}

// Centroid returns the mean landmark position of a frame.
func (fr Frame) Centroid() Point {
	var c Point
	for _, p := range fr.Landmarks {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	c.X /= LandmarkCount
	c.Y /= LandmarkCount
	c.Z /= LandmarkCount
	return c
}

// CentroidSpeed returns the per-frame speed of the hand centroid, derived
// from consecutive frame displacements. The first sample repeats the second
// so the series keeps the trajectory's length.
func (t *Trajectory) CentroidSpeed() []float64 {
	n := len(t.Frames)
	if n < 2 {
		return make([]float64, n)
	}
	speed := make([]float64, n)
	for i := 1; i < n; i++ {
		dt := t.Frames[i].TimeSec - t.Frames[i-1].TimeSec
		if dt <= 0 {
			speed[i] = speed[i-1]
			continue
		}
		speed[i] = t.Frames[i].Centroid().Dist(t.Frames[i-1].Centroid()) / dt
	}
	speed[0] = speed[1]
	return speed
}

// CentroidVariance returns the variance of the centroid position around its
// mean, summed over the three axes. Used as a positional-stability measure.
func (t *Trajectory) CentroidVariance() float64 {
	n := len(t.Frames)
	if n == 0 {
		return 0
	}
	var mean Point
	cents := make([]Point, n)
	for i, fr := range t.Frames {
		c := fr.Centroid()
		cents[i] = c
		mean.X += c.X
		mean.Y += c.Y
		mean.Z += c.Z
	}
	mean.X /= float64(n)
	mean.Y /= float64(n)
	mean.Z /= float64(n)
	var v float64
	for _, c := range cents {
		d := c.Sub(mean)
		v += d.X*d.X + d.Y*d.Y + d.Z*d.Z
	}
	return v / float64(n)
}
