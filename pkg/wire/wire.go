// Package wire synthesizes the connector anchor curves wires visually
// emerge from. Auto mode walks the arc-length parametrized silhouette of
// the main shape between two window fractions and offsets the sub-arc
// along the local outward normal; custom mode resolves an authored curve
// through the geometry source; matched mode mirrors the opposite
// connector for visual symmetry. Every mode resamples to the configured
// segment count and optionally blends the result toward the node anchor.
package wire

import (
	"fmt"
	"math"

	"github.com/EJaworenko/Node-Weaver/pkg/host"
	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Side selects which connector is being synthesized.
type Side int

const (
	SideInput Side = iota
	SideOutput
)

func (s Side) String() string {
	if s == SideOutput {
		return "output"
	}
	return "input"
}

// Config holds the synthesis settings for one connector.
type Config struct {
	Mode   shape.WireMode
	Start  float64 // silhouette window start fraction, in [0,1)
	End    float64 // silhouette window end fraction, in (Start,1]
	Offset float64 // outward normal offset distance
	Segs   int     // resampled point count, >= 2
	Blend  float64 // curvature blend toward the anchor, in [0,1]
	Custom string  // curve reference, custom mode only
}

// DefaultConfig returns the auto-mode defaults for a side. Inputs sit
// slightly below the silhouette, outputs slightly above it.
func DefaultConfig(side Side) Config {
	cfg := Config{Mode: shape.WireAuto, Start: 0.1, End: 0.9, Segs: 16, Offset: -0.02}
	if side == SideOutput {
		cfg.Offset = 0.02
	}
	return cfg
}

// ConfigFromParams assembles a side's Config from the flat parameter
// surface, applying defaults for unset values.
func ConfigFromParams(pp host.ParameterProvider, side Side) Config {
	prefix := map[Side][7]string{
		SideInput:  {host.ParamInMethod, host.ParamInStart, host.ParamInEnd, host.ParamInOffset, host.ParamInSegs, host.ParamInBlend, host.ParamInCustom},
		SideOutput: {host.ParamOutMethod, host.ParamOutStart, host.ParamOutEnd, host.ParamOutOffset, host.ParamOutSegs, host.ParamOutBlend, host.ParamOutCustom},
	}[side]

	cfg := DefaultConfig(side)
	if s, ok := pp.Str(prefix[0]); ok {
		if m, known := shape.WireModeFromString(s); known {
			cfg.Mode = m
		}
	}
	if f, ok := pp.Float(prefix[1]); ok {
		cfg.Start = f
	}
	if f, ok := pp.Float(prefix[2]); ok {
		cfg.End = f
	}
	if f, ok := pp.Float(prefix[3]); ok {
		cfg.Offset = f
	}
	if n, ok := pp.Int(prefix[4]); ok {
		cfg.Segs = n
	}
	if f, ok := pp.Float(prefix[5]); ok {
		cfg.Blend = f
	}
	if s, ok := pp.Str(prefix[6]); ok {
		cfg.Custom = s
	}
	return cfg
}

// Synthesize produces the connector curve for one side of the document.
// Matched mode requires the opposite connector to exist already, so
// callers synthesize the non-matched side first.
func Synthesize(doc *shape.Document, side Side, cfg Config, src host.GeometrySource) (*shape.WireCurve, error) {
	if cfg.Segs < 2 {
		return nil, shape.ValidationError{Message: fmt.Sprintf("%s connector: segment count %d, need at least 2", side, cfg.Segs)}
	}

	if cfg.Mode == shape.WireMatched {
		return matched(doc, side, cfg)
	}

	var pts []shape.Point
	var angles []float64

	switch cfg.Mode {
	case shape.WireAuto:
		if cfg.Start < 0 || cfg.End > 1 || cfg.End <= cfg.Start {
			return nil, shape.ValidationError{Message: fmt.Sprintf("%s connector: window [%g, %g] must satisfy 0 <= start < end <= 1", side, cfg.Start, cfg.End)}
		}
		body := doc.Group(shape.RoleShape)
		if body == nil || len(body.Points) < 3 {
			return nil, shape.ValidationError{Role: shape.RoleShape, Message: "auto connector needs a main shape silhouette"}
		}
		sub := subArc(body.Points, cfg.Start, cfg.End)
		sub = offsetPolyline(sub, outwardSign(body.Points), cfg.Offset)
		pts, angles = resample(sub, cfg.Segs)

	case shape.WireCustom:
		raw, ok := src.ResolveCurve(cfg.Custom)
		if !ok || len(raw) == 0 {
			return nil, shape.ReferenceError{Ref: cfg.Custom}
		}
		pts, angles = resample(raw, cfg.Segs)

	default:
		return nil, shape.ValidationError{Message: fmt.Sprintf("%s connector: unknown wire mode %d", side, cfg.Mode)}
	}

	curve := &shape.WireCurve{
		Mode:   cfg.Mode,
		Start:  cfg.Start,
		End:    cfg.End,
		Offset: cfg.Offset,
		Blend:  cfg.Blend,
		Segs:   cfg.Segs,
	}
	anchor := anchorPoint(doc)
	for i, p := range pts {
		curve.Points = append(curve.Points, shape.WirePoint{
			Pos:   shape.Lerp(p, anchor, cfg.Blend),
			Angle: angles[i],
		})
	}
	return curve, nil
}

// matched mirrors the opposite connector, reversing the sample order so
// anchor orientation is preserved.
func matched(doc *shape.Document, side Side, cfg Config) (*shape.WireCurve, error) {
	other := doc.Out
	if side == SideOutput {
		other = doc.In
	}
	if other == nil {
		return nil, shape.ValidationError{Message: fmt.Sprintf("%s connector: matched mode needs the opposite connector synthesized first", side)}
	}

	curve := &shape.WireCurve{
		Mode:   shape.WireMatched,
		Start:  other.Start,
		End:    other.End,
		Offset: other.Offset,
		Blend:  other.Blend,
		Segs:   other.Segs,
	}
	for i := len(other.Points) - 1; i >= 0; i-- {
		curve.Points = append(curve.Points, other.Points[i])
	}
	return curve, nil
}

// anchorPoint is the point blend pulls samples toward: the center of
// the main shape's bounding box, falling back to the footprint center
// for documents without a body.
func anchorPoint(doc *shape.Document) shape.Point {
	if bb, ok := doc.BoundingBox(shape.RoleShape); ok {
		return bb.Center()
	}
	return shape.Point{X: 0.5, Y: 0.15}
}

// outwardSign determines which perpendicular of the traversal tangent
// points away from the ring interior: +1 for counter-clockwise rings,
// -1 for clockwise ones.
func outwardSign(ring []shape.Point) float64 {
	if shape.SignedArea(ring) >= 0 {
		return 1
	}
	return -1
}

// subArc extracts the polyline between two arc-length fractions of an
// implicitly closed ring, keeping every ring vertex that falls inside
// the window. Window endpoints landing on a sharp corner resolve to the
// corner vertex itself, so the sub-arc always lies on the boundary.
func subArc(ring []shape.Point, startFrac, endFrac float64) []shape.Point {
	n := len(ring)
	total := shape.Perimeter(ring)
	startLen := startFrac * total
	endLen := endFrac * total

	var out []shape.Point
	emit := func(p shape.Point) {
		if len(out) > 0 && out[len(out)-1].Sub(p).Length() <= shape.Epsilon {
			return
		}
		out = append(out, p)
	}

	walked := 0.0
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		seg := b.Sub(a).Length()
		if seg <= shape.Epsilon {
			continue
		}
		segStart := walked
		segEnd := walked + seg

		// Window start falls inside this segment.
		if startLen >= segStart && startLen < segEnd {
			emit(shape.Lerp(a, b, (startLen-segStart)/seg))
		}
		// Interior ring vertex.
		if segEnd > startLen && segEnd < endLen {
			emit(b)
		}
		// Window end falls inside this segment.
		if endLen > segStart && endLen <= segEnd {
			emit(shape.Lerp(a, b, (endLen-segStart)/seg))
		}
		walked = segEnd
	}

	if len(out) < 2 {
		// Degenerate window; fall back to the start point twice so
		// resampling still honors the segment-count invariant.
		p := pointAtFraction(ring, startFrac)
		out = []shape.Point{p, p}
	}
	return out
}

// pointAtFraction returns the boundary point at an arc-length fraction.
func pointAtFraction(ring []shape.Point, frac float64) shape.Point {
	n := len(ring)
	target := frac * shape.Perimeter(ring)
	walked := 0.0
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		seg := b.Sub(a).Length()
		if walked+seg >= target && seg > shape.Epsilon {
			return shape.Lerp(a, b, (target-walked)/seg)
		}
		walked += seg
	}
	return ring[0]
}

// offsetPolyline pushes every vertex of an open polyline along its
// local normal. Vertex normals average the adjacent segment normals so
// corners offset along the bisector.
func offsetPolyline(pts []shape.Point, sign, dist float64) []shape.Point {
	if dist == 0 || len(pts) < 2 {
		return pts
	}

	normal := func(a, b shape.Point) shape.Point {
		t := b.Sub(a)
		l := t.Length()
		if l <= shape.Epsilon {
			return shape.Point{}
		}
		// Rotate the tangent -90 degrees; for a counter-clockwise ring
		// this points away from the interior.
		return shape.Point{X: t.Y / l, Y: -t.X / l}.MulScalar(sign)
	}

	out := make([]shape.Point, len(pts))
	for i, p := range pts {
		var n shape.Point
		if i > 0 {
			n = n.Add(normal(pts[i-1], p))
		}
		if i < len(pts)-1 {
			n = n.Add(normal(p, pts[i+1]))
		}
		l := n.Length()
		if l > shape.Epsilon {
			n = n.DivScalar(l)
		}
		out[i] = p.Add(n.MulScalar(dist))
	}
	return out
}

// resample spaces n samples evenly by arc length along an open
// polyline and reports the outward-facing emit angle (degrees) at each
// sample, taken from the local tangent.
func resample(pts []shape.Point, n int) ([]shape.Point, []float64) {
	if len(pts) < 2 {
		pts = append(pts, pts[0])
	}

	// Cumulative arc length.
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i].Sub(pts[i-1]).Length()
	}
	total := cum[len(pts)-1]

	out := make([]shape.Point, n)
	angles := make([]float64, n)
	seg := 0
	for i := 0; i < n; i++ {
		target := total * float64(i) / float64(n-1)
		for seg < len(pts)-2 && cum[seg+1] < target {
			seg++
		}
		a, b := pts[seg], pts[seg+1]
		length := cum[seg+1] - cum[seg]
		if length <= shape.Epsilon {
			out[i] = a
			angles[i] = 0
			continue
		}
		out[i] = shape.Lerp(a, b, (target-cum[seg])/length)
		t := b.Sub(a)
		// Emit angle: the perpendicular of the traversal tangent,
		// reported in degrees.
		angles[i] = math.Atan2(-t.X, t.Y) * 180 / math.Pi
	}
	return out, angles
}
