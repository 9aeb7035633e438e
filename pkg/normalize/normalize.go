// Package normalize fits a classified shape document into the canonical
// coordinate frame. A single affine transform (per-axis scale plus
// translation) maps the main shape's bounding box onto the configured
// footprint while every other group and any authored wire curve keeps
// its relative placement.
package normalize

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Footprint is the standard node footprint the host renderer assumes:
// a 1 x 0.3 box with the node center at its midpoint.
var Footprint = sdf.Box2{Min: shape.Point{X: 0, Y: 0}, Max: shape.Point{X: 1, Y: 0.3}}

// Config controls the normalization transform.
type Config struct {
	// Scale is the per-axis footprint scale factor. The target box is
	// the standard footprint scaled about the node center.
	Scale shape.Point

	// Override replaces the measured shape bounding box as the source
	// frame when non-nil.
	Override *sdf.Box2

	// Unbounded permits geometry outside the canonical 0-1 frame; the
	// document is flagged instead of rejected.
	Unbounded bool

	// IconScale is the absolute icon box size. Zero leaves the icon
	// untouched.
	IconScale float64

	// RestrictIcon clamps IconScale to the normalized shape extents so
	// the icon never outgrows the body.
	RestrictIcon bool
}

// DefaultConfig returns the configuration matching the standard node
// footprint with no icon adjustment.
func DefaultConfig() Config {
	return Config{Scale: shape.Point{X: 1, Y: 1}}
}

// Normalize applies the configured transform to the document in place.
// Normalizing an already-normalized document with the same
// configuration is a no-op within floating-point tolerance.
func Normalize(doc *shape.Document, cfg Config) error {
	src, ok := sourceBox(doc, cfg)
	if !ok {
		return shape.ValidationError{Role: shape.RoleShape, Message: "missing main shape group"}
	}

	size := src.Size()
	if size.X <= shape.Epsilon || size.Y <= shape.Epsilon {
		return shape.ValidationError{
			Role:    shape.RoleShape,
			Message: fmt.Sprintf("shape has zero extent (%g x %g), degenerate geometry cannot be scaled", size.X, size.Y),
		}
	}

	target := targetBox(cfg)
	scale := shape.Point{
		X: target.Size().X / size.X,
		Y: target.Size().Y / size.Y,
	}
	// offset maps the source center onto the target center after scaling.
	offset := target.Center().Sub(shape.Point{
		X: src.Center().X * scale.X,
		Y: src.Center().Y * scale.Y,
	})

	apply := func(p shape.Point) shape.Point {
		return shape.Point{X: p.X*scale.X + offset.X, Y: p.Y*scale.Y + offset.Y}
	}

	snap := takeSnapshot(doc)

	for gi := range doc.Groups {
		for pi, p := range doc.Groups[gi].Points {
			doc.Groups[gi].Points[pi] = apply(p)
		}
	}
	for _, wc := range []*shape.WireCurve{doc.In, doc.Out} {
		if wc == nil {
			continue
		}
		for i := range wc.Points {
			wc.Points[i].Pos = apply(wc.Points[i].Pos)
		}
	}

	doc.Transform = shape.Transform{Scale: cfg.Scale, Offset: offset}

	if cfg.IconScale > 0 {
		fitIcon(doc, cfg)
	}

	// A failed frame check must not leave the caller with
	// half-transformed geometry.
	if err := checkFrame(doc, cfg); err != nil {
		snap.restore(doc)
		return err
	}
	return nil
}

// snapshot captures the mutable geometry of a document so a rejected
// transform can be rolled back.
type snapshot struct {
	transform shape.Transform
	groups    [][]shape.Point
	in, out   []shape.Point
}

func takeSnapshot(doc *shape.Document) snapshot {
	s := snapshot{transform: doc.Transform, groups: make([][]shape.Point, len(doc.Groups))}
	for i, g := range doc.Groups {
		s.groups[i] = append([]shape.Point(nil), g.Points...)
	}
	if doc.In != nil {
		for _, wp := range doc.In.Points {
			s.in = append(s.in, wp.Pos)
		}
	}
	if doc.Out != nil {
		for _, wp := range doc.Out.Points {
			s.out = append(s.out, wp.Pos)
		}
	}
	return s
}

func (s snapshot) restore(doc *shape.Document) {
	doc.Transform = s.transform
	for i := range doc.Groups {
		copy(doc.Groups[i].Points, s.groups[i])
	}
	if doc.In != nil {
		for i := range doc.In.Points {
			doc.In.Points[i].Pos = s.in[i]
		}
	}
	if doc.Out != nil {
		for i := range doc.Out.Points {
			doc.Out.Points[i].Pos = s.out[i]
		}
	}
}

// sourceBox picks the frame being normalized away: the explicit
// override when given, otherwise the measured shape bounding box.
func sourceBox(doc *shape.Document, cfg Config) (sdf.Box2, bool) {
	if cfg.Override != nil {
		return *cfg.Override, true
	}
	return doc.BoundingBox(shape.RoleShape)
}

// targetBox is the standard footprint scaled about the node center.
func targetBox(cfg Config) sdf.Box2 {
	center := Footprint.Center()
	half := shape.Point{
		X: Footprint.Size().X * cfg.Scale.X / 2,
		Y: Footprint.Size().Y * cfg.Scale.Y / 2,
	}
	return sdf.Box2{Min: center.Sub(half), Max: center.Add(half)}
}

// fitIcon resizes the icon box about its own center to an absolute side
// length, so repeated normalization converges instead of compounding.
func fitIcon(doc *shape.Document, cfg Config) {
	icon := doc.Group(shape.RoleIcon)
	if icon == nil || len(icon.Points) == 0 {
		return
	}

	side := cfg.IconScale
	if cfg.RestrictIcon {
		if bb, ok := doc.BoundingBox(shape.RoleShape); ok {
			side = math.Min(side, math.Min(bb.Size().X, bb.Size().Y))
		}
	}

	bb := shape.BoundingBox(icon.Points)
	extent := math.Max(bb.Size().X, bb.Size().Y)
	if extent <= shape.Epsilon {
		return
	}
	k := side / extent
	center := bb.Center()
	for i, p := range icon.Points {
		icon.Points[i] = center.Add(p.Sub(center).MulScalar(k))
	}
}

// checkFrame enforces the canonical-frame invariant after the transform.
func checkFrame(doc *shape.Document, cfg Config) error {
	const lo, hi = -shape.Epsilon, 1 + shape.Epsilon

	exceeds := false
	for _, g := range doc.Groups {
		for _, p := range g.Points {
			if p.X < lo || p.X > hi || p.Y < lo || p.Y > hi {
				exceeds = true
			}
		}
	}

	switch {
	case exceeds && cfg.Unbounded:
		doc.Unbounded = true
	case exceeds:
		return shape.ValidationError{Message: "normalized geometry exceeds the canonical 0-1 frame; set the unbounded option to allow this"}
	default:
		doc.Unbounded = false
	}
	return nil
}
