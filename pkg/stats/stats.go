// Package stats computes descriptive measurements of a shape document
// and compares them against reference measurements of the host's
// built-in shapes. It is read-only and best-effort: a document failing
// validation is still measured as long as it has a main shape group, so
// the inspector can show what is wrong.
package stats

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"

	"github.com/EJaworenko/Node-Weaver/pkg/codec"
	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Range is a closed vertical interval.
type Range struct {
	Min, Max float64
}

// Record holds the derived measurements of one document. It is
// computed on demand and never stored.
type Record struct {
	PerRole  map[shape.Role]sdf.Box2 // bounding box per present role
	Centroid map[shape.Role]shape.Point
	Overall  sdf.Box2
	IconBox  *sdf.Box2
	InRange  *Range // vertical extent of input anchors
	OutRange *Range // vertical extent of output anchors

	// Violations carries the document's validation findings so the
	// inspector can display measurements and problems side by side.
	Violations []shape.ValidationError
}

// Measure computes a Record for the document. The error is non-nil only
// when the document has no main shape group at all; validation
// violations are reported through the record instead.
func Measure(doc *shape.Document) (*Record, error) {
	if doc.Group(shape.RoleShape) == nil {
		return nil, shape.ValidationError{Role: shape.RoleShape, Message: "nothing to measure without a main shape group"}
	}

	rec := &Record{
		PerRole:    make(map[shape.Role]sdf.Box2),
		Centroid:   make(map[shape.Role]shape.Point),
		Violations: doc.Validate(),
	}

	for r := shape.RoleShape; r <= shape.RoleIcon; r++ {
		if bb, ok := doc.BoundingBox(r); ok {
			rec.PerRole[r] = bb
		}
		if c, ok := doc.Centroid(r); ok {
			rec.Centroid[r] = c
		}
	}
	if bb, ok := doc.BoundingBox(shape.RoleIcon); ok {
		rec.IconBox = &bb
	}
	if bb, ok := doc.Overall(); ok {
		rec.Overall = bb
	}

	rec.InRange = anchorRange(doc.In)
	rec.OutRange = anchorRange(doc.Out)
	return rec, nil
}

func anchorRange(wc *shape.WireCurve) *Range {
	if wc == nil || len(wc.Points) == 0 {
		return nil
	}
	r := &Range{Min: wc.Points[0].Pos.Y, Max: wc.Points[0].Pos.Y}
	for _, wp := range wc.Points[1:] {
		r.Min = math.Min(r.Min, wp.Pos.Y)
		r.Max = math.Max(r.Max, wp.Pos.Y)
	}
	return r
}

// Format renders a bounding box the way the inspector labels it.
func Format(bb sdf.Box2, digits int) string {
	rd := func(v float64) float64 {
		k := math.Pow(10, float64(digits))
		return math.Round(v*k) / k
	}
	return fmt.Sprintf("X: %g to %g  |  Y: %g to %g  |  Size: %g x %g  |  Center: %g x %g",
		rd(bb.Min.X), rd(bb.Max.X),
		rd(bb.Min.Y), rd(bb.Max.Y),
		rd(bb.Size().X), rd(bb.Size().Y),
		rd(bb.Center().X), rd(bb.Center().Y))
}

// Inspect parses the definition file at path and measures it, the
// import path used by the inspector.
func Inspect(path string) (*shape.Document, *Record, error) {
	doc, err := codec.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	rec, err := Measure(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, rec, nil
}
