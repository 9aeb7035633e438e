package stats

import (
	"github.com/deadsy/sdfx/sdf"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Reference holds the measured footprint of one of the host's built-in
// shapes, used to tell authors how far their shape drifts from the
// stock look.
type Reference struct {
	Name      string
	Footprint sdf.Box2
	IconBox   sdf.Box2
}

func box(x0, y0, x1, y1 float64) sdf.Box2 {
	return sdf.Box2{Min: shape.Point{X: x0, Y: y0}, Max: shape.Point{X: x1, Y: y1}}
}

// standardIcon is the icon box every built-in shape shares.
var standardIcon = box(0.02, 0.02, 0.28, 0.28)

// Builtins are the reference measurements of the host's stock shapes.
// Footprints vary slightly for the decorative shapes; the icon box is
// shared.
var Builtins = []Reference{
	{Name: "rect", Footprint: box(0, 0, 1, 0.3), IconBox: standardIcon},
	{Name: "bone", Footprint: box(-0.05, -0.05, 1.05, 0.35), IconBox: standardIcon},
	{Name: "bulge", Footprint: box(0, -0.05, 1, 0.32), IconBox: standardIcon},
	{Name: "chevron_up", Footprint: box(0, 0, 1, 0.38), IconBox: standardIcon},
	{Name: "chevron_down", Footprint: box(0, -0.08, 1, 0.3), IconBox: standardIcon},
	{Name: "circle", Footprint: box(0.2, -0.15, 0.8, 0.45), IconBox: standardIcon},
	{Name: "diamond", Footprint: box(0.1, -0.12, 0.9, 0.42), IconBox: standardIcon},
	{Name: "clipped_left", Footprint: box(0, 0, 1, 0.3), IconBox: standardIcon},
	{Name: "clipped_right", Footprint: box(0, 0, 1, 0.3), IconBox: standardIcon},
	{Name: "tabbed_left", Footprint: box(0, 0, 1, 0.36), IconBox: standardIcon},
	{Name: "tabbed_right", Footprint: box(0, 0, 1, 0.36), IconBox: standardIcon},
	{Name: "tilted", Footprint: box(-0.04, 0, 1.04, 0.3), IconBox: standardIcon},
	{Name: "wave", Footprint: box(0, -0.04, 1, 0.34), IconBox: standardIcon},
}

// ReferenceByName looks up a built-in reference.
func ReferenceByName(name string) (Reference, bool) {
	for _, ref := range Builtins {
		if ref.Name == name {
			return ref, true
		}
	}
	return Reference{}, false
}

// Delta is the measured difference between a document and a reference
// shape: positive values mean the document is larger / further along
// the axis.
type Delta struct {
	Reference string
	SizeX     float64
	SizeY     float64
	CenterX   float64
	CenterY   float64
}

// Compare reports the footprint delta between a measured record and one
// reference shape.
func Compare(rec *Record, ref Reference) Delta {
	bb := rec.PerRole[shape.RoleShape]
	return Delta{
		Reference: ref.Name,
		SizeX:     bb.Size().X - ref.Footprint.Size().X,
		SizeY:     bb.Size().Y - ref.Footprint.Size().Y,
		CenterX:   bb.Center().X - ref.Footprint.Center().X,
		CenterY:   bb.Center().Y - ref.Footprint.Center().Y,
	}
}

// CompareAll reports deltas against every built-in reference, in the
// table's order.
func CompareAll(rec *Record) []Delta {
	out := make([]Delta, 0, len(Builtins))
	for _, ref := range Builtins {
		out = append(out, Compare(rec, ref))
	}
	return out
}
