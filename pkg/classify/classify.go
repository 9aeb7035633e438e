// Package classify assigns a semantic role to each raw polygon
// primitive and assembles the group collection of a shape document.
//
// Two conventions apply, mirroring the definition-file documentation:
// a primitive whose tag names a role ("outline", "flag0".."flag3",
// "icon") is assigned that role directly; untagged primitives are
// assigned by position: the first is the main shape, the next four are
// the flag quadrants in order, the sixth is the icon box, and anything
// after that is auxiliary. Primitives tagged "input" or "output" are
// reserved as custom wire-curve sources and skipped here.
package classify

import (
	"fmt"

	"github.com/EJaworenko/Node-Weaver/pkg/host"
	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// MinPrimitives is the smallest primitive count that can fill every
// required role: one main shape plus four flag quadrants.
const MinPrimitives = 5

// Group indices in export order. The renderer relies on these staying
// stable across a single export.
const (
	indexShape = 0
	indexFlag0 = 1 // flag_visible .. flag_bypass occupy 1-4
	indexIcon  = 5
	indexAux   = 6 // auxiliary groups count up from here
)

// tagRoles maps recognized discriminator tags to roles.
var tagRoles = map[string]shape.Role{
	"outline": shape.RoleShape,
	"flag0":   shape.RoleFlagVisible,
	"flag1":   shape.RoleFlagTemplate,
	"flag2":   shape.RoleFlagFreeze,
	"flag3":   shape.RoleFlagBypass,
	"icon":    shape.RoleIcon,
}

// positional lists the role convention for untagged primitives.
var positional = []shape.Role{
	shape.RoleShape,
	shape.RoleFlagVisible,
	shape.RoleFlagTemplate,
	shape.RoleFlagFreeze,
	shape.RoleFlagBypass,
	shape.RoleIcon,
}

// Classify assigns each primitive exactly one role and returns the
// document's group collection. It is a pure transform: primitives are
// copied, never mutated.
func Classify(prims []host.Primitive) ([]shape.Group, error) {
	assigned := make(map[shape.Role][]shape.Point)
	var aux [][]shape.Point

	// Tagged primitives claim their roles first.
	var untagged []host.Primitive
	for _, p := range prims {
		if p.Tag == "input" || p.Tag == "output" {
			continue // wire-curve sources, resolved by the synthesizer
		}
		role, ok := tagRoles[p.Tag]
		if !ok {
			untagged = append(untagged, p)
			continue
		}
		if _, dup := assigned[role]; dup {
			return nil, shape.ValidationError{Role: role, Message: fmt.Sprintf("role claimed by two primitives (tag %q)", p.Tag)}
		}
		assigned[role] = shape.CloseRing(p.Points)
	}

	// Untagged primitives fill the remaining roles by position.
	next := 0
	for _, p := range untagged {
		for next < len(positional) {
			if _, taken := assigned[positional[next]]; !taken {
				break
			}
			next++
		}
		if next < len(positional) {
			assigned[positional[next]] = shape.CloseRing(p.Points)
			next++
			continue
		}
		aux = append(aux, shape.CloseRing(p.Points))
	}

	// Fewer than MinPrimitives always leaves a role unfilled, so the
	// missing-role checks double as the primitive-count check and name
	// the exact gap.
	if _, ok := assigned[shape.RoleShape]; !ok {
		return nil, shape.ValidationError{Role: shape.RoleShape, Message: "no primitive assigned to the main shape role"}
	}
	for _, r := range shape.FlagRoles {
		if _, ok := assigned[r]; !ok {
			return nil, shape.ValidationError{Role: r, Message: "no primitive assigned to this flag role"}
		}
	}

	if err := checkRings(assigned); err != nil {
		return nil, err
	}

	// Assemble in index order.
	groups := []shape.Group{{Role: shape.RoleShape, Index: indexShape, Points: assigned[shape.RoleShape]}}
	for i, r := range shape.FlagRoles {
		groups = append(groups, shape.Group{Role: r, Index: indexFlag0 + i, Points: assigned[r]})
	}
	if pts, ok := assigned[shape.RoleIcon]; ok {
		groups = append(groups, shape.Group{Role: shape.RoleIcon, Index: indexIcon, Points: iconBox(pts)})
	}
	for i, pts := range aux {
		groups = append(groups, shape.Group{Role: shape.RoleAux, Index: indexAux + i, Points: pts})
	}
	return groups, nil
}

// checkRings applies the per-role ring invariants up front so a bad
// primitive is reported against the role it was assigned to.
func checkRings(assigned map[shape.Role][]shape.Point) error {
	if pts := assigned[shape.RoleShape]; len(pts) < 3 {
		return shape.ValidationError{Role: shape.RoleShape, Message: fmt.Sprintf("main shape needs at least 3 points, has %d", len(pts))}
	}
	if shape.SelfIntersects(assigned[shape.RoleShape]) {
		return shape.ValidationError{Role: shape.RoleShape, Message: "main shape ring is self-intersecting"}
	}
	for _, r := range shape.FlagRoles {
		pts := assigned[r]
		if len(pts) == 0 || len(pts) == 2 {
			return shape.ValidationError{Role: r, Message: fmt.Sprintf("flag needs 3+ points or a single anchor point, has %d", len(pts))}
		}
		if shape.SelfIntersects(pts) {
			return shape.ValidationError{Role: r, Message: "flag ring is self-intersecting"}
		}
	}
	if pts, ok := assigned[shape.RoleIcon]; ok && len(pts) == 0 {
		return shape.ValidationError{Role: shape.RoleIcon, Message: "icon primitive has no points"}
	}
	return nil
}

// iconBox collapses an icon primitive to its two-corner bounding box,
// the form the definition file stores icon placement in.
func iconBox(pts []shape.Point) []shape.Point {
	bb := shape.BoundingBox(pts)
	return []shape.Point{bb.Min, bb.Max}
}
