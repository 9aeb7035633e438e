package shape

import (
	"fmt"
	"math"
)

// Validate re-checks every document invariant and returns the list of
// violations. An empty result means the document is valid.
func (d *Document) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, d.validateRoles()...)
	errs = append(errs, d.validateRings()...)
	errs = append(errs, d.validateIndices()...)
	errs = append(errs, d.validateFrame()...)
	return errs
}

// validateRoles checks for exactly one shape group and exactly one
// group per flag role.
func (d *Document) validateRoles() []ValidationError {
	var errs []ValidationError

	counts := make(map[Role]int)
	for _, g := range d.Groups {
		counts[g.Role]++
	}

	switch n := counts[RoleShape]; {
	case n == 0:
		errs = append(errs, ValidationError{Role: RoleShape, Message: "missing main shape group"})
	case n > 1:
		errs = append(errs, ValidationError{Role: RoleShape, Message: fmt.Sprintf("expected one shape group, found %d", n)})
	}

	for _, r := range FlagRoles {
		switch n := counts[r]; {
		case n == 0:
			errs = append(errs, ValidationError{Role: r, Message: "missing flag group"})
		case n > 1:
			errs = append(errs, ValidationError{Role: r, Message: fmt.Sprintf("expected one flag group, found %d", n)})
		}
	}

	if counts[RoleIcon] > 1 {
		errs = append(errs, ValidationError{Role: RoleIcon, Message: fmt.Sprintf("expected at most one icon group, found %d", counts[RoleIcon])})
	}

	return errs
}

// validateRings checks closure-form point counts and self-intersection.
// The main shape needs a real ring; a flag may degenerate to a single
// anchor point but never to two points.
func (d *Document) validateRings() []ValidationError {
	var errs []ValidationError

	for _, g := range d.Groups {
		n := len(g.Points)
		switch g.Role {
		case RoleShape:
			if n < 3 {
				errs = append(errs, ValidationError{Role: g.Role, Message: fmt.Sprintf("ring needs at least 3 points, has %d", n)})
				continue
			}
		case RoleFlagVisible, RoleFlagTemplate, RoleFlagFreeze, RoleFlagBypass:
			if n == 0 || n == 2 {
				errs = append(errs, ValidationError{Role: g.Role, Message: fmt.Sprintf("flag ring needs 3+ points or a single anchor point, has %d", n)})
				continue
			}
		case RoleIcon:
			if n == 0 {
				errs = append(errs, ValidationError{Role: g.Role, Message: "icon group has no points"})
				continue
			}
		}

		if n >= 3 && SelfIntersects(g.Points) {
			errs = append(errs, ValidationError{Role: g.Role, Message: "ring is self-intersecting"})
		}
	}

	return errs
}

// validateIndices checks that group indices are unique within the document.
func (d *Document) validateIndices() []ValidationError {
	var errs []ValidationError
	seen := make(map[int]Role)

	for _, g := range d.Groups {
		if prev, dup := seen[g.Index]; dup {
			errs = append(errs, ValidationError{
				Role:    g.Role,
				Message: fmt.Sprintf("group index %d already used by %s", g.Index, prev),
			})
			continue
		}
		seen[g.Index] = g.Role
	}

	return errs
}

// validateFrame checks that all coordinates stay inside the canonical
// 0-1 working frame unless the document is marked unbounded.
func (d *Document) validateFrame() []ValidationError {
	if d.Unbounded {
		return nil
	}

	var errs []ValidationError
	for _, g := range d.Groups {
		for _, p := range g.Points {
			if outsideFrame(p) {
				errs = append(errs, ValidationError{
					Role:    g.Role,
					Message: fmt.Sprintf("point (%g, %g) exceeds the canonical 0-1 frame", p.X, p.Y),
				})
				break // one violation per group is enough
			}
		}
	}
	return errs
}

func outsideFrame(p Point) bool {
	const lo, hi = -Epsilon, 1 + Epsilon
	return p.X < lo || p.X > hi || p.Y < lo || p.Y > hi ||
		math.IsNaN(p.X) || math.IsNaN(p.Y)
}
