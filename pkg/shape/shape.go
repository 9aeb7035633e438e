package shape

import (
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Point is a 2D position in shape space. Geometry arriving from the host
// is projected onto the XY plane before it reaches this package.
type Point = v2.Vec

// Role identifies the semantic meaning of a group within a document.
type Role int

const (
	RoleShape Role = iota // main body outline
	RoleFlagVisible
	RoleFlagTemplate
	RoleFlagFreeze
	RoleFlagBypass
	RoleIcon
	RoleAux
)

// FlagRoles lists the four flag roles in quadrant order. The order is
// load-bearing: it matches the flag section numbering in the definition
// file ("0" through "3").
var FlagRoles = [4]Role{RoleFlagVisible, RoleFlagTemplate, RoleFlagFreeze, RoleFlagBypass}

func (r Role) String() string {
	switch r {
	case RoleShape:
		return "shape"
	case RoleFlagVisible:
		return "flag_visible"
	case RoleFlagTemplate:
		return "flag_template"
	case RoleFlagFreeze:
		return "flag_freeze"
	case RoleFlagBypass:
		return "flag_bypass"
	case RoleIcon:
		return "icon"
	case RoleAux:
		return "aux"
	default:
		return "unknown"
	}
}

// RoleFromString is the inverse of Role.String. The second return is
// false for unrecognized names.
func RoleFromString(s string) (Role, bool) {
	for r := RoleShape; r <= RoleAux; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return RoleAux, false
}

// Group is one closed polygon ring tagged with its semantic role and a
// stable index the renderer uses to map geometry back to semantics.
// The ring is implicitly closed: the last point connects back to the
// first without a duplicate closing point.
type Group struct {
	Role   Role
	Index  int
	Points []Point
}

// WireMode selects how a connector curve is produced.
type WireMode int

const (
	WireAuto    WireMode = iota // derived from the shape silhouette
	WireCustom                  // externally authored curve
	WireMatched                 // mirrored copy of the opposite connector
)

func (m WireMode) String() string {
	switch m {
	case WireAuto:
		return "auto"
	case WireCustom:
		return "custom"
	case WireMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// WireModeFromString parses a wire mode name.
func WireModeFromString(s string) (WireMode, bool) {
	switch s {
	case "auto":
		return WireAuto, true
	case "custom":
		return WireCustom, true
	case "matched":
		return WireMatched, true
	}
	return WireAuto, false
}

// WirePoint is one connector sample: a position plus the emit angle in
// degrees that wires leave the node at.
type WirePoint struct {
	Pos   Point
	Angle float64
}

// WireCurve is a resolved connector curve. Points always has exactly
// Segs entries after synthesis.
type WireCurve struct {
	Points []WirePoint
	Mode   WireMode
	Start  float64 // silhouette window start fraction (auto mode)
	End    float64 // silhouette window end fraction (auto mode)
	Offset float64 // normal offset distance (auto mode)
	Blend  float64 // curvature blend toward the anchor, in [0,1]
	Segs   int     // target sample count
}

// Transform records the scale/offset applied during normalization.
// Scale is per-axis so non-uniform footprint scaling round-trips.
type Transform struct {
	Scale  Point
	Offset Point
}

// IdentityTransform is the transform of an untouched document.
func IdentityTransform() Transform {
	return Transform{Scale: Point{X: 1, Y: 1}}
}

// Document is the in-memory record of one custom node appearance.
// It is created fresh on every ingest or parse and mutated in place by
// user configuration before export; it has no persistence beyond the
// emitted definition file.
type Document struct {
	Name      string
	Groups    []Group
	Transform Transform
	Unbounded bool // set when geometry is allowed to exceed the 0-1 frame
	In        *WireCurve
	Out       *WireCurve

	// Extra holds unknown definition-file sections verbatim so that
	// files written by other tools survive a parse/emit round trip.
	Extra map[string][]byte
}

// New returns an empty document with an identity transform.
func New(name string) *Document {
	return &Document{Name: name, Transform: IdentityTransform()}
}

// Group returns the first group with the given role, or nil.
func (d *Document) Group(role Role) *Group {
	for i := range d.Groups {
		if d.Groups[i].Role == role {
			return &d.Groups[i]
		}
	}
	return nil
}

// GroupsByRole returns all groups with the given role in document order.
func (d *Document) GroupsByRole(role Role) []Group {
	var out []Group
	for _, g := range d.Groups {
		if g.Role == role {
			out = append(out, g)
		}
	}
	return out
}

// BoundingBox returns the axis-aligned bounding box of the group with
// the given role. The second return is false when the role is absent or
// the group is empty.
func (d *Document) BoundingBox(role Role) (sdf.Box2, bool) {
	g := d.Group(role)
	if g == nil || len(g.Points) == 0 {
		return sdf.Box2{}, false
	}
	return BoundingBox(g.Points), true
}

// Centroid returns the vertex centroid of the group with the given role.
// The second return is false when the role is absent or the group is empty.
func (d *Document) Centroid(role Role) (Point, bool) {
	g := d.Group(role)
	if g == nil || len(g.Points) == 0 {
		return Point{}, false
	}
	return Centroid(g.Points), true
}

// Overall returns the bounding box of every group and wire point in the
// document. The second return is false for an empty document.
func (d *Document) Overall() (sdf.Box2, bool) {
	var pts []Point
	for _, g := range d.Groups {
		pts = append(pts, g.Points...)
	}
	for _, wc := range []*WireCurve{d.In, d.Out} {
		if wc == nil {
			continue
		}
		for _, wp := range wc.Points {
			pts = append(pts, wp.Pos)
		}
	}
	if len(pts) == 0 {
		return sdf.Box2{}, false
	}
	return BoundingBox(pts), true
}
