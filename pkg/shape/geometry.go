package shape

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Epsilon is the tolerance used for geometric comparisons throughout
// the shape pipeline.
const Epsilon = 1e-9

// BoundingBox returns the axis-aligned bounding box of a point set.
// The caller guarantees pts is non-empty.
func BoundingBox(pts []Point) sdf.Box2 {
	bb := sdf.Box2{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bb.Min.X = math.Min(bb.Min.X, p.X)
		bb.Min.Y = math.Min(bb.Min.Y, p.Y)
		bb.Max.X = math.Max(bb.Max.X, p.X)
		bb.Max.Y = math.Max(bb.Max.Y, p.Y)
	}
	return bb
}

// Centroid returns the vertex centroid of a point set.
// The caller guarantees pts is non-empty.
func Centroid(pts []Point) Point {
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(pts)))
}

// SignedArea returns the signed area of an implicitly closed ring.
// Positive means counter-clockwise winding.
func SignedArea(ring []Point) float64 {
	area := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

// Perimeter returns the total edge length of an implicitly closed ring.
func Perimeter(ring []Point) float64 {
	total := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		total += ring[(i+1)%n].Sub(ring[i]).Length()
	}
	return total
}

// CloseRing drops a duplicated closing point so rings are stored in
// implicit-closure form. Geometry sources differ on whether they repeat
// the first point at the end.
func CloseRing(pts []Point) []Point {
	if len(pts) > 1 && samePoint(pts[0], pts[len(pts)-1]) {
		return pts[:len(pts)-1]
	}
	return pts
}

func samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) <= Epsilon && math.Abs(a.Y-b.Y) <= Epsilon
}

func cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// segmentsIntersect reports whether segments ab and cd properly cross.
// Touching at shared endpoints does not count.
func segmentsIntersect(a, b, c, d Point) bool {
	d1 := cross(b.Sub(a), c.Sub(a))
	d2 := cross(b.Sub(a), d.Sub(a))
	d3 := cross(d.Sub(c), a.Sub(c))
	d4 := cross(d.Sub(c), b.Sub(c))
	return ((d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon)) &&
		((d3 > Epsilon && d4 < -Epsilon) || (d3 < -Epsilon && d4 > Epsilon))
}

// SelfIntersects reports whether any two non-adjacent edges of an
// implicitly closed ring cross each other. Rings with fewer than four
// points cannot self-intersect.
func SelfIntersects(ring []Point) bool {
	n := len(ring)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip edges sharing a vertex with edge i.
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			c := ring[j]
			d := ring[(j+1)%n]
			if segmentsIntersect(a, b, c, d) {
				return true
			}
		}
	}
	return false
}

// Lerp interpolates between a and b by t.
func Lerp(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).MulScalar(t))
}

// DistanceToRing returns the distance from p to the nearest edge of an
// implicitly closed ring.
func DistanceToRing(p Point, ring []Point) float64 {
	best := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		d := distanceToSegment(p, ring[i], ring[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

func distanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 <= Epsilon {
		return p.Sub(a).Length()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.MulScalar(t))).Length()
}
