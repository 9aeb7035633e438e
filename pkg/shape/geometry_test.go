package shape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rect() []Point {
	return []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.3}, {X: 0, Y: 0.3}}
}

func TestSignedAreaWinding(t *testing.T) {
	require.InDelta(t, 0.3, SignedArea(rect()), 1e-12)

	// Reversed ring flips the sign.
	r := rect()
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	require.InDelta(t, -0.3, SignedArea(r), 1e-12)
}

func TestPerimeter(t *testing.T) {
	require.InDelta(t, 2.6, Perimeter(rect()), 1e-12)
}

func TestCloseRing(t *testing.T) {
	open := rect()
	closed := append(rect(), Point{X: 0, Y: 0})

	require.Len(t, CloseRing(closed), 4)
	require.Len(t, CloseRing(open), 4)
}

func TestSelfIntersects(t *testing.T) {
	require.False(t, SelfIntersects(rect()))

	bowtie := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	require.True(t, SelfIntersects(bowtie))

	triangle := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}}
	require.False(t, SelfIntersects(triangle))
}

func TestDistanceToRing(t *testing.T) {
	require.InDelta(t, 0, DistanceToRing(Point{X: 0.5, Y: 0}, rect()), 1e-12)
	require.InDelta(t, 0.1, DistanceToRing(Point{X: 0.5, Y: -0.1}, rect()), 1e-12)
	// Interior point distance goes to the nearest edge.
	require.InDelta(t, 0.1, DistanceToRing(Point{X: 0.5, Y: 0.1}, rect()), 1e-12)
}

func TestLerp(t *testing.T) {
	p := Lerp(Point{X: 0, Y: 0}, Point{X: 2, Y: 4}, 0.25)
	require.InDelta(t, 0.5, p.X, 1e-12)
	require.InDelta(t, 1.0, p.Y, 1e-12)
}
