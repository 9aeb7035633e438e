package stats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EJaworenko/Node-Weaver/pkg/codec"
	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func buildCanonicalDoc() *shape.Document {
	doc := shape.New("canon")
	doc.Groups = []shape.Group{
		{Role: shape.RoleShape, Index: 0, Points: []shape.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.3}, {X: 0, Y: 0.3},
		}},
		{Role: shape.RoleFlagVisible, Index: 1, Points: []shape.Point{{X: 0, Y: 0}}},
		{Role: shape.RoleFlagTemplate, Index: 2, Points: []shape.Point{{X: 1, Y: 0}}},
		{Role: shape.RoleFlagFreeze, Index: 3, Points: []shape.Point{{X: 0, Y: 0.3}}},
		{Role: shape.RoleFlagBypass, Index: 4, Points: []shape.Point{{X: 1, Y: 0.3}}},
		{Role: shape.RoleIcon, Index: 5, Points: []shape.Point{{X: 0.02, Y: 0.02}, {X: 0.28, Y: 0.28}}},
	}
	doc.In = &shape.WireCurve{
		Mode: shape.WireAuto, Start: 0.2, End: 0.8, Segs: 2,
		Points: []shape.WirePoint{
			{Pos: shape.Point{X: 0.2, Y: -0.02}, Angle: -90},
			{Pos: shape.Point{X: 0.8, Y: -0.05}, Angle: -90},
		},
	}
	return doc
}

func TestMeasureCanonicalDoc(t *testing.T) {
	rec, err := Measure(buildCanonicalDoc())
	require.NoError(t, err)
	require.Empty(t, rec.Violations)

	bb := rec.PerRole[shape.RoleShape]
	require.InDelta(t, 1, bb.Size().X, 1e-12)
	require.InDelta(t, 0.3, bb.Size().Y, 1e-12)

	require.NotNil(t, rec.IconBox)
	require.InDelta(t, 0.26, rec.IconBox.Size().X, 1e-12)

	require.NotNil(t, rec.InRange)
	require.InDelta(t, -0.05, rec.InRange.Min, 1e-12)
	require.InDelta(t, -0.02, rec.InRange.Max, 1e-12)
	require.Nil(t, rec.OutRange)

	// Overall includes the wire samples below the body.
	require.InDelta(t, -0.05, rec.Overall.Min.Y, 1e-12)
}

func TestMeasureIsBestEffort(t *testing.T) {
	doc := buildCanonicalDoc()
	doc.Groups = doc.Groups[:2] // missing three flags and icon

	rec, err := Measure(doc)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Violations)

	// Measurements still arrive alongside the violations.
	require.InDelta(t, 1, rec.PerRole[shape.RoleShape].Size().X, 1e-12)
}

func TestMeasureWithoutShapeGroupFails(t *testing.T) {
	doc := shape.New("empty")
	_, err := Measure(doc)

	var verr shape.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, shape.RoleShape, verr.Role)
}

func TestFormat(t *testing.T) {
	rec, err := Measure(buildCanonicalDoc())
	require.NoError(t, err)

	label := Format(rec.PerRole[shape.RoleShape], 3)
	require.Equal(t, "X: 0 to 1  |  Y: 0 to 0.3  |  Size: 1 x 0.3  |  Center: 0.5 x 0.15", label)
}

func TestCompareAgainstRect(t *testing.T) {
	rec, err := Measure(buildCanonicalDoc())
	require.NoError(t, err)

	ref, ok := ReferenceByName("rect")
	require.True(t, ok)

	d := Compare(rec, ref)
	require.InDelta(t, 0, d.SizeX, 1e-12)
	require.InDelta(t, 0, d.SizeY, 1e-12)
	require.InDelta(t, 0, d.CenterX, 1e-12)
	require.InDelta(t, 0, d.CenterY, 1e-12)

	all := CompareAll(rec)
	require.Len(t, all, len(Builtins))
	require.Equal(t, "rect", all[0].Reference)
}

func TestInspect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), codec.ShapeDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path, err := codec.Write(buildCanonicalDoc(), dir)
	require.NoError(t, err)

	doc, rec, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "canon", doc.Name)
	require.InDelta(t, 0.3, rec.PerRole[shape.RoleShape].Size().Y, 1e-9)
}
