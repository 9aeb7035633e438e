package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildCanonicalDoc creates the canonical 1 x 0.3 rectangle document
// with single-point flags, an icon box, and both connectors.
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
		Mode: shape.WireAuto, Start: 0.2, End: 0.8, Offset: -0.02, Blend: 0.25, Segs: 3,
		Points: []shape.WirePoint{
			{Pos: shape.Point{X: 0.52, Y: -0.02}, Angle: -90},
			{Pos: shape.Point{X: 0.75, Y: -0.02}, Angle: -90},
			{Pos: shape.Point{X: 1, Y: 0.1}, Angle: 0},
		},
	}
	doc.Out = &shape.WireCurve{
		Mode: shape.WireCustom, Segs: 2,
		Points: []shape.WirePoint{
			{Pos: shape.Point{X: 0.25, Y: 0.32}, Angle: 90},
			{Pos: shape.Point{X: 0.75, Y: 0.32}, Angle: 90},
		},
	}
	return doc
}

// approxDoc compares documents with numeric tolerance matching the
// writer's fixed precision.
func approxDoc(t *testing.T, want, got *shape.Document) {
	t.Helper()
	diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 0.0006), cmpopts.EquateEmpty())
	require.Empty(t, diff)
}

func TestRoundTrip(t *testing.T) {
	doc := buildCanonicalDoc()
	require.Empty(t, doc.Validate())

	data, err := Encode(doc)
	require.NoError(t, err)

	parsed, err := Decode(data)
	require.NoError(t, err)
	approxDoc(t, doc, parsed)
}

func TestEncodeDeterministic(t *testing.T) {
	doc := buildCanonicalDoc()
	first, err := Encode(doc)
	require.NoError(t, err)

	parsed, err := Decode(first)
	require.NoError(t, err)
	second, err := Encode(parsed)
	require.NoError(t, err)

	require.True(t, bytes.Equal(first, second), "re-serializing an unmodified parse must be byte-equivalent")
}

func TestEncodeCanonicalScenario(t *testing.T) {
	doc := buildCanonicalDoc()
	data, err := Encode(doc)
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, `"scale": 1`)
	require.Contains(t, out, `"0": {"outline": [[0, 0]]}`)
	require.Contains(t, out, `"1": {"outline": [[1, 0]]}`)
	require.Contains(t, out, `"2": {"outline": [[0, 0.3]]}`)
	require.Contains(t, out, `"3": {"outline": [[1, 0.3]]}`)
	require.Contains(t, out, `"outline": [[0, 0], [1, 0], [1, 0.3], [0, 0.3]]`)
}

func TestEncodeFixedPrecision(t *testing.T) {
	doc := buildCanonicalDoc()
	doc.Groups[0].Points[0] = shape.Point{X: 0.123456, Y: 0.0004}

	data, err := Encode(doc)
	require.NoError(t, err)
	require.Contains(t, string(data), `[0.123, 0]`)
}

func TestDecodeMissingScale(t *testing.T) {
	doc := buildCanonicalDoc()
	data, err := Encode(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	delete(raw, "scale")
	stripped, err := json.Marshal(raw)
	require.NoError(t, err)

	parsed, err := Decode(stripped)
	require.Nil(t, parsed, "no partial document on format errors")

	var ferr shape.FormatError
	require.True(t, errors.As(err, &ferr))
	require.Equal(t, "scale", ferr.Key)
}

func TestDecodeMissingFlagSection(t *testing.T) {
	data := []byte(`{
		"name": "broken",
		"scale": 1,
		"outline": [[0, 0], [1, 0], [1, 0.3], [0, 0.3]],
		"flags": {"0": {"outline": [[0, 0]]}}
	}`)

	_, err := Decode(data)
	var ferr shape.FormatError
	require.True(t, errors.As(err, &ferr))
	require.Equal(t, "flags.1", ferr.Key)
}

func TestDecodeUnparsableNumber(t *testing.T) {
	data := []byte(`{
		"name": "broken",
		"scale": 1,
		"outline": [[0, "oops"], [1, 0], [1, 0.3], [0, 0.3]],
		"flags": {
			"0": {"outline": [[0, 0]]}, "1": {"outline": [[1, 0]]},
			"2": {"outline": [[0, 0.3]]}, "3": {"outline": [[1, 0.3]]}
		}
	}`)

	_, err := Decode(data)
	var ferr shape.FormatError
	require.True(t, errors.As(err, &ferr))
	require.Equal(t, "outline", ferr.Key)
}

func TestDecodeForeignFilePreservesUnknownSections(t *testing.T) {
	data := []byte(`{
		"name": "builtin",
		"scale": 1,
		"outline": [[0, 0], [1, 0], [1, 0.3], [0, 0.3]],
		"flags": {
			"0": {"outline": [[0, 0]]}, "1": {"outline": [[1, 0]]},
			"2": {"outline": [[0, 0.3]]}, "3": {"outline": [[1, 0.3]]}
		},
		"inputs": [[0.5, 0, -90]],
		"renderer_hint": {"gloss": 0.4}
	}`)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Contains(t, doc.Extra, "renderer_hint")

	// Samples without a wire parameter block decode as custom curves.
	require.NotNil(t, doc.In)
	require.Equal(t, shape.WireCustom, doc.In.Mode)
	require.InDelta(t, -90, doc.In.Points[0].Angle, 1e-12)

	// The unknown section survives re-serialization verbatim.
	out, err := Encode(doc)
	require.NoError(t, err)
	require.Contains(t, string(out), `"renderer_hint"`)
	require.Contains(t, string(out), `"gloss"`)
}

func TestEncodeNonUniformScale(t *testing.T) {
	doc := buildCanonicalDoc()
	doc.Transform.Scale = shape.Point{X: 2, Y: 1}

	data, err := Encode(doc)
	require.NoError(t, err)
	require.Contains(t, string(data), `"scale": [2, 1]`)

	parsed, err := Decode(data)
	require.NoError(t, err)
	require.InDelta(t, 2, parsed.Transform.Scale.X, 1e-12)
	require.InDelta(t, 1, parsed.Transform.Scale.Y, 1e-12)
}

func TestEncodeEmptyConnectorFails(t *testing.T) {
	doc := buildCanonicalDoc()
	doc.Out = &shape.WireCurve{Mode: shape.WireAuto, Start: 0.1, End: 0.9, Segs: 8}

	_, err := Encode(doc)
	var verr shape.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Message, "output connector has no samples")
}

func TestEncodeWithoutShapeGroupFails(t *testing.T) {
	doc := shape.New("empty")
	_, err := Encode(doc)

	var verr shape.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, shape.RoleShape, verr.Role)
}
