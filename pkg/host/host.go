// Package host abstracts the collaborators living outside the shape
// pipeline: the geometry source that yields raw polygon primitives and
// the parameter provider that yields named configuration values. The
// core packages consume these interfaces and never depend on a specific
// scene-graph object model.
package host

import (
	"strconv"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Primitive is one raw polygon from the geometry source: an ordered
// point list plus the discriminator the source attached to it.
type Primitive struct {
	Tag    string
	Points []shape.Point
}

// GeometrySource yields primitive groups on demand.
type GeometrySource interface {
	// Primitives returns the raw polygons to classify, in source order.
	Primitives() ([]Primitive, error)

	// ResolveCurve resolves an external curve reference (a custom wire
	// connector) to its ordered point list. It returns false when the
	// reference does not exist.
	ResolveCurve(ref string) ([]shape.Point, bool)
}

// ParameterProvider yields named scalar/string configuration values.
// The second return is false when a value is unset, in which case the
// caller applies its documented default.
type ParameterProvider interface {
	Float(name string) (float64, bool)
	Int(name string) (int, bool)
	Str(name string) (string, bool)
	Bool(name string) (bool, bool)
}

// Recognized parameter names. These form the flat configuration surface
// between the host UI and the shape pipeline.
const (
	ParamScale     = "scale"
	ParamIconScale = "icon_scale"

	ParamInMethod  = "in_method"
	ParamInOffset  = "in_offset"
	ParamInStart   = "in_start"
	ParamInEnd     = "in_end"
	ParamInSegs    = "in_segs"
	ParamInCustom  = "in_custom"
	ParamInBlend   = "in_wire_blend"
	ParamOutMethod = "out_method"
	ParamOutOffset = "out_offset"
	ParamOutStart  = "out_start"
	ParamOutEnd    = "out_end"
	ParamOutSegs   = "out_segs"
	ParamOutCustom = "out_custom"
	ParamOutBlend  = "out_wire_blend"
)

// MatchedEnd mirrors a window start fraction to its end fraction, the
// behavior behind the "match end to start" toggle in the authoring UI.
func MatchedEnd(start float64) float64 {
	return 1 - start
}

// Params is a flat map-backed ParameterProvider. Values may be float64,
// int, string, or bool; numeric strings are coerced on read so sources
// that only speak strings still work.
type Params map[string]any

var _ ParameterProvider = Params{}

func (p Params) Float(name string) (float64, bool) {
	switch v := p[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func (p Params) Int(name string) (int, bool) {
	switch v := p[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	}
	return 0, false
}

func (p Params) Str(name string) (string, bool) {
	s, ok := p[name].(string)
	return s, ok
}

func (p Params) Bool(name string) (bool, bool) {
	b, ok := p[name].(bool)
	return b, ok
}
