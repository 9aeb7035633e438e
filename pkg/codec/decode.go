package codec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// knownKeys are the sections the decoder consumes; everything else is
// preserved opaquely in Document.Extra.
var knownKeys = map[string]bool{
	"name": true, "scale": true, "offset": true, "flags": true,
	"outline": true, "inputs": true, "outputs": true, "icon": true,
	"groups": true, "wire": true, "aux": true, "unbounded": true,
}

type wireParamsJSON struct {
	Mode   string  `json:"mode"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Offset float64 `json:"offset"`
	Blend  float64 `json:"blend"`
	Segs   int     `json:"segs"`
}

// Decode parses a definition file into a document. Files written by
// other tools are accepted: unknown sections are preserved, but a
// missing required section or an unparsable numeric field is fatal and
// no partial document is returned.
func Decode(data []byte) (*shape.Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, shape.FormatError{Key: "", Reason: fmt.Sprintf("not a definition file: %v", err)}
	}

	doc := shape.New("")

	if err := requireString(raw, "name", &doc.Name); err != nil {
		return nil, err
	}
	scale, err := decodeScale(raw)
	if err != nil {
		return nil, err
	}
	doc.Transform.Scale = scale
	if rawOffset, ok := raw["offset"]; ok {
		off, err := decodePoint(rawOffset, "offset")
		if err != nil {
			return nil, err
		}
		doc.Transform.Offset = off
	}

	outline, err := decodePointRows(raw, "outline", true)
	if err != nil {
		return nil, err
	}
	doc.Groups = append(doc.Groups, shape.Group{Role: shape.RoleShape, Index: 0, Points: outline})

	flagRings, err := decodeFlags(raw)
	if err != nil {
		return nil, err
	}
	for i, r := range shape.FlagRoles {
		doc.Groups = append(doc.Groups, shape.Group{Role: r, Index: 1 + i, Points: flagRings[i]})
	}

	if rawIcon, ok := raw["icon"]; ok {
		icon, err := decodeRows(rawIcon, "icon")
		if err != nil {
			return nil, err
		}
		doc.Groups = append(doc.Groups, shape.Group{Role: shape.RoleIcon, Index: 5, Points: icon})
	}

	if rawAux, ok := raw["aux"]; ok {
		var rings [][][]float64
		if err := json.Unmarshal(rawAux, &rings); err != nil {
			return nil, shape.FormatError{Key: "aux", Reason: err.Error()}
		}
		for i, ring := range rings {
			pts, err := rowsToPoints(ring, "aux")
			if err != nil {
				return nil, err
			}
			doc.Groups = append(doc.Groups, shape.Group{Role: shape.RoleAux, Index: 6 + i, Points: pts})
		}
	}

	if err := applyGroupIndices(raw, doc); err != nil {
		return nil, err
	}

	var params struct {
		In  *wireParamsJSON `json:"in"`
		Out *wireParamsJSON `json:"out"`
	}
	if rawWire, ok := raw["wire"]; ok {
		if err := json.Unmarshal(rawWire, &params); err != nil {
			return nil, shape.FormatError{Key: "wire", Reason: err.Error()}
		}
	}
	if doc.In, err = decodeConnector(raw, "inputs", params.In); err != nil {
		return nil, err
	}
	if doc.Out, err = decodeConnector(raw, "outputs", params.Out); err != nil {
		return nil, err
	}

	if rawUnbounded, ok := raw["unbounded"]; ok {
		if err := json.Unmarshal(rawUnbounded, &doc.Unbounded); err != nil {
			return nil, shape.FormatError{Key: "unbounded", Reason: err.Error()}
		}
	}

	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string][]byte)
		}
		doc.Extra[k] = v
	}

	return doc, nil
}

func requireString(raw map[string]json.RawMessage, key string, dst *string) error {
	rawVal, ok := raw[key]
	if !ok {
		return shape.FormatError{Key: key, Reason: "required key missing"}
	}
	if err := json.Unmarshal(rawVal, dst); err != nil {
		return shape.FormatError{Key: key, Reason: err.Error()}
	}
	return nil
}

// decodeScale accepts a single number for uniform scale or a two-element
// array for non-uniform scale.
func decodeScale(raw map[string]json.RawMessage) (shape.Point, error) {
	rawScale, ok := raw["scale"]
	if !ok {
		return shape.Point{}, shape.FormatError{Key: "scale", Reason: "required key missing"}
	}
	var uniform float64
	if err := json.Unmarshal(rawScale, &uniform); err == nil {
		return shape.Point{X: uniform, Y: uniform}, nil
	}
	return decodePoint(rawScale, "scale")
}

func decodePoint(rawVal json.RawMessage, key string) (shape.Point, error) {
	var pair []float64
	if err := json.Unmarshal(rawVal, &pair); err != nil {
		return shape.Point{}, shape.FormatError{Key: key, Reason: err.Error()}
	}
	if len(pair) != 2 {
		return shape.Point{}, shape.FormatError{Key: key, Reason: fmt.Sprintf("expected 2 values, got %d", len(pair))}
	}
	return shape.Point{X: pair[0], Y: pair[1]}, nil
}

func decodePointRows(raw map[string]json.RawMessage, key string, required bool) ([]shape.Point, error) {
	rawVal, ok := raw[key]
	if !ok {
		if required {
			return nil, shape.FormatError{Key: key, Reason: "required key missing"}
		}
		return nil, nil
	}
	return decodeRows(rawVal, key)
}

func decodeRows(rawVal json.RawMessage, key string) ([]shape.Point, error) {
	var rows [][]float64
	if err := json.Unmarshal(rawVal, &rows); err != nil {
		return nil, shape.FormatError{Key: key, Reason: err.Error()}
	}
	return rowsToPoints(rows, key)
}

func rowsToPoints(rows [][]float64, key string) ([]shape.Point, error) {
	pts := make([]shape.Point, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, shape.FormatError{Key: key, Reason: fmt.Sprintf("row %d has %d values, need at least 2", i, len(row))}
		}
		pts = append(pts, shape.Point{X: row[0], Y: row[1]})
	}
	return pts, nil
}

// decodeFlags reads the four numbered flag sections.
func decodeFlags(raw map[string]json.RawMessage) ([4][]shape.Point, error) {
	var rings [4][]shape.Point

	rawFlags, ok := raw["flags"]
	if !ok {
		return rings, shape.FormatError{Key: "flags", Reason: "required key missing"}
	}
	var sections map[string]struct {
		Outline [][]float64 `json:"outline"`
	}
	if err := json.Unmarshal(rawFlags, &sections); err != nil {
		return rings, shape.FormatError{Key: "flags", Reason: err.Error()}
	}

	for i := 0; i < 4; i++ {
		key := strconv.Itoa(i)
		section, ok := sections[key]
		if !ok {
			return rings, shape.FormatError{Key: "flags." + key, Reason: "required flag section missing"}
		}
		pts, err := rowsToPoints(section.Outline, "flags."+key+".outline")
		if err != nil {
			return rings, err
		}
		rings[i] = pts
	}
	return rings, nil
}

// applyGroupIndices overrides the default index convention with the
// groups section when present.
func applyGroupIndices(raw map[string]json.RawMessage, doc *shape.Document) error {
	rawGroups, ok := raw["groups"]
	if !ok {
		return nil
	}
	var indices map[string]int
	if err := json.Unmarshal(rawGroups, &indices); err != nil {
		return shape.FormatError{Key: "groups", Reason: err.Error()}
	}
	for name, idx := range indices {
		role, known := shape.RoleFromString(name)
		if !known {
			continue // a foreign tool's role; geometry is untouched
		}
		if g := doc.Group(role); g != nil {
			g.Index = idx
		}
	}
	return nil
}

// decodeConnector rebuilds one wire curve from its sample rows plus the
// wire parameter block. An empty sample list means the connector is
// absent. Files from other tools carry samples without parameters;
// those decode as custom curves.
func decodeConnector(raw map[string]json.RawMessage, key string, params *wireParamsJSON) (*shape.WireCurve, error) {
	rawVal, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var rows [][]float64
	if err := json.Unmarshal(rawVal, &rows); err != nil {
		return nil, shape.FormatError{Key: key, Reason: err.Error()}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	wc := &shape.WireCurve{Mode: shape.WireCustom, Segs: len(rows)}
	if params != nil {
		mode, known := shape.WireModeFromString(params.Mode)
		if !known {
			return nil, shape.FormatError{Key: "wire", Reason: fmt.Sprintf("unknown mode %q", params.Mode)}
		}
		wc.Mode = mode
		wc.Start = params.Start
		wc.End = params.End
		wc.Offset = params.Offset
		wc.Blend = params.Blend
		wc.Segs = params.Segs
	}

	for i, row := range rows {
		if len(row) < 2 {
			return nil, shape.FormatError{Key: key, Reason: fmt.Sprintf("row %d has %d values, need at least 2", i, len(row))}
		}
		wp := shape.WirePoint{Pos: shape.Point{X: row[0], Y: row[1]}}
		if len(row) >= 3 {
			wp.Angle = row[2]
		}
		wc.Points = append(wc.Points, wp)
	}
	return wc, nil
}
