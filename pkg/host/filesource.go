package host

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// FileSource is a GeometrySource backed by a JSON primitives file, used
// by the command-line tool in place of a live scene graph. The file is
// a list of objects: {"tag": "outline", "points": [[x, y], ...]}.
type FileSource struct {
	prims []Primitive
}

var _ GeometrySource = (*FileSource)(nil)

type filePrimitive struct {
	Tag    string      `json:"tag"`
	Points [][]float64 `json:"points"`
}

// LoadFile reads a primitives file into a FileSource.
func LoadFile(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read primitives: %w", err)
	}

	var entries []filePrimitive
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse primitives %s: %w", path, err)
	}

	fs := &FileSource{}
	for i, e := range entries {
		pts := make([]shape.Point, 0, len(e.Points))
		for _, row := range e.Points {
			if len(row) < 2 {
				return nil, fmt.Errorf("primitive %d: point needs 2 coordinates, has %d", i, len(row))
			}
			pts = append(pts, shape.Point{X: row[0], Y: row[1]})
		}
		fs.prims = append(fs.prims, Primitive{Tag: e.Tag, Points: pts})
	}
	return fs, nil
}

// Primitives returns every primitive in file order.
func (fs *FileSource) Primitives() ([]Primitive, error) {
	return fs.prims, nil
}

// ResolveCurve returns the point list of the primitive whose tag equals
// ref, or false when no such primitive exists.
func (fs *FileSource) ResolveCurve(ref string) ([]shape.Point, bool) {
	for _, p := range fs.prims {
		if p.Tag == ref {
			return p.Points, true
		}
	}
	return nil, false
}
