package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// ShapeDirName is the fixed subdirectory name reserved for shape
// definitions. A save location is recognized only when its final path
// element is this name.
const ShapeDirName = "nodeshapes"

// IsShapeDir reports whether dir follows the shape-directory convention.
func IsShapeDir(dir string) bool {
	return filepath.Base(filepath.Clean(dir)) == ShapeDirName
}

// ResolveShapeDirs returns the candidate shape directories for the
// given roots (user-preference root first, then package root). Empty
// roots are skipped.
func ResolveShapeDirs(userRoot, packageRoot string) []string {
	var dirs []string
	for _, root := range []string{userRoot, packageRoot} {
		if root == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(root, ShapeDirName))
	}
	return dirs
}

// ExportPath is where a document with the given name lands inside dir.
func ExportPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// DisplayPath truncates long paths for UI labels, keeping the head and
// the more informative tail.
func DisplayPath(path string) string {
	if len(path) <= 65 {
		return path
	}
	return path[:25] + "....." + path[len(path)-45:]
}

// Write validates the document, serializes it, and atomically replaces
// the definition file at ExportPath(dir, doc.Name). Content is fully
// built in memory and staged through a temporary file in the same
// directory, so a crash mid-write never leaves a truncated target.
func Write(doc *shape.Document, dir string) (string, error) {
	if doc.Name == "" {
		return "", shape.ValidationError{Message: "no shape name specified"}
	}
	if !IsShapeDir(dir) {
		return "", shape.PathError{Path: dir, Reason: fmt.Sprintf("not a recognized shape directory (must end in %q)", ShapeDirName)}
	}
	if violations := doc.Validate(); len(violations) > 0 {
		return "", violations[0]
	}

	data, err := Encode(doc)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", shape.PathError{Path: dir, Reason: "cannot create shape directory", Err: err}
	}

	target := ExportPath(dir, doc.Name)
	tmp, err := os.CreateTemp(dir, "."+doc.Name+"-*.json.tmp")
	if err != nil {
		return "", shape.PathError{Path: dir, Reason: "cannot stage temporary file", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", shape.PathError{Path: tmpName, Reason: "write failed", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", shape.PathError{Path: tmpName, Reason: "close failed", Err: err}
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", shape.PathError{Path: target, Reason: "cannot move definition into place", Err: err}
	}
	return target, nil
}

// ReadFile parses the definition file at path.
func ReadFile(path string) (*shape.Document, error) {
	if !strings.HasSuffix(path, ".json") {
		return nil, shape.PathError{Path: path, Reason: "definition files end in .json"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shape.PathError{Path: path, Reason: "cannot read definition", Err: err}
	}
	return Decode(data)
}
