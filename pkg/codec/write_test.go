package codec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

func shapeDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ShapeDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestWriteAndReadBack(t *testing.T) {
	dir := shapeDir(t)
	doc := buildCanonicalDoc()

	path, err := Write(doc, dir)
	require.NoError(t, err)
	require.Equal(t, ExportPath(dir, "canon"), path)

	parsed, err := ReadFile(path)
	require.NoError(t, err)
	approxDoc(t, doc, parsed)

	// No stray staging files survive a successful write.
	listing, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, listing, 1)
}

func TestWriteRejectsUnrecognizedDir(t *testing.T) {
	dir := t.TempDir() // not a nodeshapes directory
	_, err := Write(buildCanonicalDoc(), dir)

	var perr shape.PathError
	require.True(t, errors.As(err, &perr))
	require.Contains(t, perr.Reason, ShapeDirName)
}

func TestWriteRejectsInvalidDocument(t *testing.T) {
	dir := shapeDir(t)
	doc := buildCanonicalDoc()
	doc.Groups = doc.Groups[:3] // missing flags

	_, err := Write(doc, dir)
	var verr shape.ValidationError
	require.True(t, errors.As(err, &verr))

	// Eager validation means no file at all, not a partial one.
	listing, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, listing)
}

func TestWriteRequiresName(t *testing.T) {
	doc := buildCanonicalDoc()
	doc.Name = ""
	_, err := Write(doc, shapeDir(t))

	var verr shape.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Message, "no shape name")
}

func TestWriteReplacesExisting(t *testing.T) {
	dir := shapeDir(t)
	doc := buildCanonicalDoc()

	_, err := Write(doc, dir)
	require.NoError(t, err)

	doc.Groups[0].Points[1].X = 0.9
	path, err := Write(doc, dir)
	require.NoError(t, err)

	parsed, err := ReadFile(path)
	require.NoError(t, err)
	require.InDelta(t, 0.9, parsed.Group(shape.RoleShape).Points[1].X, 1e-9)
}

func TestIsShapeDir(t *testing.T) {
	require.True(t, IsShapeDir("/home/u/config/nodeshapes"))
	require.True(t, IsShapeDir("nodeshapes/"))
	require.False(t, IsShapeDir("/home/u/config"))
}

func TestResolveShapeDirs(t *testing.T) {
	dirs := ResolveShapeDirs("/pref", "/pkg")
	require.Equal(t, []string{
		filepath.Join("/pref", ShapeDirName),
		filepath.Join("/pkg", ShapeDirName),
	}, dirs)

	require.Len(t, ResolveShapeDirs("", "/pkg"), 1)
	require.Empty(t, ResolveShapeDirs("", ""))
}

func TestDisplayPath(t *testing.T) {
	short := "/tmp/nodeshapes/x.json"
	require.Equal(t, short, DisplayPath(short))

	long := strings.Repeat("a", 40) + "/" + strings.Repeat("b", 40) + "/shape.json"
	got := DisplayPath(long)
	require.Contains(t, got, ".....")
	require.True(t, strings.HasSuffix(got, "shape.json"))
	require.Len(t, got, 75)
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile("not-a-definition.txt")
	var perr shape.PathError
	require.True(t, errors.As(err, &perr))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.True(t, errors.As(err, &perr))
}
