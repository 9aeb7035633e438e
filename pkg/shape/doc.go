// Package shape defines the node-shape document model.
// A Document holds the classified polygon groups, the normalization
// transform, and the wire connector curves that together describe one
// custom node appearance for the host graph editor.
package shape
