// Package codec reads and writes the on-disk node-shape definition
// format. The writer emits sections in a stable order with
// fixed-precision numbers so re-serializing an unmodified document
// reproduces byte-equivalent output; the reader also accepts files this
// tool never wrote, preserving unknown sections verbatim for round-trip.
package codec

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// Precision is the number of decimal places kept by the writer.
const Precision = 3

// formatNum renders a float at fixed precision with trailing zeros
// trimmed, so 1.0 prints as "1" and 0.150 as "0.15".
func formatNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', Precision, 64)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 1 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// pointRows renders [[x, y], ...] on one line.
func pointRows(pts []shape.Point) string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, p := range pts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%s, %s]", formatNum(p.X), formatNum(p.Y))
	}
	b.WriteByte(']')
	return b.String()
}

// wireRows renders [[x, y, angle], ...] on one line.
func wireRows(pts []shape.WirePoint) string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, wp := range pts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%s, %s, %s]", formatNum(wp.Pos.X), formatNum(wp.Pos.Y), formatNum(wp.Angle))
	}
	b.WriteByte(']')
	return b.String()
}

// wireParams renders one connector's parameter block.
func wireParams(wc *shape.WireCurve) string {
	return fmt.Sprintf(`{"mode": %q, "start": %s, "end": %s, "offset": %s, "blend": %s, "segs": %d}`,
		wc.Mode, formatNum(wc.Start), formatNum(wc.End), formatNum(wc.Offset), formatNum(wc.Blend), wc.Segs)
}

// Encode serializes a document. Section order is fixed: name, scale,
// offset, flags, outline, inputs, outputs, icon, groups, wire, aux,
// unbounded, then any preserved unknown sections sorted by key.
func Encode(doc *shape.Document) ([]byte, error) {
	body := doc.Group(shape.RoleShape)
	if body == nil {
		return nil, shape.ValidationError{Role: shape.RoleShape, Message: "cannot encode a document without a main shape group"}
	}
	for _, r := range shape.FlagRoles {
		if doc.Group(r) == nil {
			return nil, shape.ValidationError{Role: r, Message: "cannot encode a document without this flag group"}
		}
	}
	// A connector with no samples would decode back as absent, losing
	// its parameter block on round trip.
	if doc.In != nil && len(doc.In.Points) == 0 {
		return nil, shape.ValidationError{Message: "input connector has no samples"}
	}
	if doc.Out != nil && len(doc.Out.Points) == 0 {
		return nil, shape.ValidationError{Message: "output connector has no samples"}
	}

	type entry struct{ key, val string }
	var entries []entry
	add := func(key, val string) { entries = append(entries, entry{key, val}) }

	add("name", strconv.Quote(doc.Name))
	if doc.Transform.Scale.X == doc.Transform.Scale.Y {
		add("scale", formatNum(doc.Transform.Scale.X))
	} else {
		add("scale", fmt.Sprintf("[%s, %s]", formatNum(doc.Transform.Scale.X), formatNum(doc.Transform.Scale.Y)))
	}
	add("offset", fmt.Sprintf("[%s, %s]", formatNum(doc.Transform.Offset.X), formatNum(doc.Transform.Offset.Y)))

	var flags bytes.Buffer
	flags.WriteString("{\n")
	for i, r := range shape.FlagRoles {
		fmt.Fprintf(&flags, "    %q: {\"outline\": %s}", strconv.Itoa(i), pointRows(doc.Group(r).Points))
		if i < len(shape.FlagRoles)-1 {
			flags.WriteByte(',')
		}
		flags.WriteByte('\n')
	}
	flags.WriteString("  }")
	add("flags", flags.String())

	add("outline", pointRows(body.Points))

	if doc.In != nil {
		add("inputs", wireRows(doc.In.Points))
	} else {
		add("inputs", "[]")
	}
	if doc.Out != nil {
		add("outputs", wireRows(doc.Out.Points))
	} else {
		add("outputs", "[]")
	}

	if icon := doc.Group(shape.RoleIcon); icon != nil {
		add("icon", pointRows(icon.Points))
	}

	var groups bytes.Buffer
	groups.WriteByte('{')
	written := 0
	for _, g := range doc.Groups {
		if g.Role == shape.RoleAux {
			continue
		}
		if written > 0 {
			groups.WriteString(", ")
		}
		fmt.Fprintf(&groups, "%q: %d", g.Role.String(), g.Index)
		written++
	}
	groups.WriteByte('}')
	add("groups", groups.String())

	if doc.In != nil || doc.Out != nil {
		var wire bytes.Buffer
		wire.WriteString("{\n")
		if doc.In != nil {
			fmt.Fprintf(&wire, "    \"in\": %s", wireParams(doc.In))
			if doc.Out != nil {
				wire.WriteByte(',')
			}
			wire.WriteByte('\n')
		}
		if doc.Out != nil {
			fmt.Fprintf(&wire, "    \"out\": %s\n", wireParams(doc.Out))
		}
		wire.WriteString("  }")
		add("wire", wire.String())
	}

	if auxGroups := doc.GroupsByRole(shape.RoleAux); len(auxGroups) > 0 {
		var aux bytes.Buffer
		aux.WriteByte('[')
		for i, g := range auxGroups {
			if i > 0 {
				aux.WriteString(", ")
			}
			aux.WriteString(pointRows(g.Points))
		}
		aux.WriteByte(']')
		add("aux", aux.String())
	}

	if doc.Unbounded {
		add("unbounded", "true")
	}

	extraKeys := make([]string, 0, len(doc.Extra))
	for k := range doc.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		add(k, string(doc.Extra[k]))
	}

	var out bytes.Buffer
	out.WriteString("{\n")
	for i, e := range entries {
		fmt.Fprintf(&out, "  %q: %s", e.key, e.val)
		if i < len(entries)-1 {
			out.WriteByte(',')
		}
		out.WriteByte('\n')
	}
	out.WriteString("}\n")
	return out.Bytes(), nil
}
