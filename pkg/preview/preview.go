// Package preview renders a static SVG picture of a shape document for
// the inspector. It is diagnostic output, not a live view: the main
// body, flag quadrants, icon box, and connector curves are drawn once
// in distinct colors.
package preview

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/EJaworenko/Node-Weaver/pkg/shape"
)

// roleColors assigns each role a distinct fill.
var roleColors = map[shape.Role]string{
	shape.RoleShape:        "#4A90D9",
	shape.RoleFlagVisible:  "#2ECC71",
	shape.RoleFlagTemplate: "#E67E22",
	shape.RoleFlagFreeze:   "#9B59B6",
	shape.RoleFlagBypass:   "#E74C3C",
	shape.RoleIcon:         "#F39C12",
	shape.RoleAux:          "#1ABC9C",
}

const margin = 24

// Render draws the document to w as an SVG of the given pixel width.
// Height follows the document's aspect ratio.
func Render(w io.Writer, doc *shape.Document, width int) error {
	overall, ok := doc.Overall()
	if !ok {
		return shape.ValidationError{Message: "nothing to preview in an empty document"}
	}
	size := overall.Size()
	if size.X <= shape.Epsilon {
		return shape.ValidationError{Message: "document has zero horizontal extent"}
	}

	scale := float64(width-2*margin) / size.X
	height := int(size.Y*scale) + 2*margin

	// SVG y grows downward; shape space y grows upward.
	toPx := func(p shape.Point) (int, int) {
		x := margin + int((p.X-overall.Min.X)*scale)
		y := margin + int((overall.Max.Y-p.Y)*scale)
		return x, y
	}

	canvas := svg.New(w)
	canvas.Start(width, height)

	for _, g := range doc.Groups {
		if len(g.Points) == 0 {
			continue
		}
		color := roleColors[g.Role]
		if len(g.Points) == 1 {
			x, y := toPx(g.Points[0])
			canvas.Circle(x, y, 3, fmt.Sprintf("fill:%s", color))
			continue
		}
		if g.Role == shape.RoleIcon && len(g.Points) == 2 {
			x0, y1 := toPx(g.Points[0])
			x1, y0 := toPx(g.Points[1])
			canvas.Rect(x0, y0, x1-x0, y1-y0, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", color))
			continue
		}
		xs := make([]int, len(g.Points))
		ys := make([]int, len(g.Points))
		for i, p := range g.Points {
			xs[i], ys[i] = toPx(p)
		}
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:0.4;stroke:%s;stroke-width:2", color, color))
	}

	for _, wc := range []*shape.WireCurve{doc.In, doc.Out} {
		if wc == nil || len(wc.Points) < 2 {
			continue
		}
		xs := make([]int, len(wc.Points))
		ys := make([]int, len(wc.Points))
		for i, wp := range wc.Points {
			xs[i], ys[i] = toPx(wp.Pos)
		}
		canvas.Polyline(xs, ys, "fill:none;stroke:#333333;stroke-width:2;stroke-dasharray:4")
	}

	canvas.End()
	return nil
}
