package layout

import (
	"strconv"
	"strings"
)

// Connector links the bottom-center of a parent box to the top-center of a
// child box.
type Connector struct {
	ParentID, ChildID int
	X1, Y1, X2, Y2    float64
}

// MidY returns the height at which the elbow crosses over to the child.
func (c Connector) MidY() float64 { return (c.Y1 + c.Y2) / 2 }

// Path returns an SVG path description of three orthogonal segments:
// down from the parent to [Connector.MidY], across to the child's x,
// and down to the child.
func (c Connector) Path() string {
	mid := c.MidY()
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, c.X1, c.Y1)
	b.WriteString(" L ")
	writePoint(&b, c.X1, mid)
	b.WriteString(" L ")
	writePoint(&b, c.X2, mid)
	b.WriteString(" L ")
	writePoint(&b, c.X2, c.Y2)
	return b.String()
}

func writePoint(b *strings.Builder, x, y float64) {
	b.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(y, 'f', -1, 64))
}
