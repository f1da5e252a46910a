package styles

import (
	"bytes"
	"fmt"
)

const (
	cardHeaderRatio = 0.22
	cardPhotoRatio  = 0.38
	cardPadding     = 6.0
)

// Card draws each employee as a directory card: a header with the name,
// a round photo, then title and age.
type Card struct{}

func (Card) Name() string { return StyleCard }

func (Card) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <clipPath id="photo-clip" clipPathUnits="objectBoundingBox"><circle cx="0.5" cy="0.5" r="0.5"/></clipPath>
    <filter id="card-shadow" x="-10%" y="-10%" width="120%" height="130%"><feDropShadow dx="0" dy="2" stdDeviation="2" flood-opacity="0.2"/></filter>
  </defs>
`)
}

func (Card) RenderNode(buf *bytes.Buffer, n Node) {
	header := n.H * cardHeaderRatio
	photo := n.H * cardPhotoRatio
	cx := n.CenterX()

	fmt.Fprintf(buf, `  <g id="node-%d" class="node card">`+"\n", n.ID)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="white" stroke="#ddd" filter="url(#card-shadow)"/>`+"\n",
		n.X, n.Y, n.W, n.H)
	fmt.Fprintf(buf, `    <path d="M %.2f %.2f h %.2f v %.2f h %.2f Z" fill="#2c3e50"/>`+"\n",
		n.X, n.Y+header, n.W, -header, -n.W)

	nameSize := min(FontSize(n.Name, n.W-2*cardPadding), header*0.6)
	fmt.Fprintf(buf, `    <text class="node-name" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%.1f" fill="white">%s</text>`+"\n",
		cx, n.Y+header/2, nameSize, EscapeXML(Truncate(n.Name, n.W-2*cardPadding, nameSize)))

	if n.Photo != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" clip-path="url(#photo-clip)" preserveAspectRatio="xMidYMid slice"><title>%s</title></image>`+"\n",
			EscapeXML(n.Photo), cx-photo/2, n.Y+header+cardPadding/2, photo, photo, EscapeXML(n.Name))
	}

	lineY := n.Y + header + photo + cardPadding
	small := max(fontSizeMin, nameSize*0.8)
	if n.Title != "" {
		lineY += small
		fmt.Fprintf(buf, `    <text class="node-title" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="#333">%s</text>`+"\n",
			cx, lineY, small, EscapeXML(Truncate(n.Title, n.W-2*cardPadding, small)))
	}
	if age := AgeLabel(n.Age); age != "" {
		lineY += small + 2
		fmt.Fprintf(buf, `    <text class="node-age" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="#777">%s</text>`+"\n",
			cx, lineY, small, age)
	}
	buf.WriteString("  </g>\n")
}

func (Card) RenderConnector(buf *bytes.Buffer, c Connector) { renderPath(buf, c) }
