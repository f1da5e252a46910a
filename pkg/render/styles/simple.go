package styles

import (
	"bytes"
	"fmt"
)

// Simple draws each employee as a rounded box with name and title.
type Simple struct{}

func (Simple) Name() string { return StyleSimple }

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <rect id="node-%d" class="node" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6" fill="white" stroke="#333" stroke-width="1.5"/>`+"\n",
		n.ID, n.X, n.Y, n.W, n.H)

	nameSize := FontSize(n.Name, n.W)
	titleSize := max(fontSizeMin, nameSize*0.8)
	cx := n.CenterX()
	cy := n.Y + n.H/2

	fmt.Fprintf(buf, `  <text class="node-name" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" font-weight="bold">%s</text>`+"\n",
		cx, cy-2, nameSize, EscapeXML(Truncate(n.Name, n.W, nameSize)))
	if n.Title != "" {
		fmt.Fprintf(buf, `  <text class="node-title" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="#555">%s</text>`+"\n",
			cx, cy+titleSize+2, titleSize, EscapeXML(Truncate(n.Title, n.W, titleSize)))
	}
}

func (Simple) RenderConnector(buf *bytes.Buffer, c Connector) { renderPath(buf, c) }
