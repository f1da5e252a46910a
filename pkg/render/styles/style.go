package styles

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Style names accepted by [ByName].
const (
	StyleSimple = "simple"
	StyleCard   = "card"
)

// Names lists the available styles.
var Names = []string{StyleSimple, StyleCard}

// Style defines the visual appearance of a chart.
type Style interface {
	// Name returns the name the style is registered under.
	Name() string
	// RenderDefs writes SVG <defs> content (clip paths, filters).
	RenderDefs(buf *bytes.Buffer)
	// RenderNode writes the SVG for one employee box.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderConnector writes the SVG for one parent-child link.
	RenderConnector(buf *bytes.Buffer, c Connector)
}

// Node contains all data needed to draw one employee.
type Node struct {
	ID         int
	Name       string
	Title      string
	Photo      string
	Age        int // -1 when unknown
	X, Y, W, H float64
}

// CenterX returns the horizontal center of the box.
func (n Node) CenterX() float64 { return n.X + n.W/2 }

// Connector is a parent-child link with its precomputed SVG path.
type Connector struct {
	ParentID, ChildID int
	Path              string
}

// ByName returns the style registered under name. The empty name selects
// [Simple].
func ByName(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StyleSimple:
		return Simple{}, nil
	case StyleCard:
		return Card{}, nil
	}
	return nil, terrors.New(terrors.ErrCodeInvalidStyle, "unknown style %q (want one of %s)", name, strings.Join(Names, ", "))
}

// IsValid reports whether name is a known style.
func IsValid(name string) bool { return slices.Contains(Names, name) }

// renderPath draws a connector as a plain grey polyline.
func renderPath(buf *bytes.Buffer, c Connector) {
	fmt.Fprintf(buf, `  <path class="connector" data-parent="%d" data-child="%d" d="%s" stroke="#ccc" stroke-width="2" fill="none"/>`+"\n",
		c.ParentID, c.ChildID, c.Path)
}
