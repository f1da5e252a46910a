package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
	now   time.Time
}

// WithJSONStyle records the style name in the output so a client can draw
// boxes the same way.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONNow fixes the date used to compute ages.
func WithJSONNow(t time.Time) JSONOption { return func(r *jsonRenderer) { r.now = t } }

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Style      string          `json:"style,omitempty"`
	Config     jsonConfig      `json:"config"`
	Nodes      []jsonNode      `json:"nodes"`
	Connectors []jsonConnector `json:"connectors"`
}

type jsonConfig struct {
	NodeWidth      float64 `json:"node_width"`
	NodeHeight     float64 `json:"node_height"`
	LevelSpacing   float64 `json:"level_spacing"`
	SiblingSpacing float64 `json:"sibling_spacing"`
	Margin         float64 `json:"margin"`
}

type jsonNode struct {
	ID       int     `json:"id"`
	ParentID *int    `json:"parent_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Name     string  `json:"name,omitempty"`
	Title    string  `json:"title,omitempty"`
	Photo    string  `json:"photo,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

type jsonConnector struct {
	Parent int     `json:"parent"`
	Child  int     `json:"child"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Path   string  `json:"path"`
}

// RenderJSON exports node positions and connectors as a pretty-printed JSON
// document. Nodes are listed root first, depth-first; connectors follow the
// order of their child node.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.now.IsZero() {
		r.now = time.Now()
	}

	out := jsonOutput{
		Width:  l.Width,
		Height: l.Height,
		Style:  r.style,
		Config: jsonConfig{
			NodeWidth:      l.Config.NodeWidth,
			NodeHeight:     l.Config.NodeHeight,
			LevelSpacing:   l.Config.LevelSpacing,
			SiblingSpacing: l.Config.SiblingSpacing,
			Margin:         l.Config.Margin,
		},
		Nodes:      make([]jsonNode, 0, len(l.Nodes)),
		Connectors: make([]jsonConnector, 0, len(l.Connectors)),
	}

	for _, n := range l.Nodes {
		jn := jsonNode{
			ID:       n.Record.ID,
			ParentID: n.Record.ParentID,
			X:        n.X,
			Y:        n.Y,
			Width:    l.Config.NodeWidth,
			Height:   l.Config.NodeHeight,
		}
		if e, ok := directory.FromRecord(n.Record); ok {
			jn.Name = e.Name()
			jn.Title = e.Title
			jn.Photo = e.PhotoOrDefault()
			if age := e.Age(r.now); age >= 0 {
				jn.Age = &age
			}
		}
		out.Nodes = append(out.Nodes, jn)
	}

	for _, c := range l.Connectors {
		out.Connectors = append(out.Connectors, jsonConnector{
			Parent: c.ParentID, Child: c.ChildID,
			X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2,
			Path: c.Path(),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
