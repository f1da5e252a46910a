package sink

import (
	"strconv"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

// styleNodes converts positioned records into drawable nodes. Records
// without an employee payload are labeled with their ID.
func styleNodes(l layout.Layout, now time.Time) []styles.Node {
	out := make([]styles.Node, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		sn := styles.Node{
			ID:  n.Record.ID,
			Age: -1,
			X:   n.X, Y: n.Y,
			W: l.Config.NodeWidth, H: l.Config.NodeHeight,
		}
		if e, ok := directory.FromRecord(n.Record); ok {
			sn.Name = e.Name()
			sn.Title = e.Title
			sn.Photo = e.PhotoOrDefault()
			sn.Age = e.Age(now)
		} else {
			sn.Name = strconv.Itoa(n.Record.ID)
		}
		out = append(out, sn)
	}
	return out
}

func styleConnectors(l layout.Layout) []styles.Connector {
	out := make([]styles.Connector, len(l.Connectors))
	for i, c := range l.Connectors {
		out[i] = styles.Connector{ParentID: c.ParentID, ChildID: c.ChildID, Path: c.Path()}
	}
	return out
}
