package layout

import (
	"testing"

	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
)

func TestConnectorPath(t *testing.T) {
	tests := []struct {
		name string
		c    Connector
		want string
	}{
		{
			name: "left child",
			c:    Connector{X1: 220, Y1: 120, X2: 100, Y2: 220},
			want: "M 220 120 L 220 170 L 100 170 L 100 220",
		},
		{
			name: "straight down",
			c:    Connector{X1: 100, Y1: 120, X2: 100, Y2: 220},
			want: "M 100 120 L 100 170 L 100 170 L 100 220",
		},
		{
			name: "fractional",
			c:    Connector{X1: 10.5, Y1: 0, X2: 0, Y2: 5},
			want: "M 10.5 0 L 10.5 2.5 L 0 2.5 L 0 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero sibling spacing and margin", func(c *Config) { c.SiblingSpacing, c.Margin = 0, 0 }, false},
		{"zero level spacing", func(c *Config) { c.LevelSpacing = 0 }, true},
		{"negative level spacing", func(c *Config) { c.LevelSpacing = -5 }, true},
		{"zero height", func(c *Config) { c.NodeHeight = 0 }, true},
		{"negative width", func(c *Config) { c.NodeWidth = -10 }, true},
		{"negative sibling spacing", func(c *Config) { c.SiblingSpacing = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSize(t *testing.T) {
	// 1 ─┬─ 2 ─┬─ 4
	//    │     └─ 5
	//    └─ 3
	tree := mustTree(t, []hierarchy.Record{rec(1), rec(2, 1), rec(3, 1), rec(4, 2), rec(5, 2)})
	cfg := DefaultConfig()
	ext := Size(tree, cfg)

	want := map[int]Extent{
		1: {Width: 680, Height: 560},
		2: {Width: 440, Height: 340},
		3: {Width: 200, Height: 120},
		4: {Width: 200, Height: 120},
		5: {Width: 200, Height: 120},
	}
	for i, n := range tree.Nodes {
		if got := ext[i]; got != want[n.Record.ID] {
			t.Errorf("Size()[id %d] = %+v, want %+v", n.Record.ID, got, want[n.Record.ID])
		}
	}
}
