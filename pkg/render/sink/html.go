package sink

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

// Page views.
const (
	ViewCards = "cards"
	ViewChart = "chart"
)

// NoChartNotice is shown in place of the chart when the hierarchy cannot be
// built.
const NoChartNotice = "Aucun organigramme à afficher."

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// Page is the input of [RenderHTML].
type Page struct {
	Title     string
	View      string // ViewCards or ViewChart
	Employees []directory.Employee
	Chart     []byte // SVG document for ViewChart
	Notice    string // shown instead of the chart, or above the cards
	Filter    string
	Now       time.Time
}

type pageData struct {
	Title  string
	View   string
	Cards  []cardData
	Chart  template.HTML
	Notice string
	Filter string
}

type cardData struct {
	ID       int
	Name     string
	Title    string
	Photo    string
	AgeLabel string
}

// RenderHTML renders the directory page. Employee fields are escaped; the
// chart SVG is embedded as is.
func RenderHTML(p Page) ([]byte, error) {
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
	if p.Title == "" {
		p.Title = "Trombinoscope"
	}
	if p.View != ViewChart {
		p.View = ViewCards
	}

	data := pageData{
		Title:  p.Title,
		View:   p.View,
		Cards:  make([]cardData, 0, len(p.Employees)),
		Notice: p.Notice,
		Filter: p.Filter,
	}
	for _, e := range p.Employees {
		data.Cards = append(data.Cards, cardData{
			ID:       e.ID,
			Name:     e.Name(),
			Title:    e.Title,
			Photo:    e.PhotoOrDefault(),
			AgeLabel: styles.AgeLabel(e.Age(p.Now)),
		})
	}
	if p.View == ViewChart {
		if len(p.Chart) == 0 && data.Notice == "" {
			data.Notice = NoChartNotice
		}
		data.Chart = template.HTML(p.Chart)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "render page")
	}
	return buf.Bytes(), nil
}
