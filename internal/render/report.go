package render

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/pipeline"
)

// chartFile pairs a chart with its standalone output filename.
type chartFile struct {
	name    string
	charter components.Charter
}

// WriteReport renders every view of the outcome: one standalone HTML file
// per chart plus report.html combining all five.
func WriteReport(dir string, out *pipeline.Outcome) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "render: create output dir %s", dir)
	}

	files := make([]chartFile, 0, len(out.Results))
	for _, res := range out.Results {
		switch res.View {
		case "top10":
			files = append(files, chartFile{"top10_bar.html", Bar(res)})
		case "latest":
			files = append(files, chartFile{"latest_map.html", Choropleth(res)})
		case "gdp":
			files = append(files, chartFile{"gdp_scatter.html", Scatter(res, out.Regression)})
		case "series":
			files = append(files, chartFile{"series_line.html", Series(res)})
		case "bubble":
			files = append(files, chartFile{"gdp_bubble.html", Bubble(res)})
		}
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	for _, cf := range files {
		if err := renderTo(filepath.Join(dir, cf.name), cf.charter); err != nil {
			return err
		}
		page.AddCharts(cf.charter)
	}

	reportPath := filepath.Join(dir, "report.html")
	f, err := os.Create(reportPath)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", reportPath)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return eris.Wrap(err, "render: report page")
	}

	zap.L().Info("rendered report",
		zap.String("dir", dir),
		zap.Int("charts", len(files)),
	)
	return nil
}

func renderTo(path string, c components.Charter) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer f.Close()

	r, ok := c.(interface{ Render(w io.Writer) error })
	if !ok {
		return eris.Errorf("render: chart for %s is not renderable", path)
	}
	if err := r.Render(f); err != nil {
		return eris.Wrapf(err, "render: %s", path)
	}
	return nil
}
