package analysis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// WriteReport renders an HTML page with one bar chart per table spectrum.
// The BCT chart is included only for bijective boxes.
func WriteReport(w io.Writer, title string, s sbox.SBox) error {
	ddt := ComputeDDT(s)
	lat := ComputeLAT(s)

	page := components.NewPage()
	page.AddCharts(
		spectrumChart(title, "DDT", fmt.Sprintf("differential uniformity %d", ddt.Uniformity()), "entry", ddt.Spectrum()),
		spectrumChart(title, "LAT", fmt.Sprintf("linear uniformity %d (max |bias| %d)", lat.Uniformity(), lat.MaxBias()), "|bias|", lat.Spectrum()),
	)

	if inv, err := s.Inverse(); err == nil {
		bct := ComputeBCT(s, inv)
		page.AddCharts(spectrumChart(title, "BCT", fmt.Sprintf("boomerang uniformity %d", bct.Uniformity()), "entry", bct.Spectrum()))
	}

	if err := page.Render(w); err != nil {
		return forgeerr.Wrap(err, "rendering report")
	}
	return nil
}

func spectrumChart(title, name, subtitle, axis string, sp Spectrum) *charts.Bar {
	values := sp.Values()
	labels := make([]string, len(values))
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		labels[i] = strconv.Itoa(v)
		items[i] = opts.BarData{Value: sp[v]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title + ": " + name + " spectrum", Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1000px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: axis}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(labels).
		AddSeries("count", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return bar
}
