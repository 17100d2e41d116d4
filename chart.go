package main

import (
	"bytes"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
)

// renderComparisonChart builds the "your car vs fleet average" bar chart
// as an embeddable HTML fragment. The fleet bar is omitted when no
// reference dataset is loaded.
func renderComparisonChart(ownValue float64, fleetAverage *float64) (template.HTML, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "CO2 Emission Comparison"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "CO2 g/km"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "480px", Height: "380px"}),
	)

	labels := []string{"Your Car"}
	values := []opts.BarData{{Value: ownValue}}
	if fleetAverage != nil {
		labels = append(labels, "Fleet Avg")
		values = append(values, opts.BarData{Value: *fleetAverage})
	}
	bar.SetXAxis(labels).AddSeries("CO2", values)

	var buf bytes.Buffer
	renderer := render.NewChartRender(bar, bar.Validate)
	snippet := renderer.RenderSnippet()
	buf.WriteString(snippet.Element)
	buf.WriteString(snippet.Script)

	return template.HTML(buf.String()), nil
}
