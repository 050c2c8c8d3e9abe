// Package charts renders the history buffer as go-echarts line charts.
package charts

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/history"
)

const theme = "macarons"

// HeartRate builds the heart rate line chart.
func HeartRate(points []history.ChartPoint) *charts.Line {
	line := newLine("Heart Rate", "bpm", points)
	line.AddSeries("Heart Rate", lineItems(points, func(p history.ChartPoint) float64 { return p.HeartRate }))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// Gyro builds the three-axis gyroscope chart.
func Gyro(points []history.ChartPoint) *charts.Line {
	line := newLine("Movement", "gyro", points)
	line.AddSeries("Gyro X", lineItems(points, func(p history.ChartPoint) float64 { return p.GyroX })).
		AddSeries("Gyro Y", lineItems(points, func(p history.ChartPoint) float64 { return p.GyroY })).
		AddSeries("Gyro Z", lineItems(points, func(p history.ChartPoint) float64 { return p.GyroZ }))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// Render writes a standalone HTML page with both charts.
func Render(w io.Writer, points []history.ChartPoint) error {
	page := components.NewPage()
	page.PageTitle = "Sleep Analysis"
	page.AddCharts(HeartRate(points), Gyro(points))
	return page.Render(w)
}

func newLine(title, yName string, points []history.ChartPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "last readings",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         yName,
			NameLocation: "middle",
			NameGap:      40,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xs := make([]string, len(points))
	for i, p := range points {
		xs[i] = p.Time
	}
	line.SetXAxis(xs)
	return line
}

func lineItems(points []history.ChartPoint, value func(history.ChartPoint) float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: value(p)})
	}
	return items
}
