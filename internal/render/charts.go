package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptySeries is returned when there is nothing to plot.
var ErrEmptySeries = errors.New("no data to chart")

// Chart colors.
var (
	TrendColor    = drawing.ColorFromHex("1f77b4")
	CategoryColor = drawing.ColorFromHex("2ca02c")
	RegionColor   = drawing.ColorFromHex("ff7f0e")
)

const (
	chartWidth  = 1000
	chartHeight = 400
)

// Chart titles, matching the dashboard sections.
const (
	TitleDailySales = "Sales Trend Over Time"
	TitleCategories = "Sales by Product Category"
	TitleRegions    = "Sales by Region"
)

func chartPadding() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    40,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
	}
}

// salesRange anchors the value axis at zero. Its max is never zero so that a
// single bar or a flat series still has a drawable range.
func salesRange(values []float64) *chart.ContinuousRange {
	top := 0.0
	for _, v := range values {
		top = max(top, v)
	}
	if top == 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top * 1.1}
}

func currencyFormatter(v interface{}) string {
	if vf, isFloat := v.(float64); isFloat {
		return CurrencyTick(vf)
	}
	return ""
}

// DailySalesChart writes the sales trend as a PNG line chart. A single day is
// drawn as one bar since a line needs two points.
func DailySalesChart(w io.Writer, series []domain.DailySales) error {
	switch len(series) {
	case 0:
		return ErrEmptySeries
	case 1:
		return barChart(w, TitleDailySales, []domain.LabelAmount{{
			Label: series[0].Date.Format(domain.DateLayout),
			Sales: series[0].Sales,
		}}, TrendColor)
	}

	xs := make([]time.Time, len(series))
	ys := make([]float64, len(series))
	for i, point := range series {
		xs[i] = point.Date
		ys[i], _ = point.Sales.Float64()
	}

	graph := chart.Chart{
		Title:      TitleDailySales,
		Background: chartPadding(),
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat(domain.DateLayout),
		},
		YAxis: chart.YAxis{
			Name:           "Sales ($)",
			ValueFormatter: currencyFormatter,
			Range:          salesRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Sales",
				Style: chart.Style{
					StrokeColor: TrendColor,
					StrokeWidth: 2,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render daily sales chart: %w", err)
	}
	return nil
}

// BreakdownChart writes a grouped view as a PNG bar chart, bars in the given order.
func BreakdownChart(w io.Writer, title string, items []domain.LabelAmount, color drawing.Color) error {
	if len(items) == 0 {
		return ErrEmptySeries
	}
	return barChart(w, title, items, color)
}

func barChart(w io.Writer, title string, items []domain.LabelAmount, color drawing.Color) error {
	bars := make([]chart.Value, len(items))
	values := make([]float64, len(items))
	for i, item := range items {
		value, _ := item.Sales.Float64()
		values[i] = value
		bars[i] = chart.Value{
			Label: item.Label,
			Value: value,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		}
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chartPadding(),
		Width:      chartWidth,
		Height:     chartHeight,
		Bars:       bars,
	}
	graph.YAxis.ValueFormatter = currencyFormatter
	graph.YAxis.Range = salesRange(values)

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", title, err)
	}
	return nil
}
