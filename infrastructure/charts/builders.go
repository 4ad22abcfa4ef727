package charts

import (
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"tubetrends/domain/model"
)

var (
	seriesStyleA = chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0}
	seriesStyleB = chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0}
	dashedStyleA = chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5, StrokeDashArray: []float64{5.0, 5.0}}
	dashedStyleB = chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 1.5, StrokeDashArray: []float64{5.0, 5.0}}
	accentStyle  = chart.Style{StrokeColor: chart.ColorOrange, StrokeWidth: 2.0}
)

// cumulativeViewsChart plots running view totals over publish time.
func cumulativeViewsChart(snapshot *model.ChannelSnapshot) (*chart.Chart, error) {
	if len(snapshot.Videos) < 2 {
		return nil, nil
	}
	xs := make([]time.Time, 0, len(snapshot.Videos))
	ys := make([]float64, 0, len(snapshot.Videos))
	var running float64
	for _, v := range snapshot.Videos {
		running += float64(v.ViewCount)
		xs = append(xs, v.PublishedAt)
		ys = append(ys, running)
	}
	graph := &chart.Chart{
		Title:  "Cumulative Views Over Time: " + snapshot.Channel,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Publish Date"},
		YAxis:  chart.YAxis{Name: "Cumulative Views"},
		Series: []chart.Series{
			chart.TimeSeries{Name: snapshot.Channel, XValues: xs, YValues: ys, Style: seriesStyleA},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// uploadFrequencyChart plots uploads per month with a flat mean line.
func uploadFrequencyChart(analysis *model.ChannelAnalysis) (*chart.Chart, error) {
	if analysis == nil || analysis.Series == nil || len(analysis.Series.Buckets) < 2 {
		return nil, nil
	}
	buckets := analysis.Series.Buckets
	xs := make([]float64, 0, len(buckets))
	ys := make([]float64, 0, len(buckets))
	var total float64
	for _, b := range buckets {
		xs = append(xs, float64(b.Offset))
		ys = append(ys, float64(b.UploadCount))
		total += float64(b.UploadCount)
	}
	mean := total / float64(len(buckets))
	meanYs := make([]float64, len(xs))
	for i := range meanYs {
		meanYs[i] = mean
	}
	graph := &chart.Chart{
		Title:  "Monthly Upload Frequency: " + analysis.Channel,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "Uploads"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Uploads", XValues: xs, YValues: ys, Style: seriesStyleA},
			chart.ContinuousSeries{Name: "Average", XValues: xs, YValues: meanYs, Style: dashedStyleB},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// monthlyGrowthChart plots month-over-month view-sum growth with its linear
// trend, on the months-since-takeoff axis.
func monthlyGrowthChart(analysis *model.ChannelAnalysis) (*chart.Chart, error) {
	if analysis == nil || analysis.Series == nil {
		return nil, nil
	}
	xs, ys := monthOverMonthRates(analysis.Series.Buckets)
	if len(xs) < 2 {
		return nil, nil
	}
	rates := chart.ContinuousSeries{Name: "MoM Growth (%)", XValues: xs, YValues: ys, Style: seriesStyleA}
	graph := &chart.Chart{
		Title:  "Month-over-Month View Growth: " + analysis.Channel,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "Growth Rate (%)"},
		Series: []chart.Series{
			rates,
			&chart.LinearRegressionSeries{Name: "Trend", InnerSeries: rates, Style: dashedStyleB},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// engagementRateChart plots monthly engagement (likes + comments) as a
// percentage of views.
func engagementRateChart(analysis *model.ChannelAnalysis) (*chart.Chart, error) {
	if analysis == nil || analysis.Series == nil {
		return nil, nil
	}
	xs := make([]float64, 0, len(analysis.Series.Buckets))
	ys := make([]float64, 0, len(analysis.Series.Buckets))
	for _, b := range analysis.Series.Buckets {
		if b.ViewSum <= 0 {
			continue
		}
		xs = append(xs, float64(b.Offset))
		ys = append(ys, float64(b.EngagementSum)/float64(b.ViewSum)*100)
	}
	if len(xs) < 2 {
		return nil, nil
	}
	graph := &chart.Chart{
		Title:  "Monthly Engagement Rate: " + analysis.Channel,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "Engagement (% of views)"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Engagement", XValues: xs, YValues: ys, Style: seriesStyleA},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

const (
	topPerformersCount = 10
	titleLabelLimit    = 30
	distributionBins   = 8
)

// topPerformersChart plots the most-viewed videos as a bar chart.
func topPerformersChart(snapshot *model.ChannelSnapshot) (*chart.BarChart, error) {
	if len(snapshot.Videos) < 2 {
		return nil, nil
	}
	videos := make([]model.Video, len(snapshot.Videos))
	copy(videos, snapshot.Videos)
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})
	n := topPerformersCount
	if len(videos) < n {
		n = len(videos)
	}

	bars := make([]chart.Value, 0, n)
	for _, v := range videos[:n] {
		bars = append(bars, chart.Value{
			Label: truncateTitle(v.Title, titleLabelLimit),
			Value: float64(v.ViewCount),
			Style: chart.Style{FillColor: chart.ColorRed, StrokeColor: chart.ColorRed},
		})
	}
	return &chart.BarChart{
		Title:    "Top Most Viewed Videos: " + snapshot.Channel,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 80,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 30},
		YAxis:    chart.YAxis{Name: "Views"},
	}, nil
}

// growthDistributionChart compares the distribution of month-over-month
// growth rates between the early and late halves of the post-takeoff window.
// A late distribution tightening around zero shows growth reverting to the
// mean after takeoff.
func growthDistributionChart(analysis *model.ChannelAnalysis) (*chart.Chart, error) {
	if analysis == nil || analysis.Series == nil {
		return nil, nil
	}
	_, rates := monthOverMonthRates(analysis.Series.PostTakeoff())
	if len(rates) < 6 {
		return nil, nil
	}

	lo, hi := rates[0], rates[0]
	for _, r := range rates {
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if hi <= lo {
		// Every month grew at the same rate; there is no spread to show.
		return nil, nil
	}

	half := len(rates) / 2
	earlyXs, earlyYs := histogram(rates[:half], lo, hi, distributionBins)
	lateXs, lateYs := histogram(rates[half:], lo, hi, distributionBins)

	graph := &chart.Chart{
		Title:  "Growth Rate Distribution, Early vs Late: " + analysis.Channel,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "MoM Growth Rate (%)"},
		YAxis:  chart.YAxis{Name: "Months"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Early half", XValues: earlyXs, YValues: earlyYs, Style: seriesStyleA},
			chart.ContinuousSeries{Name: "Late half", XValues: lateXs, YValues: lateYs, Style: seriesStyleB},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// histogram bins values over [lo, hi] and returns bin centers with counts.
func histogram(values []float64, lo, hi float64, bins int) ([]float64, []float64) {
	width := (hi - lo) / float64(bins)
	xs := make([]float64, bins)
	ys := make([]float64, bins)
	for i := range xs {
		xs[i] = lo + width*(float64(i)+0.5)
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		ys[idx]++
	}
	return xs, ys
}

func truncateTitle(title string, limit int) string {
	runes := []rune(title)
	if len(runes) <= limit {
		return title
	}
	return string(runes[:limit]) + "..."
}

// decayExtrapolationChart overlays actual cumulative views against the
// "if takeoff growth had continued" extrapolation.
func decayExtrapolationChart(analysis *model.ChannelAnalysis) (*chart.Chart, error) {
	if analysis == nil || analysis.Decay == nil || analysis.Decay.Overestimation == nil {
		return nil, nil
	}
	o := analysis.Decay.Overestimation
	if len(o.Actual) < 2 || len(o.Extrapolated) < 2 {
		return nil, nil
	}
	graph := &chart.Chart{
		Title:  "Actual vs Extrapolated Cumulative Views: " + analysis.Channel,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "Cumulative Views"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Actual", XValues: curveXs(o.Actual), YValues: curveYs(o.Actual), Style: seriesStyleA},
			chart.ContinuousSeries{Name: "Extrapolated", XValues: curveXs(o.Extrapolated), YValues: curveYs(o.Extrapolated), Style: accentStyle},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// viewsPerVideoChart overlays both channels' views-per-video retention series.
func viewsPerVideoChart(report *model.ComparisonReport) (*chart.Chart, error) {
	xsA, ysA := retentionPoints(report.A.Retention)
	xsB, ysB := retentionPoints(report.B.Retention)
	if len(xsA) < 2 && len(xsB) < 2 {
		return nil, nil
	}
	var series []chart.Series
	if len(xsA) >= 2 {
		series = append(series, chart.ContinuousSeries{Name: report.A.Channel, XValues: xsA, YValues: ysA, Style: seriesStyleA})
	}
	if len(xsB) >= 2 {
		series = append(series, chart.ContinuousSeries{Name: report.B.Channel, XValues: xsB, YValues: ysB, Style: seriesStyleB})
	}
	graph := &chart.Chart{
		Title:  "Views per Video by Lifecycle Month",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "Views per Video"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// retentionIndexChart overlays both retention series indexed to 100 at each
// channel's first post-takeoff point, so absolute audience size drops out.
func retentionIndexChart(report *model.ComparisonReport) (*chart.Chart, error) {
	xsA, ysA := indexedRetention(report.A.Retention)
	xsB, ysB := indexedRetention(report.B.Retention)
	if len(xsA) < 2 && len(xsB) < 2 {
		return nil, nil
	}
	var series []chart.Series
	if len(xsA) >= 2 {
		series = append(series, chart.ContinuousSeries{Name: report.A.Channel, XValues: xsA, YValues: ysA, Style: seriesStyleA})
	}
	if len(xsB) >= 2 {
		series = append(series, chart.ContinuousSeries{Name: report.B.Channel, XValues: xsB, YValues: ysB, Style: seriesStyleB})
	}
	graph := &chart.Chart{
		Title:  "Audience Retention Index (takeoff month = 100)",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "Index"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// growthRateOverlayChart overlays both channels' growth rates with linear
// trend lines showing the relative decay.
func growthRateOverlayChart(report *model.ComparisonReport) (*chart.Chart, error) {
	var series []chart.Series
	if report.A.Series != nil {
		if xs, ys := monthOverMonthRates(report.A.Series.PostTakeoff()); len(xs) >= 2 {
			s := chart.ContinuousSeries{Name: report.A.Channel, XValues: xs, YValues: ys, Style: seriesStyleA}
			series = append(series, s, &chart.LinearRegressionSeries{Name: report.A.Channel + " trend", InnerSeries: s, Style: dashedStyleA})
		}
	}
	if report.B.Series != nil {
		if xs, ys := monthOverMonthRates(report.B.Series.PostTakeoff()); len(xs) >= 2 {
			s := chart.ContinuousSeries{Name: report.B.Channel, XValues: xs, YValues: ys, Style: seriesStyleB}
			series = append(series, s, &chart.LinearRegressionSeries{Name: report.B.Channel + " trend", InnerSeries: s, Style: dashedStyleB})
		}
	}
	if len(series) == 0 {
		return nil, nil
	}
	graph := &chart.Chart{
		Title:  "Post-Takeoff Growth Rate Comparison",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Months Since Takeoff"},
		YAxis:  chart.YAxis{Name: "MoM Growth Rate (%)"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// monthOverMonthRates computes the view-sum growth rate percentage between
// consecutive buckets, skipping months whose predecessor had no views.
func monthOverMonthRates(buckets []model.AlignedBucket) ([]float64, []float64) {
	var xs, ys []float64
	for i := 1; i < len(buckets); i++ {
		prev := buckets[i-1].ViewSum
		if prev <= 0 {
			continue
		}
		pct := (float64(buckets[i].ViewSum) - float64(prev)) / float64(prev) * 100
		xs = append(xs, float64(buckets[i].Offset))
		ys = append(ys, pct)
	}
	return xs, ys
}

func retentionPoints(r *model.RetentionResult) ([]float64, []float64) {
	if r == nil {
		return nil, nil
	}
	xs := make([]float64, 0, len(r.Points))
	ys := make([]float64, 0, len(r.Points))
	for _, p := range r.Points {
		xs = append(xs, float64(p.Offset))
		ys = append(ys, p.ViewsPerVideo)
	}
	return xs, ys
}

func indexedRetention(r *model.RetentionResult) ([]float64, []float64) {
	if r == nil {
		return nil, nil
	}
	var base float64
	var xs, ys []float64
	for _, p := range r.Points {
		if p.Offset < 0 {
			continue
		}
		if base == 0 {
			if p.ViewsPerVideo <= 0 {
				continue
			}
			base = p.ViewsPerVideo
		}
		xs = append(xs, float64(p.Offset))
		ys = append(ys, p.ViewsPerVideo/base*100)
	}
	return xs, ys
}

func curveXs(points []model.CurvePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = float64(p.Offset)
	}
	return out
}

func curveYs(points []model.CurvePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.CumulativeViews
	}
	return out
}
