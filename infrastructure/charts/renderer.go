package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"tubetrends/domain/model"
	"tubetrends/domain/repository"
	"tubetrends/infrastructure/logger"
)

const (
	chartWidth  = 1280
	chartHeight = 720
)

// renderable is satisfied by both chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// lineChart adapts a line-chart builder to the renderable slot, dropping
// typed-nil results so skipped charts stay skippable.
func lineChart(build func() (*chart.Chart, error)) func() (renderable, error) {
	return func() (renderable, error) {
		graph, err := build()
		if graph == nil || err != nil {
			return nil, err
		}
		return graph, nil
	}
}

func barChart(build func() (*chart.BarChart, error)) func() (renderable, error) {
	return func() (renderable, error) {
		graph, err := build()
		if graph == nil || err != nil {
			return nil, err
		}
		return graph, nil
	}
}

// Renderer writes PNG charts into an output directory.
type Renderer struct {
	outputDir string
}

// NewRenderer creates a new chart renderer.
func NewRenderer(outputDir string) repository.IChartRenderer {
	return &Renderer{outputDir: outputDir}
}

// RenderChannelCharts renders the single-channel chart set: cumulative views,
// upload frequency, month-over-month growth, engagement rate and (when the
// analysis produced one) the extrapolated-vs-actual decay chart.
func (r *Renderer) RenderChannelCharts(snapshot *model.ChannelSnapshot, analysis *model.ChannelAnalysis) ([]string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	prefix := slug(snapshot.Channel)

	var paths []string
	renderers := []struct {
		name   string
		render func() (renderable, error)
	}{
		{prefix + "_cumulative_views.png", lineChart(func() (*chart.Chart, error) { return cumulativeViewsChart(snapshot) })},
		{prefix + "_top_performers.png", barChart(func() (*chart.BarChart, error) { return topPerformersChart(snapshot) })},
		{prefix + "_upload_frequency.png", lineChart(func() (*chart.Chart, error) { return uploadFrequencyChart(analysis) })},
		{prefix + "_monthly_growth.png", lineChart(func() (*chart.Chart, error) { return monthlyGrowthChart(analysis) })},
		{prefix + "_growth_distribution.png", lineChart(func() (*chart.Chart, error) { return growthDistributionChart(analysis) })},
		{prefix + "_engagement_rate.png", lineChart(func() (*chart.Chart, error) { return engagementRateChart(analysis) })},
		{prefix + "_decay_extrapolation.png", lineChart(func() (*chart.Chart, error) { return decayExtrapolationChart(analysis) })},
	}
	for _, item := range renderers {
		graph, err := item.render()
		if err != nil {
			return nil, err
		}
		if graph == nil {
			// Not enough data for this chart; skip rather than render an
			// empty frame.
			continue
		}
		path := filepath.Join(r.outputDir, item.name)
		if err := r.save(path, graph); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	logger.GetLogger().WithField("charts", len(paths)).WithField("dir", r.outputDir).Info("Channel charts rendered")
	return paths, nil
}

// RenderComparisonCharts renders the two-channel overlays on the
// months-since-takeoff axis.
func (r *Renderer) RenderComparisonCharts(report *model.ComparisonReport) ([]string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	prefix := slug(report.A.Channel) + "_vs_" + slug(report.B.Channel)

	var paths []string
	renderers := []struct {
		name   string
		render func() (renderable, error)
	}{
		{prefix + "_views_per_video.png", lineChart(func() (*chart.Chart, error) { return viewsPerVideoChart(report) })},
		{prefix + "_retention_index.png", lineChart(func() (*chart.Chart, error) { return retentionIndexChart(report) })},
		{prefix + "_growth_rates.png", lineChart(func() (*chart.Chart, error) { return growthRateOverlayChart(report) })},
	}
	for _, item := range renderers {
		graph, err := item.render()
		if err != nil {
			return nil, err
		}
		if graph == nil {
			continue
		}
		path := filepath.Join(r.outputDir, item.name)
		if err := r.save(path, graph); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	logger.GetLogger().WithField("charts", len(paths)).WithField("dir", r.outputDir).Info("Comparison charts rendered")
	return paths, nil
}

func (r *Renderer) save(path string, graph renderable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()
	if err := graph.Render(chart.PNG, file); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}
	return nil
}

// slug makes a channel name safe for chart filenames.
func slug(channel string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(channel) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "channel"
	}
	return b.String()
}
