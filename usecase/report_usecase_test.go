package usecase_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubetrends/usecase"
)

func TestReportUseCase_WriteSummary(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	reporter := usecase.NewReportUseCase()

	snapshot := monthlySnapshot("My Channel", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{100, 200, 400, 800, 800, 800, 800, 800})
	analysis := analyzer.AnalyzeChannel(snapshot)

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteSummary(&buf, snapshot, &analysis))

	out := buf.String()
	assert.Contains(t, out, "CHANNEL ANALYTICS SUMMARY: My Channel")
	assert.Contains(t, out, "Total Videos:           8")
	assert.Contains(t, out, "Takeoff Month:          2022-03")
	assert.Contains(t, out, "Decay Slope")
}

func TestReportUseCase_WriteSummary_MissingMetricsAreExplicit(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	reporter := usecase.NewReportUseCase()

	// Two months are too few for any growth metric.
	snapshot := monthlySnapshot("Tiny", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{100, 200})
	analysis := analyzer.AnalyzeChannel(snapshot)

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteSummary(&buf, snapshot, &analysis))

	// Absent metrics are reported as such, never as zeros.
	assert.Contains(t, buf.String(), "n/a (insufficient data)")
	assert.NotContains(t, buf.String(), "Volatility (% std dev): 0.0\n")
}

func TestReportUseCase_WriteComparison(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	reporter := usecase.NewReportUseCase()

	fast := monthlySnapshot("Fast Riser", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{100, 400, 1600, 1600, 1500, 1400, 1200, 1000, 900, 800, 700, 600})
	steady := monthlySnapshot("Steady Hand", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{500, 550, 600, 650, 700, 750, 800, 850, 900, 950, 1000, 1050})

	report := analyzer.Compare(fast, steady)

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteComparison(&buf, &report))

	out := buf.String()
	assert.Contains(t, out, "CHANNEL COMPARISON REPORT")
	assert.Contains(t, out, "Fast Riser")
	assert.Contains(t, out, "Steady Hand")
	assert.Contains(t, out, "KEY FINDINGS")
	assert.Contains(t, out, "Takeoff Month")
	assert.Contains(t, out, "Total Views")
	assert.Contains(t, out, "Avg Views per Video")
	assert.Contains(t, out, "Median Views per Video")
}

func TestReportUseCase_WriteComparison_FailedChannel(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	reporter := usecase.NewReportUseCase()

	good := monthlySnapshot("Good", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{100, 200, 400, 400, 400, 400})
	report := analyzer.Compare(good, monthlySnapshot("Broken", time.Time{}, nil))

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteComparison(&buf, &report))
	assert.Contains(t, buf.String(), "analysis unavailable")
}
