package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubetrends/domain/model"
	"tubetrends/usecase"
)

func alignedSeries(t *testing.T, analyzer usecase.IGrowthAnalyzer, snapshot *model.ChannelSnapshot) model.AlignedSeries {
	t.Helper()
	buckets, err := analyzer.Bucketize(snapshot)
	require.NoError(t, err)
	takeoff, err := analyzer.FindTakeoff(buckets, 0.5)
	require.NoError(t, err)
	return analyzer.Align(buckets, takeoff.Key)
}

func TestFitGrowthDecay_InsufficientWindow(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	// Takeoff lands on the last month, leaving no post-takeoff rate points.
	series := alignedSeries(t, analyzer, monthlySnapshot("short", start, []int64{100, 200, 400}))

	_, err := analyzer.FitGrowthDecay(series)
	assert.ErrorIs(t, err, model.ErrInsufficientWindow)
}

func TestFitGrowthDecay_DecliningChannel(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	// Peaks early, then steadily loses views month over month.
	views := []int64{1000, 900, 800, 700, 600, 500, 400, 300, 200, 100, 90, 80}
	series := alignedSeries(t, analyzer, monthlySnapshot("fading", start, views))

	fit, err := analyzer.FitGrowthDecay(series)
	require.NoError(t, err)
	assert.Less(t, fit.SlopePctPerMonth, 0.0)
}

func TestFitGrowthDecay_OverestimationCurves(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	views := []int64{100, 200, 400, 800, 1600, 3200}
	for i := 0; i < 12; i++ {
		views = append(views, 3200)
	}
	series := alignedSeries(t, analyzer, monthlySnapshot("viral", start, views))

	fit, err := analyzer.FitGrowthDecay(series)
	require.NoError(t, err)
	require.NotNil(t, fit.Overestimation)

	o := fit.Overestimation
	// The pre-takeoff months doubled every month.
	assert.InDelta(t, 100.0, o.GrowthPct, 1e-9)
	assert.Greater(t, o.Pct, 100.0)

	require.NotEmpty(t, o.Actual)
	require.Len(t, o.Extrapolated, len(o.Actual))
	assert.Equal(t, 0, o.Actual[0].Offset)
	// Both curves start from the same cumulative base at takeoff.
	assert.InDelta(t, o.Actual[0].CumulativeViews, o.Extrapolated[0].CumulativeViews, 1e-9)
	// The extrapolated curve ends far above the actual one.
	last := len(o.Actual) - 1
	assert.Greater(t, o.Extrapolated[last].CumulativeViews, o.Actual[last].CumulativeViews)
}

func TestComputeRetention_ExactChange(t *testing.T) {
	params := usecase.DefaultAnalysisParams()
	params.RetentionWindow = 3
	analyzer := usecase.NewGrowthAnalyzer(params)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	// Early window mean 1000, late window mean 500: exactly -50%.
	views := []int64{1000, 1000, 1000, 500, 500, 500}
	series := alignedSeries(t, analyzer, monthlySnapshot("halved", start, views))

	result, err := analyzer.ComputeRetention(series)
	require.NoError(t, err)
	require.NotNil(t, result.ChangePct)
	assert.InDelta(t, -50.0, *result.ChangePct, 1e-9)
}

func TestComputeRetention_SkipsZeroUploadMonths(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())

	// One video in Jan, silence in Feb and Mar, one video in Apr. The silent
	// months must not appear as zero-view points.
	snapshot := &model.ChannelSnapshot{
		Channel:   "sparse",
		FetchedAt: time.Now().UTC(),
		Videos: []model.Video{
			{ID: "a", PublishedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ViewCount: 600},
			{ID: "b", PublishedAt: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), ViewCount: 300},
		},
	}
	buckets, err := analyzer.Bucketize(snapshot)
	require.NoError(t, err)
	series := analyzer.Align(buckets, buckets[0].Key)

	result, err := analyzer.ComputeRetention(series)
	require.NoError(t, err)
	require.Len(t, result.Points, 2)
	assert.Equal(t, 0, result.Points[0].Offset)
	assert.InDelta(t, 600, result.Points[0].ViewsPerVideo, 1e-9)
	assert.Equal(t, 3, result.Points[1].Offset)
	assert.InDelta(t, 300, result.Points[1].ViewsPerVideo, 1e-9)

	// Two qualifying months are below the minimum window, so no change pct.
	assert.Nil(t, result.ChangePct)
	assert.Equal(t, "too few qualifying months per window", result.ChangeOmitted)
}

func TestComputeRetention_ZeroBaseline(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())

	// Uploads every month but no views at all: enough qualifying months, yet
	// the early window mean is zero and the change ratio is undefined.
	snapshot := monthlySnapshot("unseen", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{0, 0, 0, 0})
	buckets, err := analyzer.Bucketize(snapshot)
	require.NoError(t, err)
	series := analyzer.Align(buckets, buckets[0].Key)

	result, err := analyzer.ComputeRetention(series)
	require.NoError(t, err)
	require.Len(t, result.Points, 4)
	assert.Nil(t, result.ChangePct)
	assert.Equal(t, "early window has a zero views-per-video baseline", result.ChangeOmitted)
}

func TestComputeRetention_ViewsPerVideoNormalization(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())

	// Three videos with 100 views each in one month: 100 views per video,
	// not 300.
	snapshot := &model.ChannelSnapshot{
		Channel:   "burst",
		FetchedAt: time.Now().UTC(),
		Videos: []model.Video{
			{ID: "a", PublishedAt: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), ViewCount: 100},
			{ID: "b", PublishedAt: time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC), ViewCount: 100},
			{ID: "c", PublishedAt: time.Date(2023, 1, 22, 0, 0, 0, 0, time.UTC), ViewCount: 100},
		},
	}
	buckets, err := analyzer.Bucketize(snapshot)
	require.NoError(t, err)
	series := analyzer.Align(buckets, buckets[0].Key)

	result, err := analyzer.ComputeRetention(series)
	require.NoError(t, err)
	require.Len(t, result.Points, 1)
	assert.InDelta(t, 100, result.Points[0].ViewsPerVideo, 1e-9)
}

func TestComputeVolatility_FlatIsZero(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	views := []int64{1000, 1000, 1000, 1000, 1000, 1000}
	series := alignedSeries(t, analyzer, monthlySnapshot("steady", start, views))

	volatility, err := analyzer.ComputeVolatility(series)
	require.NoError(t, err)
	assert.InDelta(t, 0, volatility, 1e-9)
}

func TestComputeVolatility_ErraticBeatsSteady(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	steady := alignedSeries(t, analyzer, monthlySnapshot("steady", start,
		[]int64{100, 110, 121, 133, 146, 161, 177, 195}))
	erratic := alignedSeries(t, analyzer, monthlySnapshot("erratic", start,
		[]int64{100, 500, 50, 400, 80, 600, 60, 700}))

	steadyVol, err := analyzer.ComputeVolatility(steady)
	require.NoError(t, err)
	erraticVol, err := analyzer.ComputeVolatility(erratic)
	require.NoError(t, err)
	assert.Greater(t, erraticVol, steadyVol)
}

func TestComputeVolatility_TooFewPoints(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := alignedSeries(t, analyzer, monthlySnapshot("tiny", start, []int64{100, 200}))

	_, err := analyzer.ComputeVolatility(series)
	assert.ErrorIs(t, err, model.ErrInsufficientWindow)
}

func TestGrowthRates_SkipZeroPredecessor(t *testing.T) {
	analyzer := usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams())

	// A zero-view month precedes the first real month; the undefined ratio is
	// skipped instead of becoming an infinity, leaving too few points for
	// volatility.
	snapshot := monthlySnapshot("coldstart", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		[]int64{0, 100, 200})
	series := alignedSeries(t, analyzer, snapshot)

	_, err := analyzer.ComputeVolatility(series)
	assert.ErrorIs(t, err, model.ErrInsufficientWindow)
}
