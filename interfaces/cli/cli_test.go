package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubetrends/domain/model"
	"tubetrends/infrastructure/storage"
	"tubetrends/interfaces/cli"
	"tubetrends/usecase"
)

type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) RenderChannelCharts(snapshot *model.ChannelSnapshot, analysis *model.ChannelAnalysis) ([]string, error) {
	args := m.Called(snapshot, analysis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChartRenderer) RenderComparisonCharts(report *model.ComparisonReport) ([]string, error) {
	args := m.Called(report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func writeSnapshot(t *testing.T, dir, channel string, monthlyViews []int64) string {
	t.Helper()
	store := storage.NewSnapshotStore(dir)
	fetchedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshot := &model.ChannelSnapshot{Channel: channel, FetchedAt: fetchedAt}
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, views := range monthlyViews {
		snapshot.Videos = append(snapshot.Videos, model.Video{
			ID:          fmt.Sprintf("%s-%03d", channel, i),
			Title:       fmt.Sprintf("Video %d", i),
			PublishedAt: start.AddDate(0, i, 0),
			ViewCount:   views,
			FetchedAt:   fetchedAt,
		})
	}
	csvPath, _, err := store.SaveSnapshot(snapshot)
	require.NoError(t, err)
	return csvPath
}

func newTestApp(t *testing.T, dir string, charts *MockChartRenderer) (*cli.App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app := cli.NewApp(
		nil, // no network in CLI tests
		usecase.NewGrowthAnalyzer(usecase.DefaultAnalysisParams()),
		usecase.NewReportUseCase(),
		storage.NewSnapshotStore(dir),
		charts,
		&out,
	)
	return app, &out
}

func TestApp_UnknownCommand(t *testing.T) {
	app, out := newTestApp(t, t.TempDir(), new(MockChartRenderer))
	err := app.Run(context.Background(), []string{"frobnicate"})
	assert.ErrorContains(t, err, "unknown command")
	assert.Contains(t, out.String(), "Usage:")
}

func TestApp_NoCommand(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), new(MockChartRenderer))
	err := app.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestApp_FetchWithoutAPIKey(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), new(MockChartRenderer))
	err := app.Run(context.Background(), []string{"fetch", "--channel", "@someone"})
	assert.ErrorContains(t, err, "YOUTUBE_API_KEY")
}

func TestApp_Compare(t *testing.T) {
	dir := t.TempDir()
	growth := []int64{100, 200, 400, 800, 800, 800, 800, 800, 700, 600, 500, 400}
	steady := []int64{500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500}
	pathA := writeSnapshot(t, dir, "Channel A", growth)
	pathB := writeSnapshot(t, dir, "Channel B", steady)

	charts := new(MockChartRenderer)
	charts.On("RenderComparisonCharts", mock.Anything).
		Return([]string{"out/a_vs_b.png"}, nil)

	app, out := newTestApp(t, dir, charts)
	err := app.Run(context.Background(), []string{"compare", pathA, pathB})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "CHANNEL COMPARISON REPORT")
	assert.Contains(t, out.String(), "channel_a")
	assert.Contains(t, out.String(), "Chart: out/a_vs_b.png")
	charts.AssertExpectations(t)
}

func TestApp_Compare_NameOverridesAndJSON(t *testing.T) {
	dir := t.TempDir()
	views := []int64{100, 200, 400, 400, 400, 400}
	pathA := writeSnapshot(t, dir, "raw-a", views)
	pathB := writeSnapshot(t, dir, "raw-b", views)
	jsonOut := dir + "/report.json"

	charts := new(MockChartRenderer)
	charts.On("RenderComparisonCharts", mock.Anything).Return([]string{}, nil)

	app, out := newTestApp(t, dir, charts)
	err := app.Run(context.Background(), []string{
		"compare", pathA, pathB,
		"--name-a", "Alpha", "--name-b", "Beta",
		"--json", jsonOut,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Alpha")
	assert.Contains(t, out.String(), "Beta")
	assert.FileExists(t, jsonOut)
}

func TestApp_Compare_RequiresTwoArguments(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), new(MockChartRenderer))
	err := app.Run(context.Background(), []string{"compare", "only-one.csv"})
	assert.ErrorContains(t, err, "exactly two")
}

func TestApp_Visualize(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "Solo Channel", []int64{100, 200, 400, 800, 800, 800})

	charts := new(MockChartRenderer)
	charts.On("RenderChannelCharts", mock.Anything, mock.Anything).
		Return([]string{"out/solo_cumulative_views.png"}, nil)

	app, out := newTestApp(t, dir, charts)
	err := app.Run(context.Background(), []string{"visualize", "--input", path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Chart: out/solo_cumulative_views.png")
}

func TestApp_Visualize_LatestByChannel(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "Repeat Channel", []int64{100, 200, 400, 800, 800, 800})

	charts := new(MockChartRenderer)
	charts.On("RenderChannelCharts", mock.Anything, mock.Anything).Return([]string{}, nil)

	app, _ := newTestApp(t, dir, charts)
	err := app.Run(context.Background(), []string{"visualize", "--channel", "Repeat Channel"})
	require.NoError(t, err)
	charts.AssertExpectations(t)
}

func TestApp_Visualize_RequiresInputOrChannel(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), new(MockChartRenderer))
	err := app.Run(context.Background(), []string{"visualize"})
	assert.ErrorContains(t, err, "either --input or --channel")
}
