package repository

import "tubetrends/domain/model"

// IChartRenderer renders PNG chart files for analyses and comparisons and
// returns the written file paths.
type IChartRenderer interface {
	RenderChannelCharts(snapshot *model.ChannelSnapshot, analysis *model.ChannelAnalysis) ([]string, error)
	RenderComparisonCharts(report *model.ComparisonReport) ([]string, error)
}
