package dto

import "tubetrends/domain/model"

// ComparisonReportDTO is the flat, fixed-name comparison payload consumed by
// chart rendering and report output. Field names and units are part of the
// contract: every *_pct and decay_slope_* field is a percentage already x100,
// views are raw counts (not log-views). Nil means "insufficient data" - the
// metric was omitted, never zero-filled.
type ComparisonReportDTO struct {
	ChannelA string `json:"channel_a"`
	ChannelB string `json:"channel_b"`

	DecaySlopeA *float64 `json:"decay_slope_a"`
	DecaySlopeB *float64 `json:"decay_slope_b"`

	RetentionChangePctA *float64 `json:"retention_change_pct_a"`
	RetentionChangePctB *float64 `json:"retention_change_pct_b"`

	VolatilityA *float64 `json:"volatility_a"`
	VolatilityB *float64 `json:"volatility_b"`

	OverestimationPctA *float64 `json:"overestimation_pct_a"`
	OverestimationPctB *float64 `json:"overestimation_pct_b"`

	SeriesA *model.AlignedSeries `json:"series_a"`
	SeriesB *model.AlignedSeries `json:"series_b"`

	NotesA []string `json:"notes_a,omitempty"`
	NotesB []string `json:"notes_b,omitempty"`
}

// NewComparisonReportDTO flattens a ComparisonReport into the wire shape.
func NewComparisonReportDTO(report *model.ComparisonReport) *ComparisonReportDTO {
	return &ComparisonReportDTO{
		ChannelA:            report.A.Channel,
		ChannelB:            report.B.Channel,
		DecaySlopeA:         report.A.DecaySlopePctPerMonth,
		DecaySlopeB:         report.B.DecaySlopePctPerMonth,
		RetentionChangePctA: report.A.RetentionChangePct,
		RetentionChangePctB: report.B.RetentionChangePct,
		VolatilityA:         report.A.VolatilityPct,
		VolatilityB:         report.B.VolatilityPct,
		OverestimationPctA:  report.A.OverestimationPct,
		OverestimationPctB:  report.B.OverestimationPct,
		SeriesA:             report.A.Series,
		SeriesB:             report.B.Series,
		NotesA:              report.A.Notes,
		NotesB:              report.B.Notes,
	}
}
