package usecase

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tubetrends/domain/model"
)

// IReportUseCase renders the textual summary and comparison reports.
type IReportUseCase interface {
	WriteSummary(w io.Writer, snapshot *model.ChannelSnapshot, analysis *model.ChannelAnalysis) error
	WriteComparison(w io.Writer, report *model.ComparisonReport) error
}

// ReportUseCase implements IReportUseCase.
type ReportUseCase struct{}

// NewReportUseCase creates a new report use case instance.
func NewReportUseCase() IReportUseCase {
	return &ReportUseCase{}
}

const reportRule = "================================================================================"

// WriteSummary prints the single-channel analytics summary.
func (u *ReportUseCase) WriteSummary(w io.Writer, snapshot *model.ChannelSnapshot, analysis *model.ChannelAnalysis) error {
	var totalViews, totalLikes, totalComments int64
	views := make([]float64, 0, len(snapshot.Videos))
	for _, v := range snapshot.Videos {
		totalViews += v.ViewCount
		totalLikes += v.LikeCount
		totalComments += v.CommentCount
		views = append(views, float64(v.ViewCount))
	}

	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "CHANNEL ANALYTICS SUMMARY: %s\n", snapshot.Channel)
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "Total Videos:           %d\n", len(snapshot.Videos))
	fmt.Fprintf(w, "Total Views:            %d\n", totalViews)
	fmt.Fprintf(w, "Total Likes:            %d\n", totalLikes)
	fmt.Fprintf(w, "Total Comments:         %d\n", totalComments)
	if len(views) > 0 {
		sort.Float64s(views)
		fmt.Fprintf(w, "Avg Views per Video:    %.0f\n", stat.Mean(views, nil))
		fmt.Fprintf(w, "Median Views per Video: %.0f\n", stat.Quantile(0.5, stat.Empirical, views, nil))
	}

	if analysis == nil {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GROWTH ANALYSIS")
	if analysis.Failure != "" {
		fmt.Fprintf(w, "  analysis unavailable: %s\n", analysis.Failure)
		return nil
	}
	if analysis.Takeoff != nil {
		fmt.Fprintf(w, "  Takeoff Month:          %s (threshold %.0f%% of peak)\n",
			analysis.Takeoff.Key, analysis.Takeoff.ThresholdFraction*100)
	}
	fmt.Fprintf(w, "  Decay Slope (%%/month):  %s\n", formatMetric(analysis.DecaySlopePctPerMonth, "%.3f"))
	fmt.Fprintf(w, "  Retention Change (%%):   %s\n", formatMetric(analysis.RetentionChangePct, "%.1f"))
	fmt.Fprintf(w, "  Volatility (%% std dev): %s\n", formatMetric(analysis.VolatilityPct, "%.1f"))
	fmt.Fprintf(w, "  Overestimation Gap (%%): %s\n", formatMetric(analysis.OverestimationPct, "%.0f"))
	writeNotes(w, analysis.Notes)
	return nil
}

// WriteComparison prints the side-by-side comparison report.
func (u *ReportUseCase) WriteComparison(w io.Writer, report *model.ComparisonReport) error {
	a, b := report.A, report.B

	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, "CHANNEL COMPARISON REPORT")
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "%-34s %-22s %-22s\n", "METRIC", a.Channel, b.Channel)
	fmt.Fprintf(w, "%-34s %-22d %-22d\n", "Total Videos", a.VideoCount, b.VideoCount)
	fmt.Fprintf(w, "%-34s %-22d %-22d\n", "Total Views", a.TotalViews, b.TotalViews)
	fmt.Fprintf(w, "%-34s %-22.0f %-22.0f\n", "Avg Views per Video", a.AvgViewsPerVideo, b.AvgViewsPerVideo)
	fmt.Fprintf(w, "%-34s %-22.0f %-22.0f\n", "Median Views per Video", a.MedianViewsPerVideo, b.MedianViewsPerVideo)
	fmt.Fprintf(w, "%-34s %-22s %-22s\n", "Takeoff Month", takeoffLabel(a.Takeoff), takeoffLabel(b.Takeoff))
	fmt.Fprintf(w, "%-34s %-22s %-22s\n", "Decay Slope (%/month)",
		formatMetric(a.DecaySlopePctPerMonth, "%.3f"), formatMetric(b.DecaySlopePctPerMonth, "%.3f"))
	fmt.Fprintf(w, "%-34s %-22s %-22s\n", "Retention Change (%)",
		formatMetric(a.RetentionChangePct, "%.1f"), formatMetric(b.RetentionChangePct, "%.1f"))
	fmt.Fprintf(w, "%-34s %-22s %-22s\n", "Volatility (% std dev)",
		formatMetric(a.VolatilityPct, "%.1f"), formatMetric(b.VolatilityPct, "%.1f"))
	fmt.Fprintf(w, "%-34s %-22s %-22s\n", "Overestimation Gap (%)",
		formatMetric(a.OverestimationPct, "%.0f"), formatMetric(b.OverestimationPct, "%.0f"))

	writeFindings(w, a, b)
	if a.Failure != "" {
		fmt.Fprintf(w, "%s: analysis unavailable: %s\n", a.Channel, a.Failure)
	}
	if b.Failure != "" {
		fmt.Fprintf(w, "%s: analysis unavailable: %s\n", b.Channel, b.Failure)
	}
	writeNotes(w, prefixNotes(a.Channel, a.Notes))
	writeNotes(w, prefixNotes(b.Channel, b.Notes))
	fmt.Fprintln(w, reportRule)
	return nil
}

func writeFindings(w io.Writer, a, b model.ChannelAnalysis) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "KEY FINDINGS")
	if a.DecaySlopePctPerMonth != nil && b.DecaySlopePctPerMonth != nil {
		faster, slower := a, b
		if *b.DecaySlopePctPerMonth < *a.DecaySlopePctPerMonth {
			faster, slower = b, a
		}
		fmt.Fprintf(w, "  %s shows faster growth decay (%.3f%%/mo vs %.3f%%/mo)\n",
			faster.Channel, *faster.DecaySlopePctPerMonth, *slower.DecaySlopePctPerMonth)
	}
	if a.RetentionChangePct != nil && b.RetentionChangePct != nil {
		declining, stable := a, b
		if *b.RetentionChangePct < *a.RetentionChangePct {
			declining, stable = b, a
		}
		fmt.Fprintf(w, "  %s has declining retention (%.1f%% change), %s is more stable (%.1f%% change)\n",
			declining.Channel, *declining.RetentionChangePct, stable.Channel, *stable.RetentionChangePct)
	}
	if a.VolatilityPct != nil && b.VolatilityPct != nil {
		if *a.VolatilityPct > *b.VolatilityPct*1.5 {
			fmt.Fprintf(w, "  %s shows significantly higher volatility (less sustainable)\n", a.Channel)
		} else if *b.VolatilityPct > *a.VolatilityPct*1.5 {
			fmt.Fprintf(w, "  %s shows significantly higher volatility (less sustainable)\n", b.Channel)
		}
	}
}

// formatMetric renders an optional metric, surfacing absence explicitly
// instead of printing a zero.
func formatMetric(v *float64, format string) string {
	if v == nil {
		return "n/a (insufficient data)"
	}
	return fmt.Sprintf(format, *v)
}

func takeoffLabel(t *model.TakeoffPoint) string {
	if t == nil {
		return "n/a"
	}
	return t.Key.String()
}

func writeNotes(w io.Writer, notes []string) {
	for _, n := range notes {
		fmt.Fprintf(w, "  note: %s\n", n)
	}
}

func prefixNotes(channel string, notes []string) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = fmt.Sprintf("%s: %s", channel, n)
	}
	return out
}
