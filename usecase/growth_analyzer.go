package usecase

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tubetrends/domain/model"
)

// AnalysisParams holds the tunable knobs of the growth analyzer. There is no
// single "correct" value for any of them, so they are explicit configuration
// rather than constants; DefaultAnalysisParams documents the chosen defaults.
type AnalysisParams struct {
	// TakeoffThreshold is the fraction of the peak monthly view-sum a month
	// must reach to count as the takeoff point.
	TakeoffThreshold float64
	// RollingWindow is the month span of the rolling mean used to smooth
	// growth rates before fitting the decay trend.
	RollingWindow int
	// RetentionWindow is the month span of the early and late windows compared
	// for the retention-change percentage.
	RetentionWindow int
	// MinWindowMonths is the minimum number of qualifying months a regression
	// or windowed average needs before its result is trusted.
	MinWindowMonths int
	// ExtrapolationWindow is how many pre-takeoff months of growth feed the
	// "if initial growth had continued" extrapolation.
	ExtrapolationWindow int
}

// DefaultAnalysisParams returns the documented defaults: takeoff at half the
// peak month, 6-month smoothing and extrapolation windows, 12-month retention
// windows, 3 qualifying months minimum.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		TakeoffThreshold:    0.5,
		RollingWindow:       6,
		RetentionWindow:     12,
		MinWindowMonths:     3,
		ExtrapolationWindow: 6,
	}
}

// IGrowthAnalyzer defines the growth analyzer operations. Every operation is a
// pure function of its inputs; the analyzer keeps no state between calls
// beyond its parameters.
type IGrowthAnalyzer interface {
	Bucketize(snapshot *model.ChannelSnapshot) ([]model.MonthlyBucket, error)
	FindTakeoff(buckets []model.MonthlyBucket, thresholdFraction float64) (model.TakeoffPoint, error)
	Align(buckets []model.MonthlyBucket, takeoff model.MonthKey) model.AlignedSeries
	FitGrowthDecay(series model.AlignedSeries) (*model.DecayFit, error)
	ComputeRetention(series model.AlignedSeries) (*model.RetentionResult, error)
	ComputeVolatility(series model.AlignedSeries) (float64, error)
	AnalyzeChannel(snapshot *model.ChannelSnapshot) model.ChannelAnalysis
	Compare(a, b *model.ChannelSnapshot) model.ComparisonReport
}

// GrowthAnalyzer implements IGrowthAnalyzer.
type GrowthAnalyzer struct {
	params AnalysisParams
}

// NewGrowthAnalyzer creates a growth analyzer with the given parameters.
func NewGrowthAnalyzer(params AnalysisParams) IGrowthAnalyzer {
	return &GrowthAnalyzer{params: params}
}

// Bucketize groups the snapshot's videos by UTC calendar month of publish
// timestamp. The result is sorted ascending by month and gap-filled with
// zero-count buckets between the first and last observed month, so
// month-over-month comparisons always see a dense monthly axis.
func (g *GrowthAnalyzer) Bucketize(snapshot *model.ChannelSnapshot) ([]model.MonthlyBucket, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	byMonth := make(map[model.MonthKey]*model.MonthlyBucket)
	first, last := model.MonthKeyOf(snapshot.Videos[0].PublishedAt), model.MonthKeyOf(snapshot.Videos[0].PublishedAt)
	for _, v := range snapshot.Videos {
		key := model.MonthKeyOf(v.PublishedAt)
		if key.Before(first) {
			first = key
		}
		if last.Before(key) {
			last = key
		}
		b, ok := byMonth[key]
		if !ok {
			b = &model.MonthlyBucket{Key: key}
			byMonth[key] = b
		}
		b.UploadCount++
		b.ViewSum += v.ViewCount
		b.EngagementSum += v.LikeCount + v.CommentCount
	}

	span := last.MonthsSince(first) + 1
	buckets := make([]model.MonthlyBucket, 0, span)
	for key := first; !last.Before(key); key = key.AddMonths(1) {
		if b, ok := byMonth[key]; ok {
			buckets = append(buckets, *b)
		} else {
			buckets = append(buckets, model.MonthlyBucket{Key: key})
		}
	}
	return buckets, nil
}

// FindTakeoff scans the buckets chronologically and returns the first month
// whose view-sum reaches thresholdFraction of the peak monthly view-sum.
// Increasing the threshold can only move the takeoff later, never earlier.
func (g *GrowthAnalyzer) FindTakeoff(buckets []model.MonthlyBucket, thresholdFraction float64) (model.TakeoffPoint, error) {
	var peak int64
	for _, b := range buckets {
		if b.ViewSum > peak {
			peak = b.ViewSum
		}
	}
	if peak == 0 {
		return model.TakeoffPoint{}, fmt.Errorf("flat channel, peak monthly view-sum is zero: %w", model.ErrNoTakeoff)
	}

	target := thresholdFraction * float64(peak)
	for _, b := range buckets {
		if float64(b.ViewSum) >= target {
			return model.TakeoffPoint{
				Key:               b.Key,
				PeakViewSum:       peak,
				ThresholdFraction: thresholdFraction,
			}, nil
		}
	}
	return model.TakeoffPoint{}, fmt.Errorf("threshold %.2f never reached: %w", thresholdFraction, model.ErrNoTakeoff)
}

// Align re-keys each bucket by its signed month offset from the takeoff month.
// Pure re-indexing: no data is lost, and the original calendar keys are
// recoverable by the inverse shift.
func (g *GrowthAnalyzer) Align(buckets []model.MonthlyBucket, takeoff model.MonthKey) model.AlignedSeries {
	series := model.AlignedSeries{
		Takeoff: takeoff,
		Buckets: make([]model.AlignedBucket, len(buckets)),
	}
	for i, b := range buckets {
		series.Buckets[i] = model.AlignedBucket{
			Offset:        b.Key.MonthsSince(takeoff),
			MonthlyBucket: b,
		}
	}
	return series
}

// AnalyzeChannel runs the full per-channel pipeline with per-metric error
// isolation: a metric that cannot be computed is omitted with a note, and an
// unusable snapshot marks the whole channel as failed without touching
// anything else.
func (g *GrowthAnalyzer) AnalyzeChannel(snapshot *model.ChannelSnapshot) model.ChannelAnalysis {
	analysis := model.ChannelAnalysis{
		Channel:    snapshot.Channel,
		VideoCount: len(snapshot.Videos),
	}
	if len(snapshot.Videos) > 0 {
		views := make([]float64, 0, len(snapshot.Videos))
		for _, v := range snapshot.Videos {
			analysis.TotalViews += v.ViewCount
			views = append(views, float64(v.ViewCount))
		}
		sort.Float64s(views)
		analysis.AvgViewsPerVideo = stat.Mean(views, nil)
		analysis.MedianViewsPerVideo = stat.Quantile(0.5, stat.Empirical, views, nil)
	}

	buckets, err := g.Bucketize(snapshot)
	if err != nil {
		analysis.Failure = err.Error()
		return analysis
	}

	anchor := buckets[0].Key
	takeoff, err := g.FindTakeoff(buckets, g.params.TakeoffThreshold)
	takeoffFound := err == nil
	if takeoffFound {
		analysis.Takeoff = &takeoff
		anchor = takeoff.Key
	} else {
		analysis.Notes = append(analysis.Notes,
			"takeoff not found: aligned on first upload month, decay metrics omitted")
	}

	series := g.Align(buckets, anchor)
	analysis.Series = &series

	if retention, err := g.ComputeRetention(series); err != nil {
		analysis.Notes = append(analysis.Notes, fmt.Sprintf("retention: %v", err))
	} else {
		analysis.Retention = retention
		if retention.ChangePct != nil {
			analysis.RetentionChangePct = retention.ChangePct
		} else if retention.ChangeOmitted != "" {
			analysis.Notes = append(analysis.Notes, "retention change: "+retention.ChangeOmitted)
		}
	}

	if volatility, err := g.ComputeVolatility(series); err != nil {
		analysis.Notes = append(analysis.Notes, fmt.Sprintf("volatility: %v", err))
	} else {
		analysis.VolatilityPct = &volatility
	}

	if takeoffFound {
		if fit, err := g.FitGrowthDecay(series); err != nil {
			analysis.Notes = append(analysis.Notes, fmt.Sprintf("decay fit: %v", err))
		} else {
			analysis.Decay = fit
			analysis.DecaySlopePctPerMonth = &fit.SlopePctPerMonth
			if fit.Overestimation != nil {
				analysis.OverestimationPct = &fit.Overestimation.Pct
			} else {
				analysis.Notes = append(analysis.Notes, "overestimation: no pre-takeoff growth window to extrapolate")
			}
		}
	}

	return analysis
}

// Compare analyzes both channels independently and juxtaposes the results.
// The channels need no overlapping calendar ranges; a failure in one never
// aborts the other.
func (g *GrowthAnalyzer) Compare(a, b *model.ChannelSnapshot) model.ComparisonReport {
	return model.ComparisonReport{
		A: g.AnalyzeChannel(a),
		B: g.AnalyzeChannel(b),
	}
}
