package usecase

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"tubetrends/domain/model"
)

// ratePoint is a month-over-month growth-rate percentage at a month offset.
// The rate at offset k compares month k against month k-1.
type ratePoint struct {
	offset int
	pct    float64
}

// growthRates computes month-over-month view-sum growth percentages over a
// dense aligned series. Months whose predecessor has a zero view-sum are
// skipped: the ratio is undefined there, and gap-filled silent months must not
// turn into infinities.
func growthRates(buckets []model.AlignedBucket) []ratePoint {
	var rates []ratePoint
	for i := 1; i < len(buckets); i++ {
		prev := buckets[i-1].ViewSum
		if prev <= 0 {
			continue
		}
		pct := float64(buckets[i].ViewSum-prev) / float64(prev) * 100
		rates = append(rates, ratePoint{offset: buckets[i].Offset, pct: pct})
	}
	return rates
}

// rollingMean smooths the rate series with a trailing window mean
// (minimum one period, like the original rolling average).
func rollingMean(rates []ratePoint, window int) []ratePoint {
	if window < 1 {
		window = 1
	}
	smoothed := make([]ratePoint, len(rates))
	for i := range rates {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, r := range rates[start : i+1] {
			sum += r.pct
		}
		smoothed[i] = ratePoint{offset: rates[i].offset, pct: sum / float64(i+1-start)}
	}
	return smoothed
}

// FitGrowthDecay fits the post-takeoff growth-decay trend and, when the
// channel has a pre-takeoff growth history, extrapolates that initial growth
// forward to quantify how far reality fell short of it.
//
// The slope is a linear regression of the rolling-mean-smoothed
// month-over-month growth-rate percentage against month offset, in %/month.
// Fewer than MinWindowMonths usable post-takeoff rate points make the fit
// degenerate, which is an error rather than an unreliable number.
func (g *GrowthAnalyzer) FitGrowthDecay(series model.AlignedSeries) (*model.DecayFit, error) {
	all := growthRates(series.Buckets)

	var post []ratePoint
	for _, r := range all {
		if r.offset >= 1 {
			post = append(post, r)
		}
	}
	if len(post) < g.params.MinWindowMonths {
		return nil, fmt.Errorf("%d post-takeoff growth points, need %d: %w",
			len(post), g.params.MinWindowMonths, model.ErrInsufficientWindow)
	}

	smoothed := rollingMean(post, g.params.RollingWindow)
	xs := make([]float64, len(smoothed))
	ys := make([]float64, len(smoothed))
	for i, r := range smoothed {
		xs[i] = float64(r.offset)
		ys[i] = r.pct
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)

	fit := &model.DecayFit{SlopePctPerMonth: slope}
	fit.Overestimation = g.extrapolate(series, all)
	return fit, nil
}

// extrapolate builds the "if initial growth had continued" curve: the mean
// growth of the ExtrapolationWindow months up to and including takeoff,
// compounded forward over cumulative views from the takeoff month. Returns nil
// when no pre-takeoff rate exists (takeoff in the very first month) or the
// actual final cumulative view count is zero.
func (g *GrowthAnalyzer) extrapolate(series model.AlignedSeries, all []ratePoint) *model.Overestimation {
	var pre []float64
	for _, r := range all {
		if r.offset <= 0 && r.offset > -g.params.ExtrapolationWindow {
			pre = append(pre, r.pct)
		}
	}
	if len(pre) == 0 {
		return nil
	}
	growthPct := stat.Mean(pre, nil)

	// Cumulative views on the months-since-takeoff axis, pre-takeoff included
	// so the base reflects the channel's full history at takeoff.
	var cum float64
	var actual []model.CurvePoint
	for _, b := range series.Buckets {
		cum += float64(b.ViewSum)
		if b.Offset >= 0 {
			actual = append(actual, model.CurvePoint{Offset: b.Offset, CumulativeViews: cum})
		}
	}
	if len(actual) == 0 || actual[len(actual)-1].CumulativeViews <= 0 {
		return nil
	}

	base := actual[0].CumulativeViews
	rate := growthPct / 100
	extrapolated := make([]model.CurvePoint, len(actual))
	for i, p := range actual {
		extrapolated[i] = model.CurvePoint{
			Offset:          p.Offset,
			CumulativeViews: base * math.Pow(1+rate, float64(p.Offset-actual[0].Offset)),
		}
	}

	actualFinal := actual[len(actual)-1].CumulativeViews
	extrapolatedFinal := extrapolated[len(extrapolated)-1].CumulativeViews
	return &model.Overestimation{
		Pct:          (extrapolatedFinal - actualFinal) / actualFinal * 100,
		GrowthPct:    growthPct,
		Actual:       actual,
		Extrapolated: extrapolated,
	}
}

// ComputeRetention builds the views-per-video series, the audience-retention
// proxy. Months with zero uploads are skipped, never counted as zero-view
// videos. ChangePct compares the mean of the last RetentionWindow qualifying
// post-takeoff months against the first such window and is left nil when
// either window has fewer than MinWindowMonths months.
func (g *GrowthAnalyzer) ComputeRetention(series model.AlignedSeries) (*model.RetentionResult, error) {
	var points []model.RetentionPoint
	for _, b := range series.Buckets {
		if b.UploadCount < 1 {
			continue
		}
		points = append(points, model.RetentionPoint{
			Offset:        b.Offset,
			ViewsPerVideo: float64(b.ViewSum) / float64(b.UploadCount),
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no months with uploads: %w", model.ErrInsufficientWindow)
	}

	result := &model.RetentionResult{Points: points}

	var post []model.RetentionPoint
	for _, p := range points {
		if p.Offset >= 0 {
			post = append(post, p)
		}
	}
	window := g.params.RetentionWindow
	if len(post) < window {
		window = len(post)
	}
	if window < g.params.MinWindowMonths {
		result.ChangeOmitted = "too few qualifying months per window"
		return result, nil
	}

	earlyMean := meanViewsPerVideo(post[:window])
	lateMean := meanViewsPerVideo(post[len(post)-window:])
	if earlyMean <= 0 {
		result.ChangeOmitted = "early window has a zero views-per-video baseline"
		return result, nil
	}
	change := (lateMean - earlyMean) / earlyMean * 100
	result.ChangePct = &change
	return result, nil
}

func meanViewsPerVideo(points []model.RetentionPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.ViewsPerVideo
	}
	return sum / float64(len(points))
}

// ComputeVolatility returns the sample standard deviation of the post-takeoff
// month-over-month growth-rate percentages. A dispersion measure, not a
// direction measure: higher means less predictable growth.
func (g *GrowthAnalyzer) ComputeVolatility(series model.AlignedSeries) (float64, error) {
	var post []float64
	for _, r := range growthRates(series.Buckets) {
		if r.offset >= 1 {
			post = append(post, r.pct)
		}
	}
	if len(post) < 2 {
		return 0, fmt.Errorf("%d post-takeoff growth points, need 2: %w",
			len(post), model.ErrInsufficientWindow)
	}
	return stat.StdDev(post, nil), nil
}
