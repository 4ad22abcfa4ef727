package model

import (
	"fmt"
	"time"
)

// MonthKey identifies one UTC calendar month.
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthKeyOf returns the calendar month of t in UTC.
func MonthKeyOf(t time.Time) MonthKey {
	u := t.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is chronologically earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// AddMonths returns the key n calendar months after k (n may be negative).
func (k MonthKey) AddMonths(n int) MonthKey {
	idx := k.Year*12 + int(k.Month) - 1 + n
	return MonthKey{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// MonthsSince returns the signed number of calendar months from other to k.
func (k MonthKey) MonthsSince(other MonthKey) int {
	return (k.Year-other.Year)*12 + int(k.Month) - int(other.Month)
}

// MonthlyBucket aggregates one calendar month of uploads: how many videos were
// published, their view-sum, and their engagement-sum (likes + comments).
type MonthlyBucket struct {
	Key           MonthKey `json:"month"`
	UploadCount   int      `json:"upload_count"`
	ViewSum       int64    `json:"view_sum"`
	EngagementSum int64    `json:"engagement_sum"`
}

// TakeoffPoint marks the month a channel's monthly view-sum first crossed a
// threshold fraction of its all-time peak. Used only as an alignment anchor,
// not a hard classification boundary.
type TakeoffPoint struct {
	Key               MonthKey `json:"month"`
	PeakViewSum       int64    `json:"peak_view_sum"`
	ThresholdFraction float64  `json:"threshold_fraction"`
}

// AlignedBucket is a MonthlyBucket re-keyed by months since takeoff.
// Negative offsets are pre-takeoff months.
type AlignedBucket struct {
	Offset int `json:"month_offset"`
	MonthlyBucket
}

// AlignedSeries is a channel's monthly buckets on the relative
// months-since-takeoff timeline, making channels with different calendar
// histories comparable at equivalent growth-lifecycle positions.
type AlignedSeries struct {
	Takeoff MonthKey        `json:"takeoff_month"`
	Buckets []AlignedBucket `json:"buckets"`
}

// PostTakeoff returns the buckets at offset >= 0.
func (s AlignedSeries) PostTakeoff() []AlignedBucket {
	for i, b := range s.Buckets {
		if b.Offset >= 0 {
			return s.Buckets[i:]
		}
	}
	return nil
}

// RetentionPoint is views-per-video for one month with at least one upload.
type RetentionPoint struct {
	Offset        int     `json:"month_offset"`
	ViewsPerVideo float64 `json:"views_per_video"`
}

// CurvePoint is one point on a cumulative-views curve (actual or extrapolated)
// on the months-since-takeoff axis.
type CurvePoint struct {
	Offset          int     `json:"month_offset"`
	CumulativeViews float64 `json:"cumulative_views"`
}

// Overestimation is the divergence between the "if initial growth had
// continued" extrapolation and reality. Pct is the relative gap between the
// extrapolated and actual final cumulative views, already x100.
type Overestimation struct {
	Pct          float64      `json:"pct"`
	GrowthPct    float64      `json:"growth_pct"` // mean pre-takeoff growth rate used for the compounding
	Actual       []CurvePoint `json:"actual"`
	Extrapolated []CurvePoint `json:"extrapolated"`
}

// DecayFit is the fitted growth-decay trend for one channel. SlopePctPerMonth
// is the rate of change of the smoothed month-over-month growth-rate
// percentage (more negative = faster deceleration). Overestimation is nil
// when the channel has no pre-takeoff growth window to extrapolate from.
type DecayFit struct {
	SlopePctPerMonth float64         `json:"slope_pct_per_month"`
	Overestimation   *Overestimation `json:"overestimation,omitempty"`
}

// RetentionResult is the views-per-video series plus the late-vs-early window
// change percentage (x100). ChangePct is nil when either window has too few
// qualifying months or the early window has no views to measure against;
// ChangeOmitted names which.
type RetentionResult struct {
	Points        []RetentionPoint `json:"points"`
	ChangePct     *float64         `json:"change_pct,omitempty"`
	ChangeOmitted string           `json:"change_omitted,omitempty"`
}

// ChannelAnalysis is the per-channel output of the growth analyzer. Metric
// pointers are nil when the metric could not be computed; Notes carries the
// human-readable reason for every omission so reports surface explicit
// "insufficient data" markers instead of zeros.
//
// Units: all *Pct fields are percentages, already x100.
type ChannelAnalysis struct {
	Channel    string `json:"channel"`
	VideoCount int    `json:"video_count"`

	TotalViews          int64   `json:"total_views"`
	AvgViewsPerVideo    float64 `json:"avg_views_per_video,omitempty"`
	MedianViewsPerVideo float64 `json:"median_views_per_video,omitempty"`

	Takeoff   *TakeoffPoint    `json:"takeoff,omitempty"`
	Series    *AlignedSeries   `json:"series,omitempty"`
	Retention *RetentionResult `json:"retention,omitempty"`
	Decay     *DecayFit        `json:"decay,omitempty"`

	DecaySlopePctPerMonth *float64 `json:"decay_slope_pct_per_month,omitempty"`
	RetentionChangePct    *float64 `json:"retention_change_pct,omitempty"`
	VolatilityPct         *float64 `json:"volatility_pct,omitempty"`
	OverestimationPct     *float64 `json:"overestimation_pct,omitempty"`

	Notes []string `json:"notes,omitempty"`

	// Failure is set when the whole channel analysis is unusable
	// (empty or malformed snapshot). All metric fields are nil in that case.
	Failure string `json:"failure,omitempty"`
}

// ComparisonReport juxtaposes two independently computed channel analyses.
// No cross-channel data is mixed; alignment on months-since-takeoff is what
// makes the comparison calendar-independent.
type ComparisonReport struct {
	A ChannelAnalysis `json:"a"`
	B ChannelAnalysis `json:"b"`
}
