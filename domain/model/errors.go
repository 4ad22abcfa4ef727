package model

import (
	"errors"
	"fmt"
)

// Analysis error kinds. Per-channel errors isolate to that channel's metrics
// in a comparison; they never abort the other channel's computation.
var (
	// ErrEmptyInput means there are no records to bucketize. Fatal for that
	// channel's analysis only.
	ErrEmptyInput = errors.New("snapshot contains no videos")

	// ErrNoTakeoff means no month ever reaches the takeoff threshold
	// (degenerate/flat channel). Recoverable: decay-dependent metrics are
	// omitted and months-since-first-upload is used as a fallback anchor.
	ErrNoTakeoff = errors.New("no month reaches the takeoff threshold")

	// ErrInsufficientWindow means a regression or windowed average has too few
	// qualifying months. Recoverable: the metric is reported as absent with a
	// note, never as a fabricated number.
	ErrInsufficientWindow = errors.New("too few qualifying months in window")
)

// MalformedRecordError reports a snapshot record the analyzer refuses to
// process: negative counts, duplicate ids, unparseable or missing timestamps.
type MalformedRecordError struct {
	VideoID string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	if e.VideoID == "" {
		return fmt.Sprintf("malformed record: %s", e.Reason)
	}
	return fmt.Sprintf("malformed record %s: %s", e.VideoID, e.Reason)
}
