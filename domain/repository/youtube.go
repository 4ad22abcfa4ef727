package repository

import (
	"context"

	"tubetrends/domain/model"
)

// IYouTube defines the interface for the YouTube Data API boundary consumed by
// the fetch use case. Implementations handle pagination, rate limiting and
// retry; callers only see complete, ordered results.
type IYouTube interface {
	// ResolveChannel resolves a channel handle (e.g. "@JomboyMedia") or raw
	// channel ID to the channel summary, including the uploads playlist ID.
	ResolveChannel(ctx context.Context, handleOrID string) (*model.Channel, error)

	// ListUploads walks the channel's uploads playlist and returns every
	// published video with its statistics.
	ListUploads(ctx context.Context, channel *model.Channel) ([]model.Video, error)
}
