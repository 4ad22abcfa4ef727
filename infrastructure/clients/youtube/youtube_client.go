package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	yt "google.golang.org/api/youtube/v3"

	"google.golang.org/api/option"

	"tubetrends/domain/model"
	"tubetrends/domain/repository"
	"tubetrends/infrastructure/logger"
)

// Config represents YouTube API client configuration
type Config struct {
	APIKey            string  `json:"api_key"`
	PageSize          int64   `json:"page_size"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	MaxRetries        int     `json:"max_retries"`
}

// Client represents the YouTube Data API v3 client in API-key (read-only)
// mode. Pagination is paced by a rate limiter and every call goes through
// retry-on-HTTP-error.
type Client struct {
	service    *yt.Service
	limiter    *rate.Limiter
	pageSize   int64
	maxRetries int
}

// NewYouTubeClient creates a new YouTube API client.
func NewYouTubeClient(ctx context.Context, config *Config) (repository.IYouTube, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	service, err := yt.NewService(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	pageSize := config.PageSize
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &Client{
		service:    service,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		pageSize:   pageSize,
		maxRetries: maxRetries,
	}, nil
}

// ResolveChannel resolves a handle like "@JomboyMedia" or a raw UC... channel
// ID to the channel summary, including the uploads playlist ID needed to
// enumerate every published video.
func (c *Client) ResolveChannel(ctx context.Context, handleOrID string) (*model.Channel, error) {
	call := c.service.Channels.List([]string{"id", "snippet", "statistics", "contentDetails"})
	if strings.HasPrefix(handleOrID, "UC") && !strings.HasPrefix(handleOrID, "@") {
		call = call.Id(handleOrID)
	} else {
		call = call.ForHandle(strings.TrimPrefix(handleOrID, "@"))
	}

	var response *yt.ChannelListResponse
	err := c.doWithRetry(ctx, "channels.list", func() error {
		var callErr error
		response, callErr = call.Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel not found: %s", handleOrID)
	}

	item := response.Items[0]
	channel := &model.Channel{
		ID:     item.Id,
		Title:  item.Snippet.Title,
		Handle: item.Snippet.CustomUrl,
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		channel.UploadsPlaylist = item.ContentDetails.RelatedPlaylists.Uploads
	}
	if item.Statistics != nil {
		channel.SubscriberCount = int64(item.Statistics.SubscriberCount)
		channel.VideoCount = int64(item.Statistics.VideoCount)
		channel.ViewCount = int64(item.Statistics.ViewCount)
	}
	return channel, nil
}

// ListUploads walks the channel's uploads playlist page by page, batching the
// video IDs of each page into a videos.list call for statistics.
func (c *Client) ListUploads(ctx context.Context, channel *model.Channel) ([]model.Video, error) {
	if channel.UploadsPlaylist == "" {
		return nil, fmt.Errorf("channel %s has no uploads playlist", channel.ID)
	}

	fetchedAt := time.Now().UTC()
	var videos []model.Video
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(channel.UploadsPlaylist).
			MaxResults(c.pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var page *yt.PlaylistItemListResponse
		err := c.doWithRetry(ctx, "playlistItems.list", func() error {
			var callErr error
			page, callErr = call.Context(ctx).Do()
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list uploads page: %w", err)
		}

		videoIDs := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}
		details, err := c.videoDetails(ctx, videoIDs, fetchedAt)
		if err != nil {
			return nil, err
		}
		videos = append(videos, details...)

		logger.GetLogger().WithField("fetched", len(videos)).Debug("Fetching videos")

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return videos, nil
}

// videoDetails fetches statistics for up to 50 video IDs at a time.
func (c *Client) videoDetails(ctx context.Context, videoIDs []string, fetchedAt time.Time) ([]model.Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var response *yt.VideoListResponse
	err := c.doWithRetry(ctx, "videos.list", func() error {
		var callErr error
		response, callErr = c.service.Videos.
			List([]string{"snippet", "statistics", "contentDetails"}).
			Id(videoIDs...).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	videos := make([]model.Video, 0, len(response.Items))
	for _, item := range response.Items {
		videos = append(videos, c.convertToVideo(item, fetchedAt))
	}
	return videos, nil
}

// convertToVideo converts a YouTube API video to our model
func (c *Client) convertToVideo(video *yt.Video, fetchedAt time.Time) model.Video {
	publishedAt, _ := time.Parse(time.RFC3339, video.Snippet.PublishedAt)

	v := model.Video{
		ID:          video.Id,
		Title:       video.Snippet.Title,
		PublishedAt: publishedAt,
		FetchedAt:   fetchedAt,
	}
	if video.ContentDetails != nil {
		v.Duration = video.ContentDetails.Duration
	}
	if video.Statistics != nil {
		v.ViewCount = int64(video.Statistics.ViewCount)
		v.LikeCount = int64(video.Statistics.LikeCount)
		v.CommentCount = int64(video.Statistics.CommentCount)
	}
	return v
}
