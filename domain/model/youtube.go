package model

import (
	"sort"
	"time"
)

// Video represents one published video inside a channel snapshot.
// Counts come from the YouTube Data API statistics part; a later snapshot may
// supersede the counts but never the ID or the publish timestamp.
type Video struct {
	ID           string    `json:"video_id"`
	Title        string    `json:"title"`
	PublishedAt  time.Time `json:"published_at"`
	Duration     string    `json:"duration"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Channel represents a YouTube channel summary
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Handle          string `json:"handle"`
	UploadsPlaylist string `json:"uploads_playlist"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
	ViewCount       int64  `json:"view_count"`
}

// ChannelSnapshot is the ordered-by-publish-time record set for one channel at
// one fetch time. Invariants: video IDs unique within the snapshot, videos
// sorted ascending by publish timestamp before any temporal analysis.
type ChannelSnapshot struct {
	Channel   string    `json:"channel"`
	FetchedAt time.Time `json:"fetched_at"`
	Videos    []Video   `json:"videos"`
}

// SortByPublishedAt orders the snapshot ascending by publish timestamp.
func (s *ChannelSnapshot) SortByPublishedAt() {
	sort.SliceStable(s.Videos, func(i, j int) bool {
		return s.Videos[i].PublishedAt.Before(s.Videos[j].PublishedAt)
	})
}

// Validate checks the snapshot invariants. An empty snapshot yields
// ErrEmptyInput; duplicate IDs, negative counts and zero publish timestamps
// yield a MalformedRecordError. The analyzer rejects rather than coerces.
func (s *ChannelSnapshot) Validate() error {
	if len(s.Videos) == 0 {
		return ErrEmptyInput
	}
	seen := make(map[string]struct{}, len(s.Videos))
	for _, v := range s.Videos {
		if v.ID == "" {
			return &MalformedRecordError{VideoID: v.ID, Reason: "empty video id"}
		}
		if _, dup := seen[v.ID]; dup {
			return &MalformedRecordError{VideoID: v.ID, Reason: "duplicate video id"}
		}
		seen[v.ID] = struct{}{}
		if v.PublishedAt.IsZero() {
			return &MalformedRecordError{VideoID: v.ID, Reason: "missing publish timestamp"}
		}
		if v.ViewCount < 0 || v.LikeCount < 0 || v.CommentCount < 0 {
			return &MalformedRecordError{VideoID: v.ID, Reason: "negative count"}
		}
	}
	return nil
}
