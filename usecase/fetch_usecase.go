package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tubetrends/domain/model"
	"tubetrends/domain/repository"
	"tubetrends/infrastructure/logger"
)

// FetchResult is a persisted channel snapshot with the file paths it was
// written to.
type FetchResult struct {
	Snapshot *model.ChannelSnapshot
	CSVPath  string
	JSONPath string
}

// IFetchUseCase defines the fetch-and-persist operations.
type IFetchUseCase interface {
	// FetchChannel enumerates a channel's uploads and persists the snapshot as
	// CSV and JSON.
	FetchChannel(ctx context.Context, handleOrID string) (*FetchResult, error)

	// FetchPair fetches two channels concurrently. The two fetches have no
	// data dependency on each other.
	FetchPair(ctx context.Context, a, b string) (*FetchResult, *FetchResult, error)
}

// FetchUseCase implements IFetchUseCase on top of the YouTube client and the
// snapshot store.
type FetchUseCase struct {
	youtubeRepo repository.IYouTube
	store       repository.ISnapshotStore
}

// NewFetchUseCase creates a new fetch use case instance.
func NewFetchUseCase(youtubeRepo repository.IYouTube, store repository.ISnapshotStore) IFetchUseCase {
	return &FetchUseCase{youtubeRepo: youtubeRepo, store: store}
}

// FetchChannel resolves the channel, walks its uploads playlist and persists
// the ordered snapshot.
func (u *FetchUseCase) FetchChannel(ctx context.Context, handleOrID string) (*FetchResult, error) {
	channel, err := u.youtubeRepo.ResolveChannel(ctx, handleOrID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %q: %w", handleOrID, err)
	}
	logger.GetLogger().
		WithField("channel", channel.Title).
		WithField("subscribers", channel.SubscriberCount).
		WithField("videos", channel.VideoCount).
		WithField("views", channel.ViewCount).
		Info("Channel found")

	videos, err := u.youtubeRepo.ListUploads(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads for %q: %w", channel.Title, err)
	}

	snapshot := &model.ChannelSnapshot{
		Channel:   channel.Title,
		FetchedAt: time.Now().UTC(),
		Videos:    videos,
	}
	snapshot.SortByPublishedAt()
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("fetched snapshot for %q is unusable: %w", channel.Title, err)
	}

	csvPath, jsonPath, err := u.store.SaveSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to persist snapshot for %q: %w", channel.Title, err)
	}
	logger.GetLogger().
		WithField("videos", len(videos)).
		WithField("csv", csvPath).
		WithField("json", jsonPath).
		Info("Snapshot saved")

	return &FetchResult{Snapshot: snapshot, CSVPath: csvPath, JSONPath: jsonPath}, nil
}

// FetchPair fetches both channels of a comparison concurrently.
func (u *FetchUseCase) FetchPair(ctx context.Context, a, b string) (*FetchResult, *FetchResult, error) {
	var resultA, resultB *FetchResult
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resultA, err = u.FetchChannel(ctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		resultB, err = u.FetchChannel(ctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return resultA, resultB, nil
}
