package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"tubetrends/domain/model"
	"tubetrends/domain/repository"
	"tubetrends/infrastructure/logger"
)

// csvHeader is the stable column order of snapshot CSV files. Readers reject
// files whose header does not match.
var csvHeader = []string{
	"video_id", "title", "published_at", "duration",
	"view_count", "like_count", "comment_count", "fetched_at",
}

const timestampLayout = "20060102_150405"

// SnapshotStore persists snapshots under a data directory as CSV/JSON sibling
// files named <channel>_videos_<timestamp>.{csv,json}.
type SnapshotStore struct {
	dataDir string
}

// NewSnapshotStore creates a new file-backed snapshot store.
func NewSnapshotStore(dataDir string) repository.ISnapshotStore {
	return &SnapshotStore{dataDir: dataDir}
}

// SaveSnapshot writes the snapshot as CSV and JSON and returns both paths.
func (s *SnapshotStore) SaveSnapshot(snapshot *model.ChannelSnapshot) (string, string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create data directory: %w", err)
	}

	base := fmt.Sprintf("%s_videos_%s", cleanName(snapshot.Channel), snapshot.FetchedAt.Format(timestampLayout))
	csvPath := filepath.Join(s.dataDir, base+".csv")
	jsonPath := filepath.Join(s.dataDir, base+".json")

	if err := s.writeCSV(csvPath, snapshot); err != nil {
		return "", "", err
	}
	if err := s.writeJSON(jsonPath, snapshot); err != nil {
		return "", "", err
	}

	logger.GetLogger().
		WithField("csv", csvPath).
		WithField("json", jsonPath).
		WithField("videos", len(snapshot.Videos)).
		Info("Snapshot saved")
	return csvPath, jsonPath, nil
}

// LoadSnapshot reads a snapshot back from a CSV or JSON file. Every record is
// validated; malformed rows are rejected, not coerced.
func (s *SnapshotStore) LoadSnapshot(path string) (*model.ChannelSnapshot, error) {
	var snapshot *model.ChannelSnapshot
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		snapshot, err = s.readJSON(path)
	case ".csv":
		snapshot, err = s.readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", path)
	}
	if err != nil {
		return nil, err
	}

	snapshot.SortByPublishedAt()
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

// LatestSnapshot returns the most recent CSV snapshot saved for the channel.
// The timestamp suffix makes lexical order chronological.
func (s *SnapshotStore) LatestSnapshot(channel string) (string, error) {
	pattern := filepath.Join(s.dataDir, cleanName(channel)+"_videos_*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no snapshots found for channel %q in %s", channel, s.dataDir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func (s *SnapshotStore) writeCSV(path string, snapshot *model.ChannelSnapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, v := range snapshot.Videos {
		record := []string{
			v.ID,
			v.Title,
			v.PublishedAt.UTC().Format(time.RFC3339),
			v.Duration,
			strconv.FormatInt(v.ViewCount, 10),
			strconv.FormatInt(v.LikeCount, 10),
			strconv.FormatInt(v.CommentCount, 10),
			v.FetchedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *SnapshotStore) writeJSON(path string, snapshot *model.ChannelSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

func (s *SnapshotStore) readJSON(path string) (*model.ChannelSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snapshot model.ChannelSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
	}
	if snapshot.Channel == "" {
		snapshot.Channel = channelFromFilename(path)
	}
	return &snapshot, nil
}

func (s *SnapshotStore) readCSV(path string) (*model.ChannelSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected CSV header in %s: %v", path, header)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected CSV header in %s: got %q, want %q", path, header[i], col)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}

	snapshot := &model.ChannelSnapshot{
		Channel: channelFromFilename(path),
		Videos:  make([]model.Video, 0, len(records)),
	}
	for _, record := range records {
		video, err := parseRecord(record)
		if err != nil {
			return nil, err
		}
		snapshot.Videos = append(snapshot.Videos, video)
		if video.FetchedAt.After(snapshot.FetchedAt) {
			snapshot.FetchedAt = video.FetchedAt
		}
	}
	return snapshot, nil
}

func parseRecord(record []string) (model.Video, error) {
	id := record[0]
	publishedAt, err := time.Parse(time.RFC3339, record[2])
	if err != nil {
		return model.Video{}, &model.MalformedRecordError{VideoID: id, Reason: "bad published_at: " + record[2]}
	}
	viewCount, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return model.Video{}, &model.MalformedRecordError{VideoID: id, Reason: "bad view_count: " + record[4]}
	}
	likeCount, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return model.Video{}, &model.MalformedRecordError{VideoID: id, Reason: "bad like_count: " + record[5]}
	}
	commentCount, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return model.Video{}, &model.MalformedRecordError{VideoID: id, Reason: "bad comment_count: " + record[6]}
	}
	fetchedAt, err := time.Parse(time.RFC3339, record[7])
	if err != nil {
		return model.Video{}, &model.MalformedRecordError{VideoID: id, Reason: "bad fetched_at: " + record[7]}
	}
	return model.Video{
		ID:           id,
		Title:        record[1],
		PublishedAt:  publishedAt,
		Duration:     record[3],
		ViewCount:    viewCount,
		LikeCount:    likeCount,
		CommentCount: commentCount,
		FetchedAt:    fetchedAt,
	}, nil
}

// cleanName makes a channel name filesystem-safe.
func cleanName(channel string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(channel) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "channel"
	}
	return b.String()
}

// channelFromFilename recovers the channel name from a snapshot path.
func channelFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndex(base, "_videos_"); i > 0 {
		return base[:i]
	}
	return base
}
