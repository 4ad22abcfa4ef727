package repository

import "tubetrends/domain/model"

// ISnapshotStore persists channel snapshots as tabular/structured files and
// reads them back for analysis runs.
type ISnapshotStore interface {
	// SaveSnapshot writes the snapshot as CSV and JSON siblings and returns
	// both paths.
	SaveSnapshot(snapshot *model.ChannelSnapshot) (csvPath string, jsonPath string, err error)

	// LoadSnapshot reads a snapshot back from a CSV or JSON file, validating
	// every record. Malformed rows are rejected, not coerced.
	LoadSnapshot(path string) (*model.ChannelSnapshot, error)

	// LatestSnapshot returns the path of the most recent CSV snapshot saved
	// for the given channel name.
	LatestSnapshot(channel string) (string, error)
}
