package snapshot

import (
	"context"
	"os"
	"path/filepath"

	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
	"github.com/devaa4522/Vortex-Engine/pkg/errors"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

// FileStore persists book snapshots as a JSON file on disk.
type FileStore struct {
	path   string
	logger *logger.Logger
}

// NewFileStore creates a snapshot store writing to the given path.
func NewFileStore(path string, logger *logger.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Save serializes the state to a temporary file and renames it into place,
// so a crash mid-write never leaves a truncated snapshot behind.
func (s *FileStore) Save(ctx context.Context, state *snapshotv1.State) error {
	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "path", Value: s.path})
		return errors.NewTracer(string(errors.SnapshotMarshalError)).Wrap(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "path", Value: s.path})
		return errors.NewTracer(string(errors.SnapshotWriteError)).Wrap(err)
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.NewTracer(string(errors.SnapshotWriteError)).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.NewTracer(string(errors.SnapshotWriteError)).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.NewTracer(string(errors.SnapshotWriteError)).Wrap(err)
	}

	s.logger.InfoContext(ctx, "Snapshot written", logger.Field{Key: "path", Value: s.path})
	return nil
}

// Load reads and deserializes the state from disk. A missing file yields
// (nil, nil) so callers can distinguish "nothing saved yet" from failure.
func (s *FileStore) Load(ctx context.Context) (*snapshotv1.State, error) {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "No snapshot file found", logger.Field{Key: "path", Value: s.path})
			return nil, nil
		}
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "path", Value: s.path})
		return nil, errors.NewTracer(string(errors.SnapshotReadError)).Wrap(err)
	}

	var state snapshotv1.State
	if err := json.Unmarshal(buf, &state); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "path", Value: s.path})
		return nil, errors.NewTracer(string(errors.SnapshotUnmarshalError)).Wrap(err)
	}
	return &state, nil
}
