package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const (
	opCreate = "create"
	opClick  = "click"
)

// event is one line of the append-only storage file.
type event struct {
	Op     string      `json:"op"`
	Record *LinkRecord `json:"record,omitempty"`
	Code   string      `json:"short_code,omitempty"`
}

// FileStorage persists every mutation as a JSON line and serves reads from
// an in-memory index rebuilt by replaying the file on start.
type FileStorage struct {
	mu     sync.Mutex
	file   *os.File
	size   int64
	index  *MemoryStorage
	logger *zap.Logger
}

func NewFileStorage(p string, logger *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0660)
	if err != nil {
		return nil, err
	}

	index, _ := CreateMemoryStorage()
	fs := &FileStorage{
		file:   file,
		index:  index,
		logger: logger,
	}

	if err := fs.replay(); err != nil {
		file.Close()
		return nil, err
	}

	return fs, nil
}

// replay loads every event into the index. A final line without its
// newline is an append cut short by a crash: it is dropped and the file is
// truncated back to the last complete event. Any other bad line is an error.
func (fs *FileStorage) replay() error {
	reader := bufio.NewReader(fs.file)

	var (
		lines  int
		offset int64
	)
	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("error reading file: %w", readErr)
		}
		if len(line) == 0 {
			break
		}
		lines++

		complete := line[len(line)-1] == '\n'

		var e event
		if err := json.Unmarshal(line, &e); err != nil {
			if complete {
				return fmt.Errorf("failed to parse JSON line %d: %w", lines, err)
			}

			fs.logger.Warn("dropping torn last event",
				zap.Int("line", lines),
				zap.Int64("offset", offset),
				zap.Error(err),
			)
			if err := fs.file.Truncate(offset); err != nil {
				return fmt.Errorf("truncate torn event: %w", err)
			}
			break
		}

		fs.apply(e, lines)
		offset += int64(len(line))

		if !complete {
			// the event is whole, only its terminator is missing
			if _, err := fs.file.Write([]byte{'\n'}); err != nil {
				return fmt.Errorf("terminate last event: %w", err)
			}
			offset++
		}

		if readErr != nil {
			break
		}
	}

	fs.size = offset
	fs.logger.Info("storage file replayed", zap.Int("events", lines))
	return nil
}

func (fs *FileStorage) apply(e event, line int) {
	switch e.Op {
	case opCreate:
		if e.Record != nil {
			fs.index.load(*e.Record)
		}
	case opClick:
		_, _ = fs.index.IncrementClicks(context.Background(), e.Code)
	default:
		fs.logger.Warn("unknown storage event", zap.String("op", e.Op), zap.Int("line", line))
	}
}

// append writes one event as a single write. On failure the file is cut
// back to its previous size so a partial line never precedes later events.
func (fs *FileStorage) append(e event, durable bool) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	n, err := fs.file.Write(append(b, '\n'))
	if err != nil {
		if n > 0 {
			if terr := fs.file.Truncate(fs.size); terr != nil {
				fs.logger.Error("cannot roll back partial event", zap.Error(terr))
			}
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	fs.size += int64(n)

	if durable {
		if err := fs.file.Sync(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return nil
}

// CreateIfAbsent writes and syncs the create event before the record
// becomes visible to readers.
func (fs *FileStorage) CreateIfAbsent(ctx context.Context, record LinkRecord) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.index.Get(ctx, record.ShortCode); err == nil {
		return false, nil
	}

	if err := fs.append(event{Op: opCreate, Record: &record}, true); err != nil {
		return false, err
	}

	return fs.index.CreateIfAbsent(ctx, record)
}

func (fs *FileStorage) Get(ctx context.Context, code string) (*LinkRecord, error) {
	return fs.index.Get(ctx, code)
}

// IncrementClicks appends the click without fsync; it reaches disk with the
// next flush of the OS page cache.
func (fs *FileStorage) IncrementClicks(ctx context.Context, code string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.index.Get(ctx, code); err != nil {
		return false, nil
	}

	if err := fs.append(event{Op: opClick, Code: code}, false); err != nil {
		return false, err
	}

	return fs.index.IncrementClicks(ctx, code)
}

func (fs *FileStorage) GetStats(ctx context.Context) (Stats, error) {
	return fs.index.GetStats(ctx)
}

func (fs *FileStorage) PingContext(_ context.Context) error {
	return errors.ErrUnsupported
}

func (fs *FileStorage) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.file.Close()
}
