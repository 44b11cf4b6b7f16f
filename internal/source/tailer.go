package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
)

// DefaultPollInterval re-checks the file when no notification arrives,
// covering filesystems where fsnotify is unreliable.
const DefaultPollInterval = time.Second

// TailerConfig controls how a file is followed.
type TailerConfig struct {
	// FromStart reads existing content instead of starting at the end.
	FromStart bool

	// Once stops with io.EOF when the end of the file is reached.
	Once bool

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration

	// Positions, when set, is loaded on start to resume a previous run and
	// saved whenever the tailer catches up with the file and on Close.
	// A saved position takes precedence over FromStart.
	Positions PositionStore
}

// FileTailer yields one record per line of an NDJSON file. Lines that are
// not JSON objects are logged and skipped. It is not safe for concurrent
// use.
type FileTailer struct {
	path   string
	config TailerConfig
	logger ports.Logger

	file    *os.File
	reader  *bufio.Reader
	offset  int64
	partial []byte
	watcher *fsnotify.Watcher
	started bool
	saved   int64
}

var _ ports.RecordSource = (*FileTailer)(nil)

// NewFileTailer creates a tailer for path. The file is opened lazily on
// the first call to Next.
func NewFileTailer(path string, config TailerConfig, logger ports.Logger) *FileTailer {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	return &FileTailer{path: path, config: config, logger: logger}
}

// Next blocks until a record is available, ctx is done, or, in Once mode,
// the end of the file is reached.
func (t *FileTailer) Next(ctx context.Context) (domain.Record, error) {
	if !t.started {
		if err := t.start(); err != nil {
			return nil, err
		}
		t.started = true
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := t.reader.ReadBytes('\n')
		t.offset += int64(len(line))
		if err == nil {
			full := line
			if len(t.partial) > 0 {
				full = append(t.partial, line...)
				t.partial = nil
			}
			if r, ok := t.decode(full); ok {
				return r, nil
			}
			continue
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: %w", t.path, err)
		}

		// Keep the unterminated tail until its newline arrives.
		t.partial = append(t.partial, line...)

		if t.config.Once {
			if len(t.partial) > 0 {
				last := t.partial
				t.partial = nil
				if r, ok := t.decode(last); ok {
					return r, nil
				}
			}
			return nil, io.EOF
		}

		t.checkpoint(ctx)
		if err := t.wait(ctx); err != nil {
			return nil, err
		}
	}
}

// Close saves the read position and releases the file and the watcher.
func (t *FileTailer) Close() error {
	if t.file != nil {
		t.checkpoint(context.Background())
	}
	var errs []error
	if t.watcher != nil {
		errs = append(errs, t.watcher.Close())
		t.watcher = nil
	}
	if t.file != nil {
		errs = append(errs, t.file.Close())
		t.file = nil
	}
	return errors.Join(errs...)
}

func (t *FileTailer) start() error {
	pos, err := t.loadPosition()
	if err != nil {
		return err
	}
	if err := t.open(pos.IsEmpty() && !t.config.FromStart); err != nil {
		return err
	}
	if !pos.IsEmpty() {
		if err := t.resume(pos.Offset); err != nil {
			return err
		}
	}
	if t.config.Once {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watching the directory keeps working across rotation and recreation.
	if err := w.Add(filepath.Dir(t.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(t.path), err)
	}
	t.watcher = w
	return nil
}

func (t *FileTailer) open(seekEnd bool) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	var off int64
	if seekEnd {
		off, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			f.Close()
			return fmt.Errorf("seek input: %w", err)
		}
	}
	if t.file != nil {
		t.file.Close()
	}
	t.file = f
	t.reader = bufio.NewReader(f)
	t.offset = off
	t.partial = nil
	return nil
}

// loadPosition returns the saved position for this tailer's path, or an
// empty one.
func (t *FileTailer) loadPosition() (Position, error) {
	if t.config.Positions == nil {
		return Position{}, nil
	}
	pos, err := t.config.Positions.Load(context.Background())
	if err != nil {
		return Position{}, fmt.Errorf("load position: %w", err)
	}
	if pos.IsEmpty() || filepath.Clean(pos.Path) != filepath.Clean(t.path) {
		return Position{}, nil
	}
	return pos, nil
}

// resume seeks to off, or stays at the start when the file is now shorter.
func (t *FileTailer) resume(off int64) error {
	info, err := t.file.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if info.Size() < off {
		t.logger.Info("input file shorter than saved position, reading from start",
			ports.String("path", t.path),
			ports.Int64("offset", off),
		)
		return nil
	}
	if _, err := t.file.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek input: %w", err)
	}
	t.reader.Reset(t.file)
	t.offset = off
	t.saved = off
	t.logger.Info("resuming input", ports.String("path", t.path), ports.Int64("offset", off))
	return nil
}

// checkpoint saves the offset of the last complete line when it moved.
// Failures are logged; tailing continues.
func (t *FileTailer) checkpoint(ctx context.Context) {
	if t.config.Positions == nil {
		return
	}
	off := t.offset - int64(len(t.partial))
	if off == t.saved {
		return
	}
	err := t.config.Positions.Save(ctx, Position{Path: t.path, Offset: off, UpdatedAt: time.Now()})
	if err != nil {
		t.logger.Warn("save position", ports.String("path", t.path), ports.Err(err))
		return
	}
	t.saved = off
}

// wait blocks until the file may have changed. It reopens the file when it
// was replaced or truncated.
func (t *FileTailer) wait(ctx context.Context) error {
	timer := time.NewTimer(t.config.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			return t.checkReplaced()

		case event, ok := <-t.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(t.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			return t.checkReplaced()

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			t.logger.Warn("input watcher error", ports.String("path", t.path), ports.Err(err))
		}
	}
}

// checkReplaced reopens from the start when the path now points at a
// different file or the file shrank below the read offset.
func (t *FileTailer) checkReplaced() error {
	info, err := os.Stat(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Rotated away and not yet recreated.
			return nil
		}
		return fmt.Errorf("stat input: %w", err)
	}
	cur, err := t.file.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	if !os.SameFile(info, cur) {
		t.logger.Info("input file replaced, reopening", ports.String("path", t.path))
		return t.open(false)
	}
	if info.Size() < t.offset {
		t.logger.Info("input file truncated, reopening", ports.String("path", t.path))
		return t.open(false)
	}
	return nil
}

func (t *FileTailer) decode(line []byte) (domain.Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var r domain.Record
	if err := dec.Decode(&r); err != nil || r == nil {
		t.logger.Warn("skipping input line",
			ports.String("path", t.path),
			ports.Int("bytes", len(line)),
			ports.Err(err),
		)
		return nil, false
	}
	return r, true
}
