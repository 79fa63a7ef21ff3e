package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// TurnLog appends entries to dir/turns/turns-<UTC hour>.jsonl.zst and starts
// a new file when the hour changes. It is safe for concurrent use.
type TurnLog struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	hour string
	file *os.File
	zw   *zstd.Encoder
	enc  *json.Encoder
}

func NewTurnLog(dir string) *TurnLog {
	return &TurnLog{dir: filepath.Join(dir, "turns"), now: time.Now}
}

func (l *TurnLog) Record(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hour := l.now().UTC().Format("2006-01-02-15"); hour != l.hour {
		if err := l.openLocked(hour); err != nil {
			return fmt.Errorf("trace: open %s: %w", hour, err)
		}
	}
	return l.enc.Encode(e)
}

// Close finishes the current file. A later Record opens a new one.
func (l *TurnLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *TurnLog) openLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.file, l.zw, l.enc, l.hour = f, zw, json.NewEncoder(zw), hour
	return nil
}

// closeLocked ends the zstd frame before closing the file; a frame left open
// is unreadable.
func (l *TurnLog) closeLocked() error {
	if l.file == nil {
		return nil
	}
	err := errors.Join(l.zw.Close(), l.file.Close())
	l.file, l.zw, l.enc, l.hour = nil, nil, nil, ""
	return err
}

func (l *TurnLog) path(hour string) string {
	return filepath.Join(l.dir, "turns-"+hour+".jsonl.zst")
}
