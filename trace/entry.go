// Package trace records one line per robot turn so matches can be replayed
// and compared offline.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/regressiongames/model"
)

// Entry is the trace line for one turn of one robot.
type Entry struct {
	Session  string          `json:"session,omitempty"`
	Robot    int             `json:"robot"`
	Team     model.Team      `json:"team"`
	Type     model.RobotType `json:"type"`
	Round    int             `json:"round"`
	Turn     int             `json:"turn"`
	Role     string          `json:"role"`
	Outcome  string          `json:"outcome"`
	Error    string          `json:"error,omitempty"`
	Location model.Coord     `json:"location"`
	Carried  model.Inventory `json:"carried,omitempty"`
	Events   []string        `json:"events,omitempty"`
}

// Recorder receives turn entries. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(Entry) error
	Close() error
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Record(Entry) error { return nil }
func (Discard) Close() error        { return nil }

// ReadFile decodes every entry of one compressed trace file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
