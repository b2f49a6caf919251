// Package trace records render snapshots to a msgpack stream so a run can be
// inspected after the fact.
//
// A trace is a Header followed by zero or more game.Snapshot values, each
// encoded back to back.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is written into every header.
const Version = 1

// ErrVersion is returned when a trace was written by an incompatible recorder.
var ErrVersion = errors.New("unsupported trace version")

// Header describes the run a trace belongs to.
type Header struct {
	Version int       `msgpack:"v"`
	Seed    int64     `msgpack:"seed"`
	Policy  string    `msgpack:"policy"`
	Size    game.Size `msgpack:"size"`
	Every   int       `msgpack:"every"` // ticks between recorded frames
}

// Recorder appends snapshots to a trace.
type Recorder struct {
	enc    *msgpack.Encoder
	buf    *bufio.Writer
	closer io.Closer
	every  int
	frames int
}

// NewRecorder writes h to w and returns a recorder for the frames that follow.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	if h.Every <= 0 {
		h.Every = 1
	}
	h.Version = Version
	buf := bufio.NewWriter(w)
	r := &Recorder{enc: msgpack.NewEncoder(buf), buf: buf, every: h.Every}
	if err := r.enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("trace: write header: %w", err)
	}
	return r, nil
}

// Create opens path for writing and starts a trace in it.
func Create(path string, h Header) (*Recorder, error) {
	f, err := os.Create(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	r, err := NewRecorder(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Record writes a snapshot of w when its tick falls on the sampling period.
func (r *Recorder) Record(w *game.World) error {
	if w.Tick%r.every != 0 {
		return nil
	}
	snap := w.Snapshot()
	if err := r.enc.Encode(&snap); err != nil {
		return fmt.Errorf("trace: write frame %d: %w", w.Tick, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of snapshots written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close flushes buffered frames and closes the underlying file, if any.
func (r *Recorder) Close() error {
	err := r.buf.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("trace: close: %w", err)
	}
	return nil
}

// Reader decodes a trace.
type Reader struct {
	Header Header

	dec    *msgpack.Decoder
	closer io.Closer
}

// NewReader reads and validates the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	tr := &Reader{dec: msgpack.NewDecoder(bufio.NewReader(r))}
	if err := tr.dec.Decode(&tr.Header); err != nil {
		return nil, fmt.Errorf("trace: read header: %w", err)
	}
	if tr.Header.Version != Version {
		return nil, fmt.Errorf("trace: version %d: %w", tr.Header.Version, ErrVersion)
	}
	return tr, nil
}

// Open opens a trace file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	tr, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	tr.closer = f
	return tr, nil
}

// Next returns the next snapshot, or io.EOF once the trace is exhausted.
func (tr *Reader) Next() (game.Snapshot, error) {
	var s game.Snapshot
	if err := tr.dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, io.EOF
		}
		return s, fmt.Errorf("trace: read frame: %w", err)
	}
	return s, nil
}

// ReadAll returns every remaining snapshot.
func (tr *Reader) ReadAll() ([]game.Snapshot, error) {
	var out []game.Snapshot
	for {
		s, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}

// Close closes the underlying file, if any.
func (tr *Reader) Close() error {
	if tr.closer == nil {
		return nil
	}
	return tr.closer.Close()
}

// Summary holds totals computed over a trace.
type Summary struct {
	Frames       int
	FirstTick    int
	LastTick     int
	MaxEnemies   int
	MaxBullets   int
	MaxParticles int
	FinalScore   uint32
}

// Summarize drains tr and aggregates what it saw.
func Summarize(tr *Reader) (Summary, error) {
	var sum Summary
	for {
		s, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
		if sum.Frames == 0 {
			sum.FirstTick = s.Tick
		}
		sum.Frames++
		sum.LastTick = s.Tick
		sum.MaxEnemies = max(sum.MaxEnemies, len(s.Enemies))
		sum.MaxBullets = max(sum.MaxBullets, len(s.Bullets))
		sum.MaxParticles = max(sum.MaxParticles, len(s.Particles))
		sum.FinalScore = s.Player.Score
	}
}
